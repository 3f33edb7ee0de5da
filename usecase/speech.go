package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/domain/repositories"
	"github.com/blogcast/blogcast/internal/audio"
)

const defaultDownloadTimeout = 30 * time.Second

// SpeechRenderer converts a narration script into a decoded audio segment.
// The provider's two response shapes (inline bytes, retrievable link) are
// both normalized to a local buffer here; downstream assembly never sees the
// distinction.
type SpeechRenderer struct {
	synthesizer repositories.SpeechSynthesizer
	client      *http.Client
	logger      *zap.Logger
}

// NewSpeechRenderer creates a SpeechRenderer. downloadTimeout <= 0 falls back
// to the default.
func NewSpeechRenderer(synthesizer repositories.SpeechSynthesizer, downloadTimeout time.Duration, logger *zap.Logger) *SpeechRenderer {
	if downloadTimeout <= 0 {
		downloadTimeout = defaultDownloadTimeout
	}
	return &SpeechRenderer{
		synthesizer: synthesizer,
		client:      &http.Client{Timeout: downloadTimeout},
		logger:      logger,
	}
}

// Render synthesizes the script and returns a decoded, standardized segment.
func (r *SpeechRenderer) Render(ctx context.Context, script string) (audio.Segment, error) {
	result, err := r.synthesizer.Synthesize(ctx, script)
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	var speech []byte
	switch result.Kind {
	case repositories.InlineAudio:
		speech = result.Audio
	case repositories.LinkedAudio:
		speech, err = r.download(ctx, result.URL)
		if err != nil {
			return audio.Segment{}, err
		}
	default:
		return audio.Segment{}, fmt.Errorf("%w: provider response matched no known shape", domain.ErrSynthesis)
	}

	if len(speech) == 0 {
		return audio.Segment{}, fmt.Errorf("%w: provider returned no audio payload", domain.ErrSynthesis)
	}

	segment, err := audio.DecodeBytes(speech)
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	r.logger.Info("Speech rendered",
		zap.Int("bytes", len(speech)),
		zap.Duration("duration", segment.Duration()))
	return segment, nil
}

func (r *SpeechRenderer) download(ctx context.Context, url string) ([]byte, error) {
	r.logger.Info("Downloading linked audio", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownload, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrDownload, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownload, err)
	}
	return data, nil
}
