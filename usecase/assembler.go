package usecase

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/internal/audio"
)

// AssemblerConfig fixes the asset paths and mixing parameters for one
// assembler. Fade fields are optional positive durations: a disabled fade is
// skipped entirely, never attempted with a zero length.
type AssemblerConfig struct {
	IntroPath string
	OutroPath string

	// IntroFadeOut softens the intro tail, OutroFadeIn the outro head.
	IntroFadeOut audio.FadeDuration
	OutroFadeIn  audio.FadeDuration

	// SpeechDeltaDB and MusicDeltaDB adjust perceived loudness of speech
	// and the intro/outro beds relative to each other.
	SpeechDeltaDB float64
	MusicDeltaDB  float64
}

// Assembler mixes rendered speech with the intro/outro assets into the final
// episode artifact.
type Assembler struct {
	config AssemblerConfig
	logger *zap.Logger
}

// NewAssembler creates an Assembler with a fixed configuration.
func NewAssembler(config AssemblerConfig, logger *zap.Logger) *Assembler {
	return &Assembler{config: config, logger: logger}
}

// Assemble loads both assets, applies the edge fades and gain deltas,
// concatenates intro + speech + outro, and exports to outPath. Both assets
// are hard preconditions; export is staged-and-renamed so no half-written
// file survives a failure.
func (a *Assembler) Assemble(speech audio.Segment, outPath string) (time.Duration, error) {
	if speech.Empty() {
		return 0, fmt.Errorf("%w: rendered speech is empty", domain.ErrMixing)
	}

	intro, err := a.loadAsset(a.config.IntroPath)
	if err != nil {
		return 0, err
	}
	outro, err := a.loadAsset(a.config.OutroPath)
	if err != nil {
		return 0, err
	}

	intro = intro.Gain(a.config.MusicDeltaDB).FadeOut(a.config.IntroFadeOut)
	outro = outro.Gain(a.config.MusicDeltaDB).FadeIn(a.config.OutroFadeIn)
	speech = speech.Gain(a.config.SpeechDeltaDB)

	a.logger.Info("Mixing intro, speech, and outro",
		zap.Duration("intro", intro.Duration()),
		zap.Duration("speech", speech.Duration()),
		zap.Duration("outro", outro.Duration()))

	final := audio.Concat(intro, speech, outro)
	if err := audio.Export(final, outPath); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMixing, err)
	}

	a.logger.Info("Episode exported",
		zap.String("path", outPath),
		zap.Duration("duration", final.Duration()))
	return final.Duration(), nil
}

func (a *Assembler) loadAsset(path string) (audio.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return audio.Segment{}, fmt.Errorf("%w: %s", domain.ErrAssetMissing, path)
		}
		return audio.Segment{}, fmt.Errorf("%w: %v", domain.ErrAssetMissing, err)
	}

	segment, err := audio.DecodeBytes(data)
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: decoding %s: %v", domain.ErrMixing, path, err)
	}
	return segment, nil
}
