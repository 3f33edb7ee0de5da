// Package content turns raw episode input into bounded plain text suitable
// for prompting.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
)

const (
	// DefaultMaxChars bounds cleaned text so oversized articles cannot blow
	// the prompt budget downstream.
	DefaultMaxChars = 30000

	defaultFetchTimeout = 15 * time.Second
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalizer fetches and cleans raw input into bounded plain text.
type Normalizer struct {
	maxChars int
	client   *http.Client
	logger   *zap.Logger
}

// NewNormalizer creates a Normalizer. maxChars <= 0 falls back to
// DefaultMaxChars, timeout <= 0 to the default fetch timeout.
func NewNormalizer(maxChars int, timeout time.Duration, logger *zap.Logger) *Normalizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Normalizer{
		maxChars: maxChars,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Normalize resolves the input source, strips markup for URL sources, and
// returns whitespace-collapsed text hard-truncated at maxChars. Exclusivity
// is checked before any network call.
func (n *Normalizer) Normalize(ctx context.Context, in domain.RawInput) (string, error) {
	return n.NormalizeWithLimit(ctx, in, n.maxChars)
}

// NormalizeWithLimit is Normalize with a per-call character bound.
// limit <= 0 falls back to the configured default.
func (n *Normalizer) NormalizeWithLimit(ctx context.Context, in domain.RawInput, limit int) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = n.maxChars
	}

	var raw string
	switch {
	case strings.TrimSpace(in.URL) != "":
		fetched, err := n.fetch(ctx, strings.TrimSpace(in.URL))
		if err != nil {
			return "", err
		}
		raw = fetched
	case strings.TrimSpace(in.TextFile) != "":
		data, err := os.ReadFile(in.TextFile)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrFileRead, err)
		}
		raw = string(data)
	default:
		raw = in.RawText
	}

	cleaned := cleanText(raw, limit)
	if cleaned == "" {
		return "", fmt.Errorf("%w: no content could be extracted from the provided input", domain.ErrInvalidInput)
	}

	n.logger.Info("Content normalized", zap.Int("chars", len(cleaned)))
	return cleaned, nil
}

func (n *Normalizer) fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: not an http(s) URL: %s", domain.ErrInvalidInput, rawURL)
	}

	n.logger.Info("Fetching remote content", zap.String("url", rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned status %d", domain.ErrFetch, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	// Structured extraction first; fall back to the raw body when the page
	// yields no readable text (mirrors the raw-GET fallback upstream).
	extracted := ExtractReadableText(body)
	if extracted == "" {
		n.logger.Info("Extraction yielded no text, falling back to raw body", zap.String("url", rawURL))
		return string(body), nil
	}
	return extracted, nil
}

// cleanText collapses whitespace and hard-truncates at limit runes. The cut
// is a plain prefix with no sentence-boundary awareness.
func cleanText(raw string, limit int) string {
	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}
