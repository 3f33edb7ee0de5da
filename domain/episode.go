package domain

import (
	"fmt"
	"strings"
	"time"
)

// RawInput is the source material for one episode. Exactly one field must be
// set; Validate enforces the exclusivity before any network call is made.
type RawInput struct {
	RawText  string `json:"raw_text,omitempty"`
	TextFile string `json:"text_file,omitempty"`
	URL      string `json:"url,omitempty"`
}

// Validate checks that exactly one source is supplied.
func (in RawInput) Validate() error {
	set := 0
	for _, v := range []string{in.RawText, in.TextFile, in.URL} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("%w: provide one of raw_text, text_file, or url", ErrInvalidInput)
	}
	if set > 1 {
		return fmt.Errorf("%w: raw_text, text_file, and url are mutually exclusive", ErrInvalidInput)
	}
	return nil
}

// Episode is the result of one successful pipeline run: the narration script
// and the mixed audio artifact it was rendered into.
type Episode struct {
	ID          string        `json:"id"`
	Script      string        `json:"script"`
	AudioPath   string        `json:"audio_path"`
	Duration    time.Duration `json:"duration"`
	GeneratedAt time.Time     `json:"generated_at"`
}
