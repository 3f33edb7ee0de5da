package tts

import (
	"context"
	"sync"

	"github.com/blogcast/blogcast/domain/repositories"
)

// MockSynthesizer is a canned SpeechSynthesizer for tests and offline
// development.
type MockSynthesizer struct {
	mu      sync.Mutex
	Result  repositories.SpeechResult
	Err     error
	Scripts []string
}

var _ repositories.SpeechSynthesizer = (*MockSynthesizer)(nil)

// NewMockSynthesizer returns a synthesizer that always answers with an inline
// copy of audio.
func NewMockSynthesizer(audio []byte) *MockSynthesizer {
	return &MockSynthesizer{
		Result: repositories.SpeechResult{Kind: repositories.InlineAudio, Audio: audio},
	}
}

// Synthesize records the script and returns the canned result or error.
func (m *MockSynthesizer) Synthesize(_ context.Context, script string) (repositories.SpeechResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scripts = append(m.Scripts, script)
	if m.Err != nil {
		return repositories.SpeechResult{}, m.Err
	}
	return m.Result, nil
}

// CallCount reports how many times Synthesize was invoked.
func (m *MockSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Scripts)
}
