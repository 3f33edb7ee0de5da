package llm

import (
	"context"
	"sync"

	"github.com/blogcast/blogcast/domain/repositories"
)

// MockWriter is a scripted ScriptWriter for tests and offline development.
type MockWriter struct {
	mu      sync.Mutex
	Script  string
	Err     error
	Prompts []string
}

var _ repositories.ScriptWriter = (*MockWriter)(nil)

// NewMockWriter returns a writer that always answers with script.
func NewMockWriter(script string) *MockWriter {
	return &MockWriter{Script: script}
}

// GenerateScript records the prompt and returns the canned script or error.
func (m *MockWriter) GenerateScript(_ context.Context, prompt string, _ repositories.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Script, nil
}

// CallCount reports how many times GenerateScript was invoked.
func (m *MockWriter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
