package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/domain/repositories"
)

const scriptSystemPrompt = `You are an expert podcast scriptwriter. Convert structured or unstructured blog content into a casual, friendly, engaging podcast script.

RULES:
- Use simple spoken English.
- No long sentences.
- Add conversational transitions.
- Avoid robotic tone.
- Add a quick hook in the first 10 seconds.
- End with a warm closing note.`

// ScriptService turns cleaned blog text into a narration script through a
// text-generation provider.
type ScriptService struct {
	writer        repositories.ScriptWriter
	allowFallback bool
	logger        *zap.Logger
}

// NewScriptService creates a ScriptService. When allowFallback is set, a
// provider failure produces a deterministic locally-built script instead of
// an error.
func NewScriptService(writer repositories.ScriptWriter, allowFallback bool, logger *zap.Logger) *ScriptService {
	return &ScriptService{
		writer:        writer,
		allowFallback: allowFallback,
		logger:        logger,
	}
}

// Generate composes the narration prompt around cleanText and returns the
// provider's script verbatim. Only two payload checks are made, both
// best-effort: an empty body and an HTML-shaped body (a proxied error page)
// are rejected; no validation that the text parses as narration is attempted.
func (s *ScriptService) Generate(ctx context.Context, cleanText string, opts repositories.GenerateOptions) (string, error) {
	if cleanText == "" {
		return "", fmt.Errorf("%w: cleaned text is empty", domain.ErrScriptGeneration)
	}

	prompt := buildScriptPrompt(cleanText)

	script, err := s.writer.GenerateScript(ctx, prompt, opts)
	if err != nil {
		if s.allowFallback {
			s.logger.Warn("Provider unavailable, using fallback script writer", zap.Error(err))
			return buildFallbackScript(cleanText), nil
		}
		return "", fmt.Errorf("%w: %v", domain.ErrScriptGeneration, err)
	}

	script = strings.TrimSpace(script)
	if script == "" {
		return "", fmt.Errorf("%w: provider returned an empty script", domain.ErrScriptGeneration)
	}
	if looksLikeHTML(script) {
		return "", fmt.Errorf("%w: provider returned an HTML error page instead of a script", domain.ErrScriptGeneration)
	}

	s.logger.Info("Script ready", zap.Int("scriptLength", len(script)))
	return script, nil
}

func buildScriptPrompt(cleanText string) string {
	return scriptSystemPrompt + "\n\n" +
		"Transform the following blog content into a fully produced podcast script. " +
		"Focus on clarity, narrative flow, and conversational transitions.\n\n" +
		"BLOG CONTENT:\n" + cleanText
}

// looksLikeHTML sniffs the payload prefix for an HTML document. Best-effort:
// a provider error page slipping through a 200 response is the case this
// catches.
func looksLikeHTML(script string) bool {
	snippet := strings.ToLower(strings.TrimSpace(script))
	if len(snippet) > 80 {
		snippet = snippet[:80]
	}
	return strings.HasPrefix(snippet, "<!doctype") || strings.HasPrefix(snippet, "<html")
}
