package repositories

import "context"

// GenerateOptions carries per-call overrides for a script generation request.
// Zero values fall back to the adapter's configured defaults.
type GenerateOptions struct {
	Model           string
	MaxOutputTokens int32
}

// ScriptWriter abstracts any text-generation provider. The prompt is fully
// composed by the caller; the provider's response text is returned verbatim.
type ScriptWriter interface {
	GenerateScript(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
