package domain

import "errors"

// Error kinds for the episode pipeline. Each stage fails with its own kind and
// the orchestrator propagates the first failure unchanged, so callers (CLI,
// HTTP layer) can classify with errors.Is.
var (
	// ErrInvalidInput is returned when the input does not carry exactly one
	// of raw text, a file path, or a URL.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetch is returned when URL-sourced content cannot be retrieved.
	ErrFetch = errors.New("content fetch failed")

	// ErrFileRead is returned when a text file source cannot be read.
	ErrFileRead = errors.New("file read failed")

	// ErrScriptGeneration is returned when the text-generation provider
	// errors, returns an empty body, or returns a non-script payload.
	ErrScriptGeneration = errors.New("script generation failed")

	// ErrSynthesis is returned when the speech provider call fails or its
	// response matches neither known shape.
	ErrSynthesis = errors.New("speech synthesis failed")

	// ErrDownload is returned when the linked-audio variant of a speech
	// response cannot be retrieved.
	ErrDownload = errors.New("audio download failed")

	// ErrAssetMissing is returned when the intro or outro asset file is
	// absent from its configured path.
	ErrAssetMissing = errors.New("audio asset missing")

	// ErrMixing covers decode, fade, concatenation, and export failures
	// during assembly.
	ErrMixing = errors.New("audio mixing failed")

	// ErrConfiguration is returned for missing or invalid provider
	// credentials and other startup configuration problems.
	ErrConfiguration = errors.New("configuration error")
)

// ErrorCode maps a pipeline error to a stable machine-readable code for
// transport layers.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrFetch):
		return "fetch_failed"
	case errors.Is(err, ErrFileRead):
		return "file_read_failed"
	case errors.Is(err, ErrScriptGeneration):
		return "script_generation_failed"
	case errors.Is(err, ErrSynthesis):
		return "synthesis_failed"
	case errors.Is(err, ErrDownload):
		return "download_failed"
	case errors.Is(err, ErrAssetMissing):
		return "asset_missing"
	case errors.Is(err, ErrMixing):
		return "mixing_failed"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "internal_error"
	}
}
