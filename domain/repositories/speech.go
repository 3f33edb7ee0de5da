package repositories

import "context"

// SpeechResultKind discriminates the two response shapes a speech provider
// may return.
type SpeechResultKind int

const (
	// InlineAudio means the provider returned the audio bytes directly
	// (base64 in transit, already decoded here).
	InlineAudio SpeechResultKind = iota + 1
	// LinkedAudio means the provider returned a retrievable URL instead of
	// the bytes themselves.
	LinkedAudio
)

// SpeechResult is the tagged union of provider response shapes, resolved once
// at the renderer boundary rather than branched on ad hoc downstream.
type SpeechResult struct {
	Kind  SpeechResultKind
	Audio []byte // set when Kind == InlineAudio
	URL   string // set when Kind == LinkedAudio
}

// SpeechSynthesizer abstracts any text-to-speech provider.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, script string) (SpeechResult, error)
}
