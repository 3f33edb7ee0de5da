package usecase

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/domain/repositories"
	"github.com/blogcast/blogcast/internal/audio"
	"github.com/blogcast/blogcast/internal/content"
)

// Stage identifies the pipeline's position in its linear state machine.
type Stage string

// Pipeline stages, in execution order. Any stage may transition directly to
// StageFailed; a failed run is never resumed, only re-invoked.
const (
	StageIdle               Stage = "idle"
	StageNormalizing        Stage = "normalizing"
	StageSynthesizingScript Stage = "synthesizing_script"
	StageSynthesizingSpeech Stage = "synthesizing_speech"
	StageAssembling         Stage = "assembling"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// Options is the immutable configuration bundle one pipeline is constructed
// with. Per-run overrides are layered on top without mutating it.
type Options struct {
	MaxChars        int
	MaxOutputTokens int32
	Model           string

	IntroPath     string
	OutroPath     string
	IntroFadeOut  time.Duration
	OutroFadeIn   time.Duration
	SpeechDeltaDB float64
	MusicDeltaDB  float64

	// OutputPath pins the artifact location; when empty, a unique name
	// under OutputDir is derived per run so concurrent invocations never
	// race on one write target.
	OutputPath string
	OutputDir  string
}

// DefaultOptions mirror the production defaults of the original service.
func DefaultOptions() Options {
	return Options{
		MaxChars:        content.DefaultMaxChars,
		MaxOutputTokens: 3000,
		IntroPath:       "assets/intro.mp3",
		OutroPath:       "assets/outro.mp3",
		IntroFadeOut:    1500 * time.Millisecond,
		OutroFadeIn:     2 * time.Second,
		SpeechDeltaDB:   1.0,
		MusicDeltaDB:    -1.0,
		OutputDir:       "output",
	}
}

// Overrides carries optional per-run deviations from the constructed
// Options. Nil fields inherit.
type Overrides struct {
	MaxChars        *int           `json:"max_chars,omitempty"`
	MaxOutputTokens *int32         `json:"max_output_tokens,omitempty"`
	Model           *string        `json:"model,omitempty"`
	IntroPath       *string        `json:"intro_path,omitempty"`
	OutroPath       *string        `json:"outro_path,omitempty"`
	IntroFadeOutMS  *int           `json:"intro_fade_out_ms,omitempty"`
	OutroFadeInMS   *int           `json:"outro_fade_in_ms,omitempty"`
	SpeechDeltaDB   *float64       `json:"speech_delta_db,omitempty"`
	MusicDeltaDB    *float64       `json:"music_delta_db,omitempty"`
	OutputPath      *string        `json:"output_path,omitempty"`
}

// apply layers the overrides over base and returns the merged copy.
func (ov *Overrides) apply(base Options) Options {
	if ov == nil {
		return base
	}
	if ov.MaxChars != nil {
		base.MaxChars = *ov.MaxChars
	}
	if ov.MaxOutputTokens != nil {
		base.MaxOutputTokens = *ov.MaxOutputTokens
	}
	if ov.Model != nil {
		base.Model = *ov.Model
	}
	if ov.IntroPath != nil {
		base.IntroPath = *ov.IntroPath
	}
	if ov.OutroPath != nil {
		base.OutroPath = *ov.OutroPath
	}
	if ov.IntroFadeOutMS != nil {
		base.IntroFadeOut = time.Duration(*ov.IntroFadeOutMS) * time.Millisecond
	}
	if ov.OutroFadeInMS != nil {
		base.OutroFadeIn = time.Duration(*ov.OutroFadeInMS) * time.Millisecond
	}
	if ov.SpeechDeltaDB != nil {
		base.SpeechDeltaDB = *ov.SpeechDeltaDB
	}
	if ov.MusicDeltaDB != nil {
		base.MusicDeltaDB = *ov.MusicDeltaDB
	}
	if ov.OutputPath != nil {
		base.OutputPath = *ov.OutputPath
	}
	return base
}

// ProgressFunc observes stage transitions. It is called synchronously from
// the pipeline goroutine and must not block.
type ProgressFunc func(Stage)

// Pipeline orchestrates one episode: normalize → script → speech → assemble.
// Stages run strictly sequentially; the first failing stage's error is
// surfaced unchanged and nothing downstream runs.
type Pipeline struct {
	normalizer *content.Normalizer
	scripts    *ScriptService
	renderer   *SpeechRenderer
	options    Options
	logger     *zap.Logger
}

// NewPipeline wires the stages around one immutable Options value.
func NewPipeline(
	writer repositories.ScriptWriter,
	synthesizer repositories.SpeechSynthesizer,
	options Options,
	logger *zap.Logger,
) *Pipeline {
	return NewPipelineWithFallback(writer, synthesizer, options, false, logger)
}

// NewPipelineWithFallback additionally enables the deterministic fallback
// script writer for provider outages.
func NewPipelineWithFallback(
	writer repositories.ScriptWriter,
	synthesizer repositories.SpeechSynthesizer,
	options Options,
	allowFallback bool,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		normalizer: content.NewNormalizer(options.MaxChars, 0, logger),
		scripts:    NewScriptService(writer, allowFallback, logger),
		renderer:   NewSpeechRenderer(synthesizer, 0, logger),
		options:    options,
		logger:     logger,
	}
}

// Run executes the full pipeline for one input. overrides may be nil;
// progress may be nil.
func (p *Pipeline) Run(ctx context.Context, in domain.RawInput, overrides *Overrides, progress ProgressFunc) (*domain.Episode, error) {
	report := func(stage Stage) {
		if progress != nil {
			progress(stage)
		}
	}

	opts := overrides.apply(p.options)
	id := uuid.NewString()
	started := time.Now()
	p.logger.Info("Pipeline start", zap.String("episodeID", id))

	report(StageNormalizing)
	cleanText, err := p.normalizer.NormalizeWithLimit(ctx, in, opts.MaxChars)
	if err != nil {
		return p.fail(report, id, err)
	}
	p.logger.Info("Blog cleaned", zap.String("episodeID", id), zap.Int("chars", len(cleanText)))

	report(StageSynthesizingScript)
	script, err := p.scripts.Generate(ctx, cleanText, repositories.GenerateOptions{
		Model:           opts.Model,
		MaxOutputTokens: opts.MaxOutputTokens,
	})
	if err != nil {
		return p.fail(report, id, err)
	}
	p.logger.Info("Podcast script ready", zap.String("episodeID", id))

	report(StageSynthesizingSpeech)
	speech, err := p.renderer.Render(ctx, script)
	if err != nil {
		return p.fail(report, id, err)
	}

	report(StageAssembling)
	outPath := opts.OutputPath
	if outPath == "" {
		outPath = filepath.Join(opts.OutputDir, "episode-"+id+".mp3")
	}
	assembler := NewAssembler(AssemblerConfig{
		IntroPath:     opts.IntroPath,
		OutroPath:     opts.OutroPath,
		IntroFadeOut:  audio.Fade(opts.IntroFadeOut),
		OutroFadeIn:   audio.Fade(opts.OutroFadeIn),
		SpeechDeltaDB: opts.SpeechDeltaDB,
		MusicDeltaDB:  opts.MusicDeltaDB,
	}, p.logger)
	episodeDuration, err := assembler.Assemble(speech, outPath)
	if err != nil {
		return p.fail(report, id, err)
	}

	report(StageDone)
	p.logger.Info("Pipeline complete",
		zap.String("episodeID", id),
		zap.String("path", outPath),
		zap.Duration("elapsed", time.Since(started)))

	return &domain.Episode{
		ID:          id,
		Script:      script,
		AudioPath:   outPath,
		Duration:    episodeDuration,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (p *Pipeline) fail(report func(Stage), id string, err error) (*domain.Episode, error) {
	report(StageFailed)
	p.logger.Error("Pipeline failed", zap.String("episodeID", id), zap.Error(err))
	return nil, err
}
