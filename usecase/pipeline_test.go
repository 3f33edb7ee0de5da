package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/blogcast/blogcast/adapters/llm"
	"github.com/blogcast/blogcast/adapters/tts"
	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/internal/audio"
)

func testOptions(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.IntroPath = writeAsset(t, dir, "intro.wav", 200*time.Millisecond, 100)
	opts.OutroPath = writeAsset(t, dir, "outro.wav", 150*time.Millisecond, 300)
	opts.IntroFadeOut = 0
	opts.OutroFadeIn = 0
	opts.SpeechDeltaDB = 0
	opts.MusicDeltaDB = 0
	opts.OutputDir = dir
	return opts, dir
}

func TestPipeline_EndToEnd(t *testing.T) {
	opts, dir := testOptions(t)
	outPath := filepath.Join(dir, "final.wav")

	writer := llm.NewMockWriter("Welcome to the show. Today: a short article.")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 500*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	episode, err := p.Run(context.Background(),
		domain.RawInput{RawText: "Short article text to convert to podcast"},
		&Overrides{OutputPath: &outPath}, nil)
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	if episode.Script == "" {
		t.Error("Expected a non-empty script")
	}
	if episode.AudioPath != outPath {
		t.Errorf("Expected artifact at %s, got %s", outPath, episode.AudioPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Final artifact does not exist: %v", err)
	}
	final, err := audio.DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode final artifact: %v", err)
	}

	introPlusOutro := 200*time.Millisecond + 150*time.Millisecond
	if final.Duration() < introPlusOutro {
		t.Errorf("Episode shorter than intro+outro: %v", final.Duration())
	}
	if final.Duration() <= introPlusOutro {
		t.Error("Episode must carry speech between intro and outro")
	}
	if episode.Duration != final.Duration() {
		t.Errorf("Reported duration %v does not match artifact %v", episode.Duration, final.Duration())
	}
}

func TestPipeline_MissingIntroFailsAtAssembly(t *testing.T) {
	opts, dir := testOptions(t)
	opts.IntroPath = filepath.Join(dir, "absent-intro.wav")

	writer := llm.NewMockWriter("A script.")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	var stages []Stage
	_, err := p.Run(context.Background(), domain.RawInput{RawText: "article"}, nil,
		func(s Stage) { stages = append(stages, s) })
	if !errors.Is(err, domain.ErrAssetMissing) {
		t.Fatalf("Expected ErrAssetMissing, got %v", err)
	}

	// The failure belongs to the assembler stage; synthesis has already run.
	if synth.CallCount() != 1 {
		t.Errorf("Expected synthesis to have run, got %d calls", synth.CallCount())
	}
	if len(stages) == 0 || stages[len(stages)-2] != StageAssembling {
		t.Errorf("Expected failure during assembling, stages: %v", stages)
	}
}

func TestPipeline_EmptyScriptSkipsSynthesis(t *testing.T) {
	opts, _ := testOptions(t)

	writer := llm.NewMockWriter("")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	_, err := p.Run(context.Background(), domain.RawInput{RawText: "article"}, nil, nil)
	if !errors.Is(err, domain.ErrScriptGeneration) {
		t.Fatalf("Expected ErrScriptGeneration, got %v", err)
	}
	if synth.CallCount() != 0 {
		t.Errorf("Speech renderer must never run after script failure, got %d calls", synth.CallCount())
	}
}

func TestPipeline_InvalidInputBeforeProviders(t *testing.T) {
	opts, _ := testOptions(t)

	writer := llm.NewMockWriter("script")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	_, err := p.Run(context.Background(),
		domain.RawInput{RawText: "text", URL: "https://example.com"}, nil, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if writer.CallCount() != 0 || synth.CallCount() != 0 {
		t.Error("No provider may be called for invalid input")
	}
}

func TestPipeline_StageOrder(t *testing.T) {
	opts, dir := testOptions(t)
	outPath := filepath.Join(dir, "ordered.wav")

	writer := llm.NewMockWriter("A script.")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	var stages []Stage
	_, err := p.Run(context.Background(), domain.RawInput{RawText: "article"},
		&Overrides{OutputPath: &outPath},
		func(s Stage) { stages = append(stages, s) })
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	want := []Stage{StageNormalizing, StageSynthesizingScript, StageSynthesizingSpeech, StageAssembling, StageDone}
	if len(stages) != len(want) {
		t.Fatalf("Expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("Expected stages %v, got %v", want, stages)
		}
	}
}

func TestPipeline_PerRunOutputPaths(t *testing.T) {
	opts, _ := testOptions(t)

	writer := llm.NewMockWriter("A script.")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	// Default naming derives a unique artifact per run; mp3 export needs
	// ffmpeg, so pin distinct wav targets and check run isolation instead.
	first := filepath.Join(opts.OutputDir, "a.wav")
	second := filepath.Join(opts.OutputDir, "b.wav")

	ep1, err := p.Run(context.Background(), domain.RawInput{RawText: "article one"}, &Overrides{OutputPath: &first}, nil)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	ep2, err := p.Run(context.Background(), domain.RawInput{RawText: "article two"}, &Overrides{OutputPath: &second}, nil)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if ep1.AudioPath == ep2.AudioPath {
		t.Error("Concurrent-safe runs must not share a write target")
	}
	if ep1.ID == ep2.ID {
		t.Error("Episode IDs must be unique per invocation")
	}
}

func TestPipeline_MaxCharsOverride(t *testing.T) {
	opts, dir := testOptions(t)
	outPath := filepath.Join(dir, "truncated.wav")

	writer := llm.NewMockWriter("A script.")
	synth := tts.NewMockSynthesizer(makeWAVBytes(t, 100*time.Millisecond, 2000))
	p := NewPipeline(writer, synth, opts, zaptest.NewLogger(t))

	limit := 50
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	_, err := p.Run(context.Background(), domain.RawInput{RawText: string(long)},
		&Overrides{MaxChars: &limit, OutputPath: &outPath}, nil)
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	if len(writer.Prompts) != 1 {
		t.Fatalf("Expected 1 provider call, got %d", len(writer.Prompts))
	}
	// The prompt suffix is the cleaned text; it must respect the override.
	prompt := writer.Prompts[0]
	count := 0
	for _, r := range prompt {
		if r == 'x' {
			count++
		}
	}
	if count != limit {
		t.Errorf("Expected cleaned text of %d chars in prompt, found %d", limit, count)
	}
}
