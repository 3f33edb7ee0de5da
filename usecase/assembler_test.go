package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/internal/audio"
)

func writeAsset(t *testing.T, dir, name string, d time.Duration, value int16) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := makeWAVBytes(t, d, value)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write asset %s: %v", name, err)
	}
	return path
}

func constSpeech(d time.Duration, value int16) audio.Segment {
	frames := int(d.Seconds() * audio.SampleRate)
	samples := make([]int16, frames*audio.NumChannels)
	for i := range samples {
		samples[i] = value
	}
	return audio.NewSegment(samples)
}

func TestAssembler_MixesInOrder(t *testing.T) {
	dir := t.TempDir()
	intro := writeAsset(t, dir, "intro.wav", 300*time.Millisecond, 100)
	outro := writeAsset(t, dir, "outro.wav", 200*time.Millisecond, 300)
	outPath := filepath.Join(dir, "final.wav")

	a := NewAssembler(AssemblerConfig{IntroPath: intro, OutroPath: outro}, zaptest.NewLogger(t))
	speech := constSpeech(700*time.Millisecond, 200)

	duration, err := a.Assemble(speech, outPath)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := 300*time.Millisecond + 700*time.Millisecond + 200*time.Millisecond
	if duration != want {
		t.Errorf("Expected duration %v, got %v", want, duration)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read final artifact: %v", err)
	}
	final, err := audio.DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode final artifact: %v", err)
	}

	samples := final.Samples()
	if samples[0] != 100 {
		t.Errorf("Final artifact must begin with intro content, got %d", samples[0])
	}
	if last := samples[len(samples)-1]; last != 300 {
		t.Errorf("Final artifact must end with outro content, got %d", last)
	}
}

func TestAssembler_MissingIntro(t *testing.T) {
	dir := t.TempDir()
	outro := writeAsset(t, dir, "outro.wav", 100*time.Millisecond, 300)

	a := NewAssembler(AssemblerConfig{
		IntroPath: filepath.Join(dir, "absent-intro.wav"),
		OutroPath: outro,
	}, zaptest.NewLogger(t))

	_, err := a.Assemble(constSpeech(100*time.Millisecond, 200), filepath.Join(dir, "final.wav"))
	if !errors.Is(err, domain.ErrAssetMissing) {
		t.Errorf("Expected ErrAssetMissing, got %v", err)
	}
}

func TestAssembler_MissingOutro(t *testing.T) {
	dir := t.TempDir()
	intro := writeAsset(t, dir, "intro.wav", 100*time.Millisecond, 100)

	a := NewAssembler(AssemblerConfig{
		IntroPath: intro,
		OutroPath: filepath.Join(dir, "absent-outro.wav"),
	}, zaptest.NewLogger(t))

	_, err := a.Assemble(constSpeech(100*time.Millisecond, 200), filepath.Join(dir, "final.wav"))
	if !errors.Is(err, domain.ErrAssetMissing) {
		t.Errorf("Expected ErrAssetMissing, got %v", err)
	}
}

func TestAssembler_CorruptAsset(t *testing.T) {
	dir := t.TempDir()
	intro := filepath.Join(dir, "intro.wav")
	if err := os.WriteFile(intro, []byte("RIFFgarbage that is not a wav file"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt asset: %v", err)
	}
	outro := writeAsset(t, dir, "outro.wav", 100*time.Millisecond, 300)

	a := NewAssembler(AssemblerConfig{IntroPath: intro, OutroPath: outro}, zaptest.NewLogger(t))
	_, err := a.Assemble(constSpeech(100*time.Millisecond, 200), filepath.Join(dir, "final.wav"))
	if !errors.Is(err, domain.ErrMixing) {
		t.Errorf("Expected ErrMixing, got %v", err)
	}
}

func TestAssembler_NonPositiveFadeMatchesNoFade(t *testing.T) {
	dir := t.TempDir()
	intro := writeAsset(t, dir, "intro.wav", 200*time.Millisecond, 100)
	outro := writeAsset(t, dir, "outro.wav", 200*time.Millisecond, 300)
	speech := constSpeech(400*time.Millisecond, 200)

	render := func(name string, introFade, outroFade time.Duration) []byte {
		outPath := filepath.Join(dir, name)
		a := NewAssembler(AssemblerConfig{
			IntroPath:    intro,
			OutroPath:    outro,
			IntroFadeOut: audio.Fade(introFade),
			OutroFadeIn:  audio.Fade(outroFade),
		}, zaptest.NewLogger(t))
		if _, err := a.Assemble(speech, outPath); err != nil {
			t.Fatalf("Assemble failed: %v", err)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("Failed to read artifact: %v", err)
		}
		return data
	}

	noFade := render("nofade.wav", 0, 0)
	zeroFade := render("zerofade.wav", 0, -time.Second)

	if len(noFade) != len(zeroFade) {
		t.Fatalf("Artifacts differ in size: %d vs %d", len(noFade), len(zeroFade))
	}
	for i := range noFade {
		if noFade[i] != zeroFade[i] {
			t.Fatalf("Non-positive fade output must be bit-identical to no-fade output (differs at byte %d)", i)
		}
	}
}

func TestAssembler_FadeKeepsTotalDuration(t *testing.T) {
	dir := t.TempDir()
	intro := writeAsset(t, dir, "intro.wav", 200*time.Millisecond, 100)
	outro := writeAsset(t, dir, "outro.wav", 200*time.Millisecond, 300)
	outPath := filepath.Join(dir, "final.wav")

	a := NewAssembler(AssemblerConfig{
		IntroPath:    intro,
		OutroPath:    outro,
		IntroFadeOut: audio.Fade(100 * time.Millisecond),
		OutroFadeIn:  audio.Fade(50 * time.Millisecond),
	}, zaptest.NewLogger(t))

	duration, err := a.Assemble(constSpeech(400*time.Millisecond, 200), outPath)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := 200*time.Millisecond + 400*time.Millisecond + 200*time.Millisecond
	if duration != want {
		t.Errorf("Edge fades must not shorten the episode: got %v, want %v", duration, want)
	}
}

func TestAssembler_SpeechGainDelta(t *testing.T) {
	dir := t.TempDir()
	intro := writeAsset(t, dir, "intro.wav", 100*time.Millisecond, 100)
	outro := writeAsset(t, dir, "outro.wav", 100*time.Millisecond, 100)
	outPath := filepath.Join(dir, "final.wav")

	a := NewAssembler(AssemblerConfig{
		IntroPath:     intro,
		OutroPath:     outro,
		SpeechDeltaDB: 6,
	}, zaptest.NewLogger(t))

	if _, err := a.Assemble(constSpeech(100*time.Millisecond, 1000), outPath); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	final, err := audio.DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode artifact: %v", err)
	}

	introFrames := int(0.1 * audio.SampleRate)
	speechSample := final.Samples()[(introFrames+10)*audio.NumChannels]
	if speechSample <= 1000 {
		t.Errorf("Expected boosted speech samples, got %d", speechSample)
	}
}
