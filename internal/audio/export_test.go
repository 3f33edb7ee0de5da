package audio

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExport_WAVRoundTrip(t *testing.T) {
	seg := constSegment(300*time.Millisecond, 5000)
	path := filepath.Join(t.TempDir(), "episode.wav")

	if err := Export(seg, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	decoded, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode exported file: %v", err)
	}

	if decoded.Frames() != seg.Frames() {
		t.Errorf("Round trip changed frame count: %d vs %d", decoded.Frames(), seg.Frames())
	}
	if decoded.Samples()[0] != 5000 {
		t.Errorf("Round trip changed sample values: got %d", decoded.Samples()[0])
	}
}

func TestExport_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.wav")
	if err := os.WriteFile(path, []byte("stale artifact"), 0o644); err != nil {
		t.Fatalf("Failed to seed stale file: %v", err)
	}

	seg := constSegment(50*time.Millisecond, 1000)
	if err := Export(seg, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}
	if string(data[:4]) != "RIFF" {
		t.Error("Expected the stale file to be replaced with a WAV artifact")
	}
}

func TestExport_NoStagingLeftovers(t *testing.T) {
	dir := t.TempDir()
	seg := constSegment(50*time.Millisecond, 1000)
	if err := Export(seg, filepath.Join(dir, "episode.wav")); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".staging-") {
			t.Errorf("Staging file left behind: %s", e.Name())
		}
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	seg := constSegment(50*time.Millisecond, 1000)
	if err := Export(seg, filepath.Join(t.TempDir(), "episode.ogg")); err == nil {
		t.Error("Expected error for unsupported output format")
	}
}

func TestExport_MP3(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	seg := constSegment(300*time.Millisecond, 5000)
	path := filepath.Join(t.TempDir(), "episode.mp3")

	if err := Export(seg, path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	decoded, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("Failed to decode exported mp3: %v", err)
	}

	// mp3 framing pads the edges; duration must be close, not exact.
	diff := decoded.Duration() - seg.Duration()
	if diff < -100*time.Millisecond || diff > 100*time.Millisecond {
		t.Errorf("Exported duration drifted: %v vs %v", decoded.Duration(), seg.Duration())
	}
}
