package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const mp3Bitrate = "320k"

// Export encodes the segment to path, chosen by extension: ".wav" is written
// natively, ".mp3" is encoded with ffmpeg (libmp3lame). The artifact is
// staged in the destination directory and renamed into place, so a failed
// export never leaves a half-written file at path.
func Export(seg Segment, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return exportWAV(seg, path)
	case ".mp3":
		return exportMP3(seg, path)
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
}

func exportWAV(seg Segment, path string) error {
	tmp := stagingPath(path, ".wav")
	if err := writeWAV(seg, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	return rename(tmp, path)
}

func exportMP3(seg Segment, path string) error {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg binary is required for mp3 export: %w", err)
	}

	tmpWAV := stagingPath(path, ".wav")
	if err := writeWAV(seg, tmpWAV); err != nil {
		os.Remove(tmpWAV)
		return err
	}
	defer os.Remove(tmpWAV)

	tmpMP3 := stagingPath(path, ".mp3")
	cmd := exec.Command(ffmpeg,
		"-y", "-loglevel", "error",
		"-i", tmpWAV,
		"-codec:a", "libmp3lame",
		"-b:a", mp3Bitrate,
		"-ar", fmt.Sprintf("%d", SampleRate),
		tmpMP3,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(tmpMP3)
		return fmt.Errorf("ffmpeg encode: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return rename(tmpMP3, path)
}

func writeWAV(seg Segment, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	encoder := wav.NewEncoder(f, SampleRate, 16, NumChannels, 1)
	data := make([]int, len(seg.Samples()))
	for i, v := range seg.Samples() {
		data[i] = int(v)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: NumChannels, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := encoder.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wav encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wav encode: %w", err)
	}
	return f.Close()
}

// stagingPath builds a sibling temp name so the final rename stays on one
// filesystem.
func stagingPath(path, ext string) string {
	return filepath.Join(filepath.Dir(path), ".staging-"+uuid.NewString()+ext)
}

func rename(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}
