package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// DecodeBytes sniffs the container format (WAV vs MP3) and decodes into a
// standardized Segment. Anything that is not a RIFF/WAVE file is handed to
// the MP3 decoder.
func DecodeBytes(data []byte) (Segment, error) {
	if len(data) < 4 {
		return Segment{}, fmt.Errorf("audio payload too short (%d bytes)", len(data))
	}
	if bytes.HasPrefix(data, []byte("RIFF")) {
		return decodeWAV(data)
	}
	return decodeMP3(data)
}

func decodeWAV(data []byte) (Segment, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Segment{}, fmt.Errorf("wav decode: %w", err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return Segment{}, fmt.Errorf("wav decode: empty PCM buffer")
	}

	depth := int(decoder.BitDepth)
	if depth == 0 {
		depth = 16
	}
	shift := depth - 16

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if shift > 0 {
			v >>= shift
		} else if shift < 0 {
			v <<= -shift
		}
		samples[i] = clampSample(float64(v))
	}

	switch buf.Format.NumChannels {
	case 1:
		samples = monoToStereo(samples)
	case 2:
		// already interleaved stereo
	default:
		return Segment{}, fmt.Errorf("wav decode: unsupported channel count %d", buf.Format.NumChannels)
	}

	if buf.Format.SampleRate != SampleRate {
		samples = Resample(samples, buf.Format.SampleRate, SampleRate)
	}
	return NewSegment(samples), nil
}

func decodeMP3(data []byte) (Segment, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return Segment{}, fmt.Errorf("mp3 decode: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian interleaved stereo.
	raw, err := io.ReadAll(decoder)
	if err != nil {
		return Segment{}, fmt.Errorf("mp3 decode: %w", err)
	}
	if len(raw) == 0 {
		return Segment{}, fmt.Errorf("mp3 decode: empty stream")
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	if rate := decoder.SampleRate(); rate != SampleRate {
		samples = Resample(samples, rate, SampleRate)
	}
	return NewSegment(samples), nil
}
