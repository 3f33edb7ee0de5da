// Package audio provides the in-memory PCM segment model used for episode
// assembly: decode, fades, gain, concatenation, and export.
//
// All segments are standardized to 44.1 kHz, 16-bit, interleaved stereo
// before any mixing operation, so splice arithmetic never has to reconcile
// formats.
package audio

import (
	"math"
	"time"
)

const (
	// SampleRate is the standard rate every segment is resampled to.
	SampleRate = 44100
	// NumChannels is the standard channel count (stereo).
	NumChannels = 2
)

// Segment is an immutable, interleaved 16-bit stereo PCM buffer at 44.1 kHz.
// Operations return new segments; a segment is never shared mutably.
type Segment struct {
	samples []int16
}

// NewSegment wraps interleaved stereo samples. A trailing half-frame, if any,
// is dropped.
func NewSegment(samples []int16) Segment {
	if rem := len(samples) % NumChannels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}
	return Segment{samples: samples}
}

// Silence returns a segment of d worth of zero samples.
func Silence(d time.Duration) Segment {
	frames := int(d.Seconds() * SampleRate)
	if frames < 0 {
		frames = 0
	}
	return Segment{samples: make([]int16, frames*NumChannels)}
}

// Samples exposes the underlying buffer. Callers must not modify it.
func (s Segment) Samples() []int16 {
	return s.samples
}

// Frames reports the number of stereo frames.
func (s Segment) Frames() int {
	return len(s.samples) / NumChannels
}

// Duration reports the playback length at the standard sample rate.
func (s Segment) Duration() time.Duration {
	return time.Duration(s.Frames()) * time.Second / SampleRate
}

// Empty reports whether the segment holds no audio.
func (s Segment) Empty() bool {
	return len(s.samples) == 0
}

// FadeDuration is an optional positive fade length. The zero value means "no
// fade"; a non-positive duration can never be constructed into an enabled
// fade, so ramp arithmetic on an absent duration is unrepresentable.
type FadeDuration struct {
	d time.Duration
}

// Fade returns an enabled fade for strictly positive durations and the
// disabled zero value otherwise.
func Fade(d time.Duration) FadeDuration {
	if d > 0 {
		return FadeDuration{d: d}
	}
	return FadeDuration{}
}

// Enabled reports whether the fade should be applied at all.
func (f FadeDuration) Enabled() bool {
	return f.d > 0
}

// Duration returns the underlying duration (zero when disabled).
func (f FadeDuration) Duration() time.Duration {
	return f.d
}

func (f FadeDuration) frames() int {
	return int(f.d.Seconds() * SampleRate)
}

// FadeIn ramps the segment head from silence to full volume over the fade
// length. A disabled fade returns the segment untouched.
func (s Segment) FadeIn(f FadeDuration) Segment {
	if !f.Enabled() || s.Empty() {
		return s
	}
	out := append([]int16(nil), s.samples...)
	n := f.frames()
	if n > s.Frames() {
		n = s.Frames()
	}
	for i := 0; i < n; i++ {
		factor := float64(i) / float64(n)
		out[i*NumChannels] = scaleSample(out[i*NumChannels], factor)
		out[i*NumChannels+1] = scaleSample(out[i*NumChannels+1], factor)
	}
	return Segment{samples: out}
}

// FadeOut ramps the segment tail from full volume to silence over the fade
// length. A disabled fade returns the segment untouched.
func (s Segment) FadeOut(f FadeDuration) Segment {
	if !f.Enabled() || s.Empty() {
		return s
	}
	out := append([]int16(nil), s.samples...)
	n := f.frames()
	if n > s.Frames() {
		n = s.Frames()
	}
	start := s.Frames() - n
	for i := 0; i < n; i++ {
		factor := float64(n-i) / float64(n)
		frame := start + i
		out[frame*NumChannels] = scaleSample(out[frame*NumChannels], factor)
		out[frame*NumChannels+1] = scaleSample(out[frame*NumChannels+1], factor)
	}
	return Segment{samples: out}
}

// Gain applies a dB gain delta to every sample, clamping at full scale.
// A zero delta returns the segment untouched.
func (s Segment) Gain(db float64) Segment {
	if db == 0 || s.Empty() {
		return s
	}
	factor := math.Pow(10, db/20)
	out := make([]int16, len(s.samples))
	for i, v := range s.samples {
		out[i] = clampSample(float64(v) * factor)
	}
	return Segment{samples: out}
}

// Concat lays segments end to end in the given order. Segments are not
// overlap-mixed; each splice is a hard boundary (softened only by whatever
// fades were applied to the segment edges beforehand).
func Concat(segments ...Segment) Segment {
	total := 0
	for _, seg := range segments {
		total += len(seg.samples)
	}
	out := make([]int16, 0, total)
	for _, seg := range segments {
		out = append(out, seg.samples...)
	}
	return Segment{samples: out}
}

func scaleSample(v int16, factor float64) int16 {
	return clampSample(float64(v) * factor)
}

func clampSample(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
