package audio

import (
	"math"
	"testing"
)

func TestResample_SameRateIsIdentity(t *testing.T) {
	in := []int16{1, 1, 2, 2, 3, 3}
	out := Resample(in, SampleRate, SampleRate)
	if len(out) != len(in) {
		t.Fatalf("Expected identical length, got %d vs %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("Sample %d changed: %d vs %d", i, out[i], in[i])
		}
	}
}

func TestResample_PreservesDuration(t *testing.T) {
	cases := []struct {
		name     string
		fromRate int
	}{
		{"24kHz up", 24000},
		{"48kHz down", 48000},
		{"22.05kHz up", 22050},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// one second of input at the source rate
			in := make([]int16, tc.fromRate*NumChannels)
			out := Resample(in, tc.fromRate, SampleRate)

			gotFrames := len(out) / NumChannels
			if diff := gotFrames - SampleRate; diff < -1 || diff > 1 {
				t.Errorf("Expected ~%d frames, got %d", SampleRate, gotFrames)
			}
		})
	}
}

func TestResample_InterpolatesLinearly(t *testing.T) {
	// Doubling the rate of a two-frame ramp must land midpoints between
	// the source samples.
	in := []int16{0, 0, 1000, 1000}
	out := Resample(in, 22050, 44100)

	if len(out)/NumChannels != 4 {
		t.Fatalf("Expected 4 frames, got %d", len(out)/NumChannels)
	}
	if out[2] != 500 {
		t.Errorf("Expected interpolated sample 500, got %d", out[2])
	}
}

func TestResample_SineSurvivesRoundTrip(t *testing.T) {
	const freq = 440.0
	in := make([]int16, SampleRate*NumChannels)
	for i := 0; i < SampleRate; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
		in[i*NumChannels] = v
		in[i*NumChannels+1] = v
	}

	down := Resample(in, SampleRate, 22050)
	up := Resample(down, 22050, SampleRate)

	gotFrames := len(up) / NumChannels
	if diff := gotFrames - SampleRate; diff < -2 || diff > 2 {
		t.Errorf("Round trip changed frame count: %d vs %d", gotFrames, SampleRate)
	}
}

func TestMonoToStereo(t *testing.T) {
	out := monoToStereo([]int16{7, -7})
	want := []int16{7, 7, -7, -7}
	if len(out) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, want[i], out[i])
		}
	}
}
