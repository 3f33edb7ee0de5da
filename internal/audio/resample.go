package audio

// Resample converts interleaved stereo 16-bit PCM between sample rates using
// linear interpolation. Fidelity is adequate for narration and music beds;
// no windowed-sinc filtering is attempted.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 {
		return samples
	}

	inFrames := len(samples) / NumChannels
	if inFrames == 0 {
		return nil
	}

	outFrames := int(float64(inFrames) * float64(toRate) / float64(fromRate))
	out := make([]int16, outFrames*NumChannels)

	ratio := float64(fromRate) / float64(toRate)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		lo := int(pos)
		hi := lo + 1
		if hi >= inFrames {
			hi = inFrames - 1
		}
		frac := pos - float64(lo)

		for ch := 0; ch < NumChannels; ch++ {
			a := float64(samples[lo*NumChannels+ch])
			b := float64(samples[hi*NumChannels+ch])
			out[i*NumChannels+ch] = clampSample(a + (b-a)*frac)
		}
	}
	return out
}

// monoToStereo duplicates a mono channel into interleaved stereo.
func monoToStereo(samples []int16) []int16 {
	out := make([]int16, len(samples)*2)
	for i, v := range samples {
		out[i*2] = v
		out[i*2+1] = v
	}
	return out
}
