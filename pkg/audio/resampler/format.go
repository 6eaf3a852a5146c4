package resampler

import "time"

// Format describes 16-bit signed little-endian PCM.
type Format struct {
	// SampleRate is the sample rate in Hz (e.g., 24000, 48000).
	SampleRate int

	// Stereo indicates stereo (2 channels) if true, mono (1 channel) if false.
	Stereo bool
}

func (f Format) channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

func (f Format) sampleBytes() int {
	return 2 * f.channels()
}

// Channels returns the channel count.
func (f Format) Channels() int { return f.channels() }

// Duration returns the play time of n bytes.
func (f Format) Duration(n int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	frames := n / f.sampleBytes()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}
