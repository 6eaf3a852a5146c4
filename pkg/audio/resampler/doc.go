// Package resampler converts 16-bit PCM between sample rates and channel
// layouts using a pure Go resampler.
//
// Providers that return raw PCM at a fixed rate are resampled to the natural
// rate of the selected voice before the audio is wrapped as WAV:
//
//	src := resampler.Format{SampleRate: 24000}
//	dst := resampler.Format{SampleRate: 16000}
//	out, err := resampler.Resample(pcm, src, dst)
package resampler
