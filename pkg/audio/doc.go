// Package audio groups the PCM helpers used by the speech providers.
//
//   - wav: RIFF/WAVE encoding and decoding of 16-bit PCM
//   - resampler: sample rate conversion of 16-bit PCM buffers
package audio
