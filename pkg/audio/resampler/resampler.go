package resampler

import (
	"errors"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// ErrFormat is returned for a format with a non-positive sample rate.
var ErrFormat = errors.New("resampler: invalid format")

// Resample converts pcm from srcFmt to dstFmt. A trailing partial sample is
// dropped. When only the channel layout differs no filtering takes place.
func Resample(pcm []byte, srcFmt, dstFmt Format) ([]byte, error) {
	if srcFmt.SampleRate <= 0 || dstFmt.SampleRate <= 0 {
		return nil, ErrFormat
	}
	pcm = pcm[:len(pcm)/srcFmt.sampleBytes()*srcFmt.sampleBytes()]
	buf := convertChannels(pcm, srcFmt.Stereo, dstFmt.Stereo)
	if srcFmt.SampleRate == dstFmt.SampleRate || len(buf) == 0 {
		return buf, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcFmt.SampleRate),
		OutputRate: float64(dstFmt.SampleRate),
		Channels:   dstFmt.channels(),
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resampler: create: %w", err)
	}
	out, err := rs.Process(toFloat(buf))
	if err != nil {
		return nil, fmt.Errorf("resampler: process: %w", err)
	}
	return fromFloat(out), nil
}

// convertChannels returns pcm with the channel layout of dstStereo. The
// input is never modified.
func convertChannels(pcm []byte, srcStereo, dstStereo bool) []byte {
	switch {
	case srcStereo == dstStereo:
		return append([]byte(nil), pcm...)
	case srcStereo:
		b := append([]byte(nil), pcm...)
		return b[:stereoToMono(b)]
	default:
		b := make([]byte, len(pcm)*2)
		copy(b, pcm)
		return b[:monoToStereo(b)]
	}
}

// toFloat converts int16 samples to float64 in [-1, 1).
func toFloat(b []byte) []float64 {
	out := make([]float64, len(b)/2)
	for i := range out {
		s := int16(b[i*2]) | int16(b[i*2+1])<<8
		out[i] = float64(s) / 32768.0
	}
	return out
}

// fromFloat converts float64 samples back to int16, clamping overshoot.
func fromFloat(in []float64) []byte {
	out := make([]byte, len(in)*2)
	for i, s := range in {
		var v int16
		switch {
		case s >= 1.0:
			v = 32767
		case s < -1.0:
			v = -32768
		default:
			v = int16(s * 32767.0)
		}
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

// stereoToMono converts stereo 16-bit samples to mono in-place by averaging L
// and R channels.
func stereoToMono(b []byte) int {
	numFrames := len(b) / 4
	for i := range numFrames {
		j := i * 4
		k := i * 2
		l := int16(b[j]) | int16(b[j+1])<<8
		r := int16(b[j+2]) | int16(b[j+3])<<8
		m := int16((int32(l) + int32(r)) / 2)
		b[k] = byte(m)
		b[k+1] = byte(m >> 8)
	}
	return numFrames * 2
}

// monoToStereo expands the mono samples in the first half of b to stereo
// in-place by duplicating each sample.
func monoToStereo(b []byte) int {
	numSamples := len(b) / 4
	for i := numSamples - 1; i >= 0; i-- {
		s0, s1 := b[i*2], b[i*2+1]
		j := i * 4
		b[j], b[j+1] = s0, s1
		b[j+2], b[j+3] = s0, s1
	}
	return numSamples * 4
}
