package resampler

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		channels    int
		sampleBytes int
		bytes       int
		duration    time.Duration
	}{
		{"gemini output", Format{SampleRate: 24000}, 1, 2, 48000, time.Second},
		{"google neural", Format{SampleRate: 24000}, 1, 2, 4800, 100 * time.Millisecond},
		{"stereo 48k", Format{SampleRate: 48000, Stereo: true}, 2, 4, 192000, time.Second},
		{"partial frame", Format{SampleRate: 16000}, 1, 2, 3, 0},
		{"zero rate", Format{}, 1, 2, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.sampleBytes(); got != tt.sampleBytes {
				t.Errorf("sampleBytes() = %d, want %d", got, tt.sampleBytes)
			}
			if got := tt.format.Duration(tt.bytes); got != tt.duration {
				t.Errorf("Duration(%d) = %v, want %v", tt.bytes, got, tt.duration)
			}
		})
	}
}
