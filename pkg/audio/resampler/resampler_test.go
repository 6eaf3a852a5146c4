package resampler

import (
	"bytes"
	"errors"
	"testing"
)

func samples(vals ...int16) []byte {
	b := make([]byte, len(vals)*2)
	for i, v := range vals {
		b[i*2] = byte(v)
		b[i*2+1] = byte(v >> 8)
	}
	return b
}

func TestResampleSameFormat(t *testing.T) {
	in := samples(1, -2, 300, -32768)
	f := Format{SampleRate: 24000}
	out, err := Resample(in, f, f)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("out = %v, want %v", out, in)
	}
	out[0] = 99
	if in[0] == 99 {
		t.Fatal("Resample must not alias its input")
	}
}

func TestResampleMonoToStereo(t *testing.T) {
	in := samples(10, -20)
	out, err := Resample(in, Format{SampleRate: 16000}, Format{SampleRate: 16000, Stereo: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := samples(10, 10, -20, -20); !bytes.Equal(out, want) {
		t.Fatalf("out = %v, want %v", out, want)
	}
}

func TestResampleStereoToMono(t *testing.T) {
	in := samples(10, 20, -10, -30)
	out, err := Resample(in, Format{SampleRate: 16000, Stereo: true}, Format{SampleRate: 16000})
	if err != nil {
		t.Fatal(err)
	}
	if want := samples(15, -20); !bytes.Equal(out, want) {
		t.Fatalf("out = %v, want %v", out, want)
	}
}

func TestResampleDropsPartialSample(t *testing.T) {
	in := append(samples(1, 2), 0x7f)
	f := Format{SampleRate: 8000}
	out, err := Resample(in, f, f)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
}

func TestResampleInvalidFormat(t *testing.T) {
	if _, err := Resample(samples(1), Format{}, Format{SampleRate: 8000}); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestFloatRoundTripClamps(t *testing.T) {
	out := fromFloat([]float64{1.5, -1.5, 0})
	if want := samples(32767, -32768, 0); !bytes.Equal(out, want) {
		t.Fatalf("out = %v, want %v", out, want)
	}
	f := toFloat(samples(-32768, 0))
	if f[0] != -1 || f[1] != 0 {
		t.Fatalf("toFloat = %v", f)
	}
}
