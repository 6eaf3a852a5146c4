package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0}
	data := Encode(pcm, Mono16(24000))

	if len(data) != headerSize+len(pcm) {
		t.Fatalf("len = %d", len(data))
	}
	if !IsWAV(data) {
		t.Fatal("missing RIFF/WAVE header")
	}
	le := binary.LittleEndian
	if got := le.Uint32(data[4:8]); got != uint32(36+len(pcm)) {
		t.Fatalf("riff size = %d", got)
	}
	if got := le.Uint32(data[28:32]); got != 48000 {
		t.Fatalf("byte rate = %d, want 48000", got)
	}
	if got := le.Uint32(data[40:44]); got != uint32(len(pcm)) {
		t.Fatalf("data size = %d", got)
	}
}

func TestDecode(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	f := Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}

	gotFmt, gotPCM, err := Decode(Encode(pcm, f))
	if err != nil {
		t.Fatal(err)
	}
	if gotFmt != f {
		t.Fatalf("format = %+v, want %+v", gotFmt, f)
	}
	if !bytes.Equal(gotPCM, pcm) {
		t.Fatalf("pcm = %v", gotPCM)
	}
}

func TestDecodeSkipsChunks(t *testing.T) {
	pcm := []byte{9, 0}
	data := Encode(pcm, Mono16(8000))

	// Insert an odd-sized LIST chunk between fmt and data.
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	withList := append(append(append([]byte(nil), data[:36]...), list...), data[36:]...)

	_, got, err := Decode(withList)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("pcm = %v", got)
	}
}

func TestDecodeStreamingSize(t *testing.T) {
	data := Encode([]byte{1, 0, 2, 0}, Mono16(8000))
	binary.LittleEndian.PutUint32(data[40:44], 0xffffffff)
	_, got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := map[string][]byte{
		"empty":   nil,
		"not wav": []byte("OggS0000000000000"),
		"no data": Encode(nil, Mono16(8000))[:36],
	}
	for name, data := range tests {
		if _, _, err := Decode(data); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}
