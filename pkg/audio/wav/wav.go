// Package wav reads and writes canonical PCM WAV files.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalid is returned for data that is not a PCM WAV file.
var ErrInvalid = errors.New("wav: invalid file")

const (
	headerSize = 44
	formatPCM  = 1
)

// Format describes the PCM stream of a WAV file.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Mono16 is 16-bit mono PCM at rate Hz.
func Mono16(rate int) Format {
	return Format{SampleRate: rate, Channels: 1, BitsPerSample: 16}
}

func (f Format) blockAlign() int { return f.Channels * f.BitsPerSample / 8 }

// Encode prepends a 44-byte RIFF header to pcm.
func Encode(pcm []byte, f Format) []byte {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(pcm))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	binary.Write(&buf, le, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, le, uint32(16))
	binary.Write(&buf, le, uint16(formatPCM))
	binary.Write(&buf, le, uint16(f.Channels))
	binary.Write(&buf, le, uint32(f.SampleRate))
	binary.Write(&buf, le, uint32(f.SampleRate*f.blockAlign()))
	binary.Write(&buf, le, uint16(f.blockAlign()))
	binary.Write(&buf, le, uint16(f.BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, le, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// Decode returns the format and the PCM samples of a WAV file. Chunks other
// than "fmt " and "data" are skipped.
func Decode(data []byte) (Format, []byte, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalid)
	}
	le := binary.LittleEndian

	var f Format
	haveFmt := false
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(le.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			// Streams often leave the data size unset or too large.
			if id == "data" && haveFmt {
				return f, data[body:], nil
			}
			return Format{}, nil, fmt.Errorf("%w: chunk %q overruns file", ErrInvalid, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return Format{}, nil, fmt.Errorf("%w: short fmt chunk", ErrInvalid)
			}
			if tag := le.Uint16(data[body:]); tag != formatPCM {
				return Format{}, nil, fmt.Errorf("%w: unsupported format tag %d", ErrInvalid, tag)
			}
			f = Format{
				Channels:      int(le.Uint16(data[body+2:])),
				SampleRate:    int(le.Uint32(data[body+4:])),
				BitsPerSample: int(le.Uint16(data[body+14:])),
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return Format{}, nil, fmt.Errorf("%w: data before fmt", ErrInvalid)
			}
			return f, data[body : body+size], nil
		}
		off = body + size + size%2
	}
	return Format{}, nil, fmt.Errorf("%w: no data chunk", ErrInvalid)
}

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}
