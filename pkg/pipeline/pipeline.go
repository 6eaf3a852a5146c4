// Package pipeline generates speech audio for matched localizations.
//
// For each entry of a localization a WAV file is synthesized and then
// transcoded to OGG. Both steps are skipped when their output already exists
// locally or in the remote store, so a repeated run only fills gaps.
//
// Output layout under Root:
//
//	{voiceId}-{gender}-WAV/{key}.wav
//	{voiceId}-{gender}-OGG/{key}.ogg
//	{voiceId}-{gender}-OGG/summary.txt
package pipeline

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

var (
	// ErrSynthesis marks a failed synthesis of one entry.
	ErrSynthesis = errors.New("pipeline: synthesis failed")
	// ErrTranscode marks a failed transcode of one entry.
	ErrTranscode = errors.New("pipeline: transcode failed")
)

// Format is an audio container produced by the pipeline.
type Format string

const (
	WAV Format = "wav"
	OGG Format = "ogg"
)

// Ext is the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Dir is the upper-case directory suffix.
func (f Format) Dir() string { return strings.ToUpper(string(f)) }

// Synthesizer turns text into WAV bytes spoken by voice in the given
// language. An empty language leaves the choice to the provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, voice voices.Voice, language, text string) ([]byte, error)
}

// Transcoder converts audio between formats.
type Transcoder interface {
	Transcode(ctx context.Context, in []byte, from, to Format) ([]byte, error)
}

// RemoteChecker reports whether a file already exists in the remote store.
type RemoteChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Layout computes local and remote paths of generated audio.
type Layout struct {
	Root         string
	RemotePrefix string
}

// Dir is the local directory of voice output in format f.
func (l Layout) Dir(v voices.Voice, f Format) string {
	return filepath.Join(l.Root, voices.DirName(v.ID, v.Gender, f.Dir()))
}

// File is the local path of one entry.
func (l Layout) File(v voices.Voice, f Format, key string) string {
	return filepath.Join(l.Dir(v, f), key+f.Ext())
}

// Remote is the object path of one entry.
func (l Layout) Remote(v voices.Voice, f Format, key string) string {
	return path.Join(l.RemotePrefix, voices.DirName(v.ID, v.Gender, f.Dir()), key+f.Ext())
}
