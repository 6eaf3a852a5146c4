package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

// AudioFormats are the directory suffixes of generated audio.
var AudioFormats = []string{"WAV", "OGG"}

// SummaryFile is written next to generated audio and never uploaded.
const SummaryFile = "summary.txt"

// Bucket lays generated audio out in a Store as
// "{Prefix}/{voiceId}-{gender}-{FORMAT}/{file}".
type Bucket struct {
	Store  Store
	Prefix string
}

func (b *Bucket) join(elem ...string) string {
	return path.Join(append([]string{b.Prefix}, elem...)...)
}

// AudioPath is the object path of one audio file.
func (b *Bucket) AudioPath(voiceID string, g voices.Gender, format, file string) string {
	return b.join(voices.DirName(voiceID, g, format), file)
}

// Dirs returns the distinct first path segments below prefix, sorted.
func Dirs(ctx context.Context, l Lister, prefix string) ([]string, error) {
	base := strings.Trim(prefix, "/")
	if base != "" {
		base += "/"
	}
	seen := make(map[string]struct{})
	for p, err := range l.List(ctx, base) {
		if err != nil {
			return nil, err
		}
		rest := strings.TrimPrefix(p, base)
		dir, _, found := strings.Cut(rest, "/")
		if !found || dir == "" {
			continue
		}
		seen[dir] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// TransferStats counts the outcome of moving local audio into the bucket.
type TransferStats struct {
	Dirs     int
	Uploaded int
	Skipped  int
	Failed   int
	Removed  int
	Bytes    int64
}

// Add accumulates o into s.
func (s *TransferStats) Add(o TransferStats) {
	s.Dirs += o.Dirs
	s.Uploaded += o.Uploaded
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.Removed += o.Removed
	s.Bytes += o.Bytes
}

// TransferDir uploads the .wav and .ogg files of a local voice directory and
// removes the directory once every upload succeeded. Upload failures are
// logged and counted; the directory is then kept for the next run.
func (b *Bucket) TransferDir(ctx context.Context, localDir string) (TransferStats, error) {
	var st TransferStats
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return st, fmt.Errorf("storage: transfer %s: %w", localDir, err)
	}
	st.Dirs = 1
	dir := filepath.Base(localDir)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if name == SummaryFile {
			st.Skipped++
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".wav" && ext != ".ogg" {
			st.Skipped++
			continue
		}
		n, err := b.upload(ctx, filepath.Join(localDir, name), b.join(dir, name))
		if err != nil {
			slog.Warn("storage: upload failed", "file", name, "dir", dir, "error", err)
			st.Failed++
			continue
		}
		st.Uploaded++
		st.Bytes += n
	}

	if st.Failed > 0 {
		slog.Warn("storage: keeping local directory after failed uploads", "dir", localDir, "failed", st.Failed)
		return st, nil
	}
	if err := os.RemoveAll(localDir); err != nil {
		slog.Warn("storage: remove local directory", "dir", localDir, "error", err)
		return st, nil
	}
	st.Removed = 1
	slog.Info("storage: transferred", "dir", dir, "uploaded", st.Uploaded, "bytes", st.Bytes)
	return st, nil
}

func (b *Bucket) upload(ctx context.Context, local, remote string) (int64, error) {
	f, err := os.Open(local)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Put(ctx, b.Store, remote, f)
}

// TransferAll transfers every "*-WAV" and "*-OGG" directory directly below root.
func (b *Bucket) TransferAll(ctx context.Context, root string) (TransferStats, error) {
	var total TransferStats
	entries, err := os.ReadDir(root)
	if err != nil {
		return total, fmt.Errorf("storage: transfer all: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || !isAudioDir(e.Name()) {
			continue
		}
		st, err := b.TransferDir(ctx, filepath.Join(root, e.Name()))
		total.Add(st)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func isAudioDir(name string) bool {
	for _, f := range AudioFormats {
		if strings.HasSuffix(name, "-"+f) {
			return true
		}
	}
	return false
}

// VoiceFiles lists the files of one voice directory in the bucket.
type VoiceFiles struct {
	VoiceID string
	Gender  voices.Gender
	Format  string
	Files   []string
}

// Inventory groups the bucket's audio files by voice directory.
func (b *Bucket) Inventory(ctx context.Context) ([]VoiceFiles, error) {
	base := strings.Trim(b.Prefix, "/")
	if base != "" {
		base += "/"
	}
	byDir := make(map[string]*VoiceFiles)
	for p, err := range b.Store.List(ctx, base) {
		if err != nil {
			return nil, err
		}
		dir, file, ok := strings.Cut(strings.TrimPrefix(p, base), "/")
		if !ok || file == "" || strings.Contains(file, "/") {
			continue
		}
		vf, ok := byDir[dir]
		if !ok {
			id, g, format, parsed := voices.ParseDirName(dir)
			if !parsed || !isAudioDir(dir) {
				continue
			}
			vf = &VoiceFiles{VoiceID: id, Gender: g, Format: format}
			byDir[dir] = vf
		}
		vf.Files = append(vf.Files, file)
	}

	out := make([]VoiceFiles, 0, len(byDir))
	for _, vf := range byDir {
		sort.Strings(vf.Files)
		out = append(out, *vf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VoiceID != out[j].VoiceID {
			return out[i].VoiceID < out[j].VoiceID
		}
		return out[i].Format > out[j].Format
	})
	return out, nil
}

// FileLogs writes "{voice}_{FORMAT}_files.txt" into outDir for every voice
// directory in the bucket and returns the number of logs written.
func (b *Bucket) FileLogs(ctx context.Context, outDir string) (int, error) {
	inv, err := b.Inventory(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage: file logs: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}
	n := 0
	for _, vf := range inv {
		if len(vf.Files) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Bucket Files Log - %s %s\n", vf.VoiceID, vf.Format)
		sb.WriteString(strings.Repeat("=", 40) + "\n\n")
		fmt.Fprintf(&sb, "Total files: %d\n\n", len(vf.Files))
		for _, f := range vf.Files {
			sb.WriteString(f + "\n")
		}
		name := fmt.Sprintf("%s_%s_files.txt", vf.VoiceID, vf.Format)
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(sb.String()), 0o644); err != nil {
			slog.Warn("storage: write file log", "file", name, "error", err)
			continue
		}
		n++
	}
	slog.Info("storage: bucket file logs written", "logs", n, "dir", outDir)
	return n, nil
}

// DeleteVoice removes both format directories of a voice. Failed deletes
// are logged and counted.
func (b *Bucket) DeleteVoice(ctx context.Context, voiceID string, g voices.Gender) (deleted, failed int, err error) {
	for _, format := range AudioFormats {
		dir := b.join(voices.DirName(voiceID, g, format)) + "/"
		var paths []string
		for p, lerr := range b.Store.List(ctx, dir) {
			if lerr != nil {
				return deleted, failed, lerr
			}
			paths = append(paths, p)
		}
		for _, p := range paths {
			if derr := b.Store.Delete(ctx, p); derr != nil {
				slog.Warn("storage: delete failed", "path", p, "error", derr)
				failed++
				continue
			}
			deleted++
		}
	}
	slog.Info("storage: voice deleted", "voice", voiceID, "gender", g.Dir(), "files", deleted, "failed", failed)
	return deleted, failed, nil
}
