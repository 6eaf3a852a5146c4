package commands

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testProject(t *testing.T) Project {
	t.Helper()
	work := t.TempDir()
	p := defaultProject()
	p.AudioDir = filepath.Join(work, "audio")
	p.ArchiveDir = filepath.Join(work, "Archive")
	p.TranslationsDir = filepath.Join(work, "Translations")
	p.ReferenceDir = filepath.Join(work, "Reference_Files")
	return p
}

func localBucket(t *testing.T) *storage.Bucket {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &storage.Bucket{Store: store, Prefix: "AudioProject-Female"}
}

func TestArchiveBeforeUpload(t *testing.T) {
	ctx := t.Context()
	p := testProject(t)
	bucket := localBucket(t)

	wavDir := filepath.Join(p.AudioDir, "af-ZA-Standard-A-female-WAV")
	oggDir := filepath.Join(p.AudioDir, "af-ZA-Standard-A-female-OGG")
	writeFile(t, filepath.Join(p.TranslationsDir, "af_za_processed.json"), `{"item.minecraft.apple":"Appel"}`)
	writeFile(t, filepath.Join(wavDir, "item.minecraft.apple.wav"), "wav")
	writeFile(t, filepath.Join(oggDir, "item.minecraft.apple.ogg"), "ogg")

	res, err := archiveRun(p, "1.21.4")
	if err != nil {
		t.Fatal(err)
	}
	if res.Copied != 1 {
		t.Fatalf("archived %d ogg files, want 1", res.Copied)
	}

	never := filepath.Join(p.AudioDir, "af-ZA-Standard-B-female-OGG")
	st := uploadDirs(ctx, bucket, []string{wavDir, oggDir, never})
	if st.Uploaded != 2 || st.Removed != 2 || st.Failed != 0 {
		t.Fatalf("upload = %+v", st)
	}

	archived := filepath.Join(res.Dir, "af-ZA-Standard-A-female-OGG", "item.minecraft.apple.ogg")
	if _, err := os.Stat(archived); err != nil {
		t.Fatalf("archive lost after upload: %v", err)
	}
	if _, err := os.Stat(oggDir); !os.IsNotExist(err) {
		t.Fatalf("local ogg dir kept after upload: %v", err)
	}
	dirs, err := storage.Dirs(ctx, bucket.Store, bucket.Prefix)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(dirs, "af-ZA-Standard-A-female-OGG") || !slices.Contains(dirs, "af-ZA-Standard-A-female-WAV") {
		t.Fatalf("bucket dirs = %v", dirs)
	}
}

func TestTrackerSeesLocalAndBucketAudio(t *testing.T) {
	ctx := t.Context()
	p := testProject(t)
	bucket := localBucket(t)

	if err := os.MkdirAll(filepath.Join(p.AudioDir, "af-ZA-Standard-A-female-OGG"), 0o755); err != nil {
		t.Fatal(err)
	}
	remote := bucket.AudioPath("de-DE-Neural2-C", voices.Female, "OGG", "item.minecraft.apple.ogg")
	w, err := bucket.Store.Write(ctx, remote)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	tr := newTracker(p, bucket)
	if !tr.IsComplete(ctx, "af-ZA", voices.Female) {
		t.Fatal("local audio not seen with a bucket configured")
	}
	if !tr.IsComplete(ctx, "de-DE", voices.Female) {
		t.Fatal("bucket audio not seen")
	}
	if tr.IsComplete(ctx, "fr-FR", voices.Female) {
		t.Fatal("fr-FR reported complete")
	}

	if !newTracker(p, nil).IsComplete(ctx, "af-ZA", voices.Female) {
		t.Fatal("local audio not seen without a bucket")
	}
}
