package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/archive"
	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/ledger"
	"github.com/Aufco/AudioProject-Female/pkg/locale"
	"github.com/Aufco/AudioProject-Female/pkg/pipeline"
	"github.com/Aufco/AudioProject-Female/pkg/report"
	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/transcode"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
)

var runOpts struct {
	version      string
	skipExisting bool
	alwaysReport bool
	noRefresh    bool
	upload       bool
	noArchive    bool
	noLedger     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Preprocess localizations, match languages to voices, generate WAV and
OGG audio for every new language, optionally upload it, and archive the run.

The version is suffixed with -1, -2, ... when Archive/<version> already
exists.

Examples:
  audioproject run
  audioproject -c prod run --version 1.21.5 --upload`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runOpts.version, "version", "", "game version (default from audioproject.yaml)")
	runCmd.Flags().BoolVar(&runOpts.skipExisting, "skip-existing", true, "skip audio files that already exist locally or in the bucket")
	runCmd.Flags().BoolVar(&runOpts.alwaysReport, "always-report", false, "report complete languages in the language table")
	runCmd.Flags().BoolVar(&runOpts.noRefresh, "no-refresh", false, "use the saved voice catalog instead of fetching it")
	runCmd.Flags().BoolVar(&runOpts.upload, "upload", false, "move generated audio into the context's bucket")
	runCmd.Flags().BoolVar(&runOpts.noArchive, "no-archive", false, "skip the archive step")
	runCmd.Flags().BoolVar(&runOpts.noLedger, "no-ledger", false, "do not record the run in the history")
}

// runSummary is printed and recorded at the end of a run.
type runSummary struct {
	Version    string                 `json:"version" yaml:"version"`
	Duration   string                 `json:"duration" yaml:"duration"`
	Preprocess string                 `json:"preprocess" yaml:"preprocess"`
	Stats      pipeline.RunStats      `json:"stats" yaml:"stats"`
	Upload     *storage.TransferStats `json:"upload,omitempty" yaml:"upload,omitempty"`
	ArchiveDir string                 `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty"`
	RunID      string                 `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

func (s runSummary) Table() string {
	st := cli.NewStyles(cli.DefaultTheme)
	fields := []cli.Field{
		{Label: "Version", Value: s.Version},
		{Label: "Languages processed", Value: strconv.Itoa(s.Stats.Languages)},
		{Label: "Languages failed", Value: strconv.Itoa(s.Stats.LanguagesFailed), Warn: s.Stats.LanguagesFailed > 0},
		{Label: "Total WAV files made", Value: strconv.Itoa(s.Stats.Totals.WAVMade)},
		{Label: "Total OGG files made", Value: strconv.Itoa(s.Stats.Totals.OGGMade)},
		{Label: "Failed files", Value: strconv.Itoa(s.Stats.Totals.Failed()), Warn: s.Stats.Totals.Failed() > 0},
		{Label: "Duration", Value: s.Duration},
	}
	if s.Upload != nil {
		fields = append(fields, cli.Field{Label: "Uploaded", Value: fmt.Sprintf("%d files (%s)", s.Upload.Uploaded, cli.FormatBytes(s.Upload.Bytes))})
	}
	if s.ArchiveDir != "" {
		fields = append(fields, cli.Field{Label: "Archive location", Value: s.ArchiveDir})
	}
	return st.Summary("RUN COMPLETE", 50, fields)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	start := time.Now()
	p, err := loadProject()
	if err != nil {
		return err
	}
	if runOpts.version != "" {
		p.Version = runOpts.version
	}
	if cmd.Flags().Changed("always-report") {
		p.AlwaysReport = runOpts.alwaysReport
	}
	version := archive.NextVersion(p.ArchiveDir, p.Version)
	if version != p.Version {
		cli.PrintInfo("Version %s already exists. Using run version: %s", p.Version, version)
	}

	logs, err := cli.SetupLogging(cli.LogOptions{
		Verbose: verbose,
		File:    p.logFile(),
		Header:  []string{"AudioProject - Run Started", "Version: " + version},
	})
	if err != nil {
		return err
	}
	defer logs.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	dc, err := getContext()
	if err != nil {
		return err
	}
	if runOpts.upload && dc.Storage == nil {
		return fmt.Errorf("--upload needs a context with storage (context %q has none)", dc.Name)
	}
	var cl closers
	defer cl.Close()

	ffmpeg := &transcode.FFmpeg{}
	ffVersion, err := ffmpeg.Check(ctx)
	if err != nil {
		return fmt.Errorf("dependency check: %w", err)
	}
	slog.Info("run: ffmpeg found", "version", ffVersion)

	prov, tiers, err := newProvider(ctx, dc, &cl)
	if err != nil {
		return fmt.Errorf("dependency check: %w", err)
	}
	bucket, err := newBucket(ctx, dc, &cl)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(ctx, p, prov, !runOpts.noRefresh)
	if err != nil {
		return err
	}

	if err := requireFile("reference locale", p.referenceLocalePath()); err != nil {
		return err
	}
	pre, err := locale.Preprocess(p.TranslationsOriginalDir, p.TranslationsDir, p.referenceLocalePath())
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	cli.PrintSuccess("Preprocessed %d language files", pre.FilesProcessed)

	policy := p.policy(tiers)
	m, err := matchLanguages(ctx, p, catalog, policy, newTracker(p, bucket))
	if err != nil {
		return err
	}
	rows := report.Rows(m.Results, policy.Tiers)
	if err := report.WriteCSV(p.referencePath(report.FileName), rows); err != nil {
		slog.Warn("run: language table not written", "error", err)
	}
	cli.PrintSuccess("Matched %d languages to voices (%d skipped)", len(m.Results), len(m.Misses))

	rec := &ledger.Record{
		Version:   version,
		Provider:  dc.ProviderName(),
		StartedAt: start,
		Misses:    m.Misses,
	}
	gen := &pipeline.Generator{
		Synth:      prov,
		Transcoder: ffmpeg,
		Layout:     pipeline.Layout{Root: p.AudioDir},
	}
	if bucket != nil {
		gen.Remote = bucket.Store
		gen.Layout.RemotePrefix = bucket.Prefix
	}

	summary := runSummary{
		Version:    version,
		Preprocess: fmt.Sprintf("%d processed, %d failed", pre.FilesProcessed, pre.FilesFailed),
	}
	if runOpts.upload {
		summary.Upload = &storage.TransferStats{}
	}
	generated := generateAll(ctx, gen, m, rec, &summary)

	if ctx.Err() == nil && !runOpts.noArchive {
		res, err := archiveRun(p, version)
		if err != nil {
			cli.PrintWarning("Archiving failed: %v", err)
		} else {
			summary.ArchiveDir = res.Dir
			rec.ArchiveDir = res.Dir
		}
	}
	if summary.Upload != nil && bucket != nil {
		if ctx.Err() != nil {
			cli.PrintInfo("Upload skipped; run 'bucket upload' to move the generated audio")
		} else {
			summary.Upload.Add(uploadDirs(ctx, bucket, generated))
		}
	}

	rec.Totals = summary.Stats
	rec.FinishedAt = time.Now()
	summary.Duration = cli.FormatDuration(rec.FinishedAt.Sub(start))
	if !runOpts.noLedger {
		if id, err := recordRun(rec); err != nil {
			slog.Warn("run: history not recorded", "error", err)
		} else {
			summary.RunID = id
		}
	}

	slog.Info("run: summary",
		"version", version,
		"languages", summary.Stats.Languages,
		"failed", summary.Stats.LanguagesFailed,
		"wav_made", summary.Stats.Totals.WAVMade,
		"ogg_made", summary.Stats.Totals.OGGMade,
		"archive", summary.ArchiveDir)
	if err := outputResult(summary); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("process interrupted: %w", err)
	}
	return nil
}

// generateAll produces audio for every pending match and returns the local
// voice directories it wrote to.
func generateAll(ctx context.Context, gen *pipeline.Generator, m matched, rec *ledger.Record, summary *runSummary) []string {
	var pending []voicematch.MatchResult
	for _, r := range m.Results {
		if !r.Complete {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		cli.PrintInfo("No languages need audio")
		return nil
	}

	var dirs []string
	for i, r := range pending {
		cli.PrintInfo("Processing %s (%d/%d)", r.InGameCode, i+1, len(pending))
		sel := ledger.Selection{
			InGameCode:   r.InGameCode,
			LanguageCode: r.CanonicalCode,
			VoiceID:      r.Voice.ID,
			Gender:       r.Voice.Gender.String(),
		}

		unit, err := locale.LoadUnit(m.Files[r.InGameCode])
		if err != nil {
			slog.Error("run: load localization", "locale", r.InGameCode, "error", err)
			sel.Error = err.Error()
			summary.Stats.Fold(pipeline.Stats{}, err)
			rec.Selections = append(rec.Selections, sel)
			continue
		}

		st, err := gen.Generate(ctx, unit, r, runOpts.skipExisting)
		sel.Stats = st
		if err != nil {
			sel.Error = err.Error()
		}
		summary.Stats.Fold(st, err)
		rec.Selections = append(rec.Selections, sel)
		if errors.Is(err, context.Canceled) {
			cli.PrintWarning("Process interrupted by user")
			return dirs
		}

		fmt.Printf("Language summary for %s:\n", r.InGameCode)
		fmt.Printf("  Total entries: %d\n", st.TotalEntries)
		fmt.Printf("  WAV made: %d, skipped: %d\n", st.WAVMade, st.WAVSkipped)
		fmt.Printf("  OGG made: %d, skipped: %d\n", st.OGGMade, st.OGGSkipped)

		for _, v := range r.Voices {
			dirs = append(dirs, gen.Layout.Dir(v, pipeline.WAV), gen.Layout.Dir(v, pipeline.OGG))
		}
	}
	return dirs
}

// archiveRun snapshots the processed translations, the reference files and
// every OGG directory under the audio directory. It must run before the
// audio is moved into the bucket.
func archiveRun(p Project, version string) (archive.Result, error) {
	dirs, err := archive.OGGDirs(p.AudioDir)
	if err != nil {
		slog.Warn("run: list ogg dirs", "error", err)
	}
	return (&archive.Archiver{Root: p.ArchiveDir}).Archive(archive.Request{
		Version:          version,
		TranslationsDir:  p.TranslationsDir,
		ReferenceDir:     p.ReferenceDir,
		OGGDirs:          dirs,
		MoveTranslations: true,
	})
}

// uploadDirs moves the given local voice directories into the bucket.
// Directories that were never created are skipped.
func uploadDirs(ctx context.Context, bucket *storage.Bucket, dirs []string) storage.TransferStats {
	var total storage.TransferStats
	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		ts, err := bucket.TransferDir(ctx, dir)
		if err != nil {
			slog.Warn("run: upload", "dir", dir, "error", err)
		}
		total.Add(ts)
	}
	return total
}

func recordRun(rec *ledger.Record) (string, error) {
	var cl closers
	defer cl.Close()
	l, err := openLedger(&cl)
	if err != nil {
		return "", err
	}
	if err := l.Save(context.Background(), rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
