package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/langtable"
	"github.com/Aufco/AudioProject-Female/pkg/locale"
	"github.com/Aufco/AudioProject-Female/pkg/report"
	"github.com/Aufco/AudioProject-Female/pkg/runstate"
	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/voicematch"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

var matchAlwaysReport bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match processed localizations to voices without generating audio",
	Long: `Resolve every processed localization to a provider language, skip
languages that already have audio, select voices, and write the language
table. Nothing is synthesized.

Examples:
  audioproject match
  audioproject match --always-report --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("always-report") {
			p.AlwaysReport = matchAlwaysReport
		}
		dc, err := getContext()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		var cl closers
		defer cl.Close()

		catalog, err := voices.LoadFile(p.voiceCatalogPath())
		if err != nil {
			return fmt.Errorf("%w (run 'audioproject voices fetch' first)", err)
		}
		bucket, err := newBucket(ctx, dc, &cl)
		if err != nil {
			return err
		}
		tiers := catalogTiers(dc)
		m, err := matchLanguages(ctx, p, catalog, p.policy(tiers), newTracker(p, bucket))
		if err != nil {
			return err
		}
		rows := report.Rows(m.Results, p.policy(tiers).Tiers)
		if err := report.WriteCSV(p.referencePath(report.FileName), rows); err != nil {
			return err
		}
		return outputResult(matchOutput{Rows: rows, Misses: m.Misses})
	},
}

func init() {
	matchCmd.Flags().BoolVar(&matchAlwaysReport, "always-report", false, "include languages that are already complete")
}

type matchOutput struct {
	Rows   []report.Row      `json:"rows" yaml:"rows"`
	Misses []voicematch.Miss `json:"misses" yaml:"misses"`
}

func (o matchOutput) Table() string {
	return report.Render(o.Rows) + fmt.Sprintf("\n%d matched, %d skipped", len(o.Rows), len(o.Misses))
}

// matched is the outcome of matching one work directory.
type matched struct {
	Results []voicematch.MatchResult
	Misses  []voicematch.Miss
	// Files maps in-game codes to processed file paths.
	Files map[string]string
}

// newTracker checks completeness in the local audio directory and, when one
// is configured, in the bucket. Audio not yet uploaded counts as done.
func newTracker(p Project, bucket *storage.Bucket) *runstate.Tracker {
	inspectors := []runstate.Inspector{runstate.LocalInspector{Root: p.AudioDir}}
	if bucket != nil {
		inspectors = append(inspectors, runstate.RemoteInspector{Store: bucket.Store, Prefix: bucket.Prefix})
	}
	return runstate.NewTracker(inspectors...)
}

func matchLanguages(ctx context.Context, p Project, catalog voices.Catalog, policy voicematch.Policy, completion voicematch.Completion) (matched, error) {
	if err := requireFile("language table", p.languageTablePath()); err != nil {
		return matched{}, err
	}
	table, err := langtable.LoadFile(p.languageTablePath(), p.layout())
	if err != nil {
		return matched{}, err
	}
	paths, err := locale.ListUnits(p.TranslationsDir)
	if err != nil {
		return matched{}, fmt.Errorf("list translations: %w", err)
	}
	if len(paths) == 0 {
		return matched{}, fmt.Errorf("no processed localization files in %s", p.TranslationsDir)
	}

	m := matched{Files: make(map[string]string, len(paths))}
	codes := make([]string, 0, len(paths))
	for _, path := range paths {
		code := locale.CodeFromFile(filepath.Base(path))
		m.Files[code] = path
		codes = append(codes, code)
	}
	m.Results, m.Misses = voicematch.NewMatcher(policy, completion).Match(ctx, codes, table, catalog)
	slog.Info("match: done", "locales", len(codes), "matched", len(m.Results), "skipped", len(m.Misses))
	return m, nil
}

// loadCatalog refreshes the catalog from the provider, or reads the
// persisted one when refresh is false.
func loadCatalog(ctx context.Context, p Project, f voices.Fetcher, refresh bool) (voices.Catalog, error) {
	if !refresh {
		return voices.LoadFile(p.voiceCatalogPath())
	}
	c, err := voices.Refresh(ctx, f, p.voiceCatalogPath())
	if errors.Is(err, voices.ErrQuota) {
		cli.PrintError("Provider quota exhausted. Please try again later.")
	}
	return c, err
}
