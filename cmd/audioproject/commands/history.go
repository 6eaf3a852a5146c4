package commands

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/ledger"
)

var historyOpts struct {
	limit int
	prune int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous runs",
	Long: `List runs recorded in the local ledger, newest first.

Examples:
  audioproject history
  audioproject history --prune 20
  audioproject history show <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cl closers
		defer cl.Close()
		l, err := openLedger(&cl)
		if err != nil {
			return err
		}
		if historyOpts.prune > 0 {
			n, err := l.Prune(cmd.Context(), historyOpts.prune)
			if err != nil {
				return err
			}
			cli.PrintSuccess("Pruned %d runs", n)
		}
		runs, err := l.List(cmd.Context())
		if err != nil {
			return err
		}
		if historyOpts.limit > 0 && len(runs) > historyOpts.limit {
			runs = runs[:historyOpts.limit]
		}
		return outputResult(historyOutput(runs))
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one run (default: the latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cl closers
		defer cl.Close()
		l, err := openLedger(&cl)
		if err != nil {
			return err
		}
		var rec ledger.Record
		if len(args) == 0 {
			rec, err = l.Latest(cmd.Context())
		} else {
			rec, err = l.Get(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return outputResult(runOutput(rec))
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0, "show at most n runs")
	historyCmd.Flags().IntVar(&historyOpts.prune, "prune", 0, "keep only the newest n runs")
	historyCmd.AddCommand(historyShowCmd)
}

type historyOutput []ledger.Record

func (o historyOutput) Table() string {
	t := table.New().Headers("ID", "Version", "Provider", "Started", "Duration", "Languages", "Failed", "WAV", "OGG")
	for _, r := range o {
		var d string
		if !r.FinishedAt.IsZero() {
			d = cli.FormatDuration(r.FinishedAt.Sub(r.StartedAt))
		}
		t.Row(
			r.ID[:min(8, len(r.ID))],
			r.Version,
			r.Provider,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			d,
			strconv.Itoa(r.Totals.Languages),
			strconv.Itoa(r.Totals.LanguagesFailed),
			strconv.Itoa(r.Totals.Totals.WAVMade),
			strconv.Itoa(r.Totals.Totals.OGGMade),
		)
	}
	return t.String()
}

type runOutput ledger.Record

func (r runOutput) Table() string {
	t := table.New().Headers("Locale", "Language code", "Voice", "Gender", "Entries", "WAV", "OGG", "Failed", "Error")
	for _, s := range r.Selections {
		t.Row(
			s.InGameCode, s.LanguageCode, s.VoiceID, s.Gender,
			strconv.Itoa(s.Stats.TotalEntries),
			strconv.Itoa(s.Stats.WAVMade),
			strconv.Itoa(s.Stats.OGGMade),
			strconv.Itoa(s.Stats.Failed()),
			s.Error,
		)
	}
	head := fmt.Sprintf("Run %s  version %s  started %s\n", r.ID, r.Version, r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if r.ArchiveDir != "" {
		head += "Archive: " + r.ArchiveDir + "\n"
	}
	out := head + t.String()
	if len(r.Misses) > 0 {
		m := table.New().Headers("Locale", "Reason")
		for _, miss := range r.Misses {
			m.Row(miss.InGameCode, string(miss.Reason))
		}
		out += "\n\nSkipped languages:\n" + m.String()
	}
	return out
}
