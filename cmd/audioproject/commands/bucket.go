package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
	"github.com/Aufco/AudioProject-Female/pkg/report"
	"github.com/Aufco/AudioProject-Female/pkg/storage"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage audio in the context's bucket",
}

// openBucket opens the bucket of the selected context.
func openBucket(ctx context.Context, cl *closers) (*storage.Bucket, error) {
	dc, err := getContext()
	if err != nil {
		return nil, err
	}
	b, err := newBucket(ctx, dc, cl)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("context %q has no storage configured", dc.Name)
	}
	return b, nil
}

var bucketUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Move local WAV and OGG directories into the bucket",
	Long: `Upload every *-WAV and *-OGG directory of the audio directory. A local
directory is removed once all of its files are uploaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		var cl closers
		defer cl.Close()
		b, err := openBucket(cmd.Context(), &cl)
		if err != nil {
			return err
		}
		st, err := b.TransferAll(cmd.Context(), p.AudioDir)
		if err != nil {
			return err
		}
		return outputResult(transferOutput(st))
	},
}

type transferOutput storage.TransferStats

func (o transferOutput) Table() string {
	st := cli.NewStyles(cli.DefaultTheme)
	return st.Summary("UPLOAD", 40, []cli.Field{
		{Label: "Directories", Value: fmt.Sprint(o.Dirs)},
		{Label: "Uploaded", Value: fmt.Sprintf("%d files (%s)", o.Uploaded, cli.FormatBytes(o.Bytes))},
		{Label: "Skipped", Value: fmt.Sprint(o.Skipped)},
		{Label: "Failed", Value: fmt.Sprint(o.Failed), Warn: o.Failed > 0},
		{Label: "Directories removed", Value: fmt.Sprint(o.Removed)},
	})
}

var bucketLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Write one file listing per voice directory into the logs directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		var cl closers
		defer cl.Close()
		b, err := openBucket(cmd.Context(), &cl)
		if err != nil {
			return err
		}
		n, err := b.FileLogs(cmd.Context(), p.LogsDir)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d bucket file logs to %s\n", n, p.LogsDir)
		return nil
	},
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List voice directories in the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cl closers
		defer cl.Close()
		b, err := openBucket(cmd.Context(), &cl)
		if err != nil {
			return err
		}
		inv, err := b.Inventory(cmd.Context())
		if err != nil {
			return err
		}
		return outputResult(inventoryOutput(inv))
	},
}

type inventoryOutput []storage.VoiceFiles

func (o inventoryOutput) Table() string {
	t := table.New().Headers("Voice", "Gender", "Format", "Files")
	for _, vf := range o {
		t.Row(vf.VoiceID, vf.Gender.String(), vf.Format, fmt.Sprint(len(vf.Files)))
	}
	return t.String()
}

var bucketPruneOpts struct {
	changed bool
	gender  string
	dryRun  bool
}

var bucketPruneCmd = &cobra.Command{
	Use:   "prune [voice...]",
	Short: "Delete the audio of superseded voices",
	Long: `Delete the WAV and OGG directories of the given voices. With --changed
the voices are taken from 'report voices': every language whose selection
would change loses its old voice's audio, so the next run regenerates it.

Examples:
  audioproject bucket prune de-DE-Neural2-G en-US-Neural2-C
  audioproject bucket prune --changed --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		type target struct {
			voice  string
			gender voices.Gender
		}
		g, err := voices.ParseGender(bucketPruneOpts.gender)
		if err != nil {
			return err
		}
		var targets []target
		for _, v := range args {
			targets = append(targets, target{v, g})
		}
		if bucketPruneOpts.changed {
			p, err := loadProject()
			if err != nil {
				return err
			}
			dc, err := getContext()
			if err != nil {
				return err
			}
			rows, err := report.ReadCSV(p.referencePath(report.FileName))
			if err != nil {
				return err
			}
			catalog, err := voices.LoadFile(p.voiceCatalogPath())
			if err != nil {
				return err
			}
			for _, c := range report.Changes(rows, catalog, p.policy(catalogTiers(dc))).Changes {
				targets = append(targets, target{c.OldVoice, c.Gender})
			}
		}
		if len(targets) == 0 {
			return errors.New("no voices to prune")
		}

		if bucketPruneOpts.dryRun {
			for _, t := range targets {
				fmt.Printf("would delete %s (%s)\n", t.voice, t.gender)
			}
			return nil
		}

		var cl closers
		defer cl.Close()
		b, err := openBucket(cmd.Context(), &cl)
		if err != nil {
			return err
		}
		var deleted, failed int
		for _, t := range targets {
			d, f, err := b.DeleteVoice(cmd.Context(), t.voice, t.gender)
			deleted += d
			failed += f
			if err != nil {
				return fmt.Errorf("prune %s: %w", t.voice, err)
			}
			fmt.Printf("✓ %s: %d files deleted\n", t.voice, d)
		}
		fmt.Printf("Deleted %d files, %d failed\n", deleted, failed)
		if failed > 0 {
			return fmt.Errorf("%d deletes failed", failed)
		}
		return nil
	},
}

func init() {
	bucketPruneCmd.Flags().BoolVar(&bucketPruneOpts.changed, "changed", false, "prune the old voice of every language whose selection changed")
	bucketPruneCmd.Flags().StringVar(&bucketPruneOpts.gender, "gender", "FEMALE", "gender of voices given as arguments")
	bucketPruneCmd.Flags().BoolVar(&bucketPruneOpts.dryRun, "dry-run", false, "print what would be deleted")

	bucketCmd.AddCommand(bucketUploadCmd)
	bucketCmd.AddCommand(bucketLogsCmd)
	bucketCmd.AddCommand(bucketListCmd)
	bucketCmd.AddCommand(bucketPruneCmd)
}
