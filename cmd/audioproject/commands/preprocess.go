package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/locale"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Filter raw localization files against the reference locale",
	Long: `Read every *.json file of the original translations directory, keep the
entries whose key exists in the reference locale and belongs to a spoken
namespace, and write <code>_processed.json files.

Example:
  audioproject preprocess`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		if err := requireFile("reference locale", p.referenceLocalePath()); err != nil {
			return err
		}
		st, err := locale.Preprocess(p.TranslationsOriginalDir, p.TranslationsDir, p.referenceLocalePath())
		if err != nil {
			return err
		}
		return outputResult(preprocessOutput(st))
	},
}

type preprocessOutput locale.PreprocessStats

func (o preprocessOutput) Table() string {
	var b strings.Builder
	for _, f := range o.Files {
		fmt.Fprintf(&b, "%-8s kept %5d  missing %4d\n", f.InGameCode, f.Kept, f.Missing)
	}
	fmt.Fprintf(&b, "Files processed: %d\nFiles failed: %d\nTotal entries kept: %d\nTotal missing keys: %d",
		o.FilesProcessed, o.FilesFailed, o.EntriesKept, o.MissingKeys)
	return b.String()
}
