package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/archive"
)

var archiveOpts struct {
	version     string
	move        bool
	removeEmpty bool
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive translations, reference files and OGG audio",
	Long: `Copy the processed translations, the reference files and every OGG file
whose key is still translated into Archive/<version>. An existing version
gets a -1, -2, ... suffix.

Examples:
  audioproject archive --version 1.21.4
  audioproject archive --move --remove-empty`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		if archiveOpts.version != "" {
			p.Version = archiveOpts.version
		}
		dirs, err := archive.OGGDirs(p.AudioDir)
		if err != nil {
			return err
		}
		res, err := (&archive.Archiver{Root: p.ArchiveDir}).Archive(archive.Request{
			Version:          p.Version,
			TranslationsDir:  p.TranslationsDir,
			ReferenceDir:     p.ReferenceDir,
			OGGDirs:          dirs,
			MoveTranslations: archiveOpts.move,
		})
		if err != nil {
			return err
		}
		if archiveOpts.removeEmpty {
			n, err := archive.RemoveEmptyDirs(p.AudioDir)
			if err != nil {
				return fmt.Errorf("remove empty dirs: %w", err)
			}
			fmt.Printf("Removed %d empty directories\n", n)
		}
		return outputResult(res)
	},
}

func init() {
	archiveCmd.Flags().StringVar(&archiveOpts.version, "version", "", "version to archive (default from audioproject.yaml)")
	archiveCmd.Flags().BoolVar(&archiveOpts.move, "move", false, "remove the translations directory after copying")
	archiveCmd.Flags().BoolVar(&archiveOpts.removeEmpty, "remove-empty", false, "remove empty audio directories afterwards")
}
