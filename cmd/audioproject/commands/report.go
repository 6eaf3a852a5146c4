package commands

import (
	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/report"
	"github.com/Aufco/AudioProject-Female/pkg/voices"
)

var reportTableFile string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Language table reports",
}

var reportVoicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Show which languages would get a different voice today",
	Long: `Compare the voices recorded in the language table with what the current
tier rules would select from the saved catalog.

Examples:
  audioproject report voices
  audioproject report voices --table Archive/1.21.4/Reference_Files/language_table.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		dc, err := getContext()
		if err != nil {
			return err
		}
		path := reportTableFile
		if path == "" {
			path = p.referencePath(report.FileName)
		}
		if err := requireFile("language table", path); err != nil {
			return err
		}
		rows, err := report.ReadCSV(path)
		if err != nil {
			return err
		}
		catalog, err := voices.LoadFile(p.voiceCatalogPath())
		if err != nil {
			return err
		}
		return outputResult(analysisOutput(report.Changes(rows, catalog, p.policy(catalogTiers(dc)))))
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the language table",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		path := reportTableFile
		if path == "" {
			path = p.referencePath(report.FileName)
		}
		rows, err := report.ReadCSV(path)
		if err != nil {
			return err
		}
		return outputResult(rowsOutput(rows))
	},
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportTableFile, "table", "", "language table CSV (default: <reference_dir>/language_table.csv)")
	reportCmd.AddCommand(reportVoicesCmd)
	reportCmd.AddCommand(reportShowCmd)
}

type analysisOutput report.Analysis

func (a analysisOutput) Table() string { return report.RenderAnalysis(report.Analysis(a)) }

type rowsOutput []report.Row

func (r rowsOutput) Table() string { return report.Render(r) }
