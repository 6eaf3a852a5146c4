package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
)

const appName = "audioproject"

var (
	cfgFile     string
	contextName string
	outputFile  string
	outputJSON  bool
	verbose     bool
	workDir     string

	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "audioproject",
	Short: "Localization text to per-language speech audio",
	Long: `AudioProject converts game localization files into spoken audio,
one voice per language, as WAV and OGG files.

Deployment settings (speech provider, credentials, bucket) are kept in
~/.audioproject/audioproject/ as kubectl-like contexts. Project settings
(directories, version, tier rules) come from audioproject.yaml in the
work directory.

Examples:
  # Set up a context that uploads to a GCS bucket
  audioproject config add-context prod --credentials-file key.json --backend gcs --bucket my-audio

  # Run the full pipeline
  audioproject -c prod run --version 1.21.4 --upload

  # Preview the language table without generating audio
  audioproject match
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workDir == "" {
			return nil
		}
		if err := os.Chdir(workDir); err != nil {
			return fmt.Errorf("work dir: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.audioproject/audioproject/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&workDir, "workdir", "", "project directory (default: current directory)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(preprocessCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(bucketCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var err error
	globalConfig, err = cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s config: %v\n", appName, err)
	}
}

func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getContext returns the selected deployment context. Without -c and
// without a current context, local-only google settings are used.
func getContext() (*cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// outputResult prints result as YAML (JSON with --json, table for Tablers
// on a terminal).
func outputResult(result any) error {
	format := cli.FormatYAML
	switch {
	case outputJSON:
		format = cli.FormatJSON
	case outputFile == "":
		if _, ok := result.(cli.Tabler); ok {
			format = cli.FormatTable
		}
	}
	return cli.Output(result, cli.OutputOptions{Format: format, File: outputFile})
}
