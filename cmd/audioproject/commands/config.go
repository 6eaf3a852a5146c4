package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aufco/AudioProject-Female/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Manage audioproject deployment contexts.

Configuration is stored in ~/.audioproject/audioproject/config.yaml.
Each context names a speech provider and, optionally, the bucket finished
audio is moved to.`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context.

Examples:
  audioproject config add-context local --provider google --credentials-file key.json
  audioproject config add-context prod --backend gcs --bucket minecraft-audio
  audioproject config add-context minio --backend s3 --bucket audio --endpoint http://localhost:9000
  audioproject config add-context gemini --provider gemini --api-key AIza... --extra style="Say calmly"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		f := cmd.Flags()
		provider, _ := f.GetString("provider")
		credentials, _ := f.GetString("credentials-file")
		apiKey, _ := f.GetString("api-key")
		model, _ := f.GetString("model")
		sampleRate, _ := f.GetInt("sample-rate")
		backend, _ := f.GetString("backend")
		extra, _ := f.GetStringToString("extra")

		ctx := &cli.Context{
			Name:            name,
			Provider:        provider,
			CredentialsFile: credentials,
			APIKey:          apiKey,
			Model:           model,
			SampleRate:      sampleRate,
		}
		for k, v := range extra {
			ctx.SetExtra(k, v)
		}
		if ctx.ProviderName() == cli.ProviderGemini && apiKey == "" {
			return fmt.Errorf("api-key is required for the gemini provider")
		}
		if backend != "" {
			sc := &cli.StorageConfig{Backend: backend}
			sc.Bucket, _ = f.GetString("bucket")
			sc.Prefix, _ = f.GetString("prefix")
			sc.Region, _ = f.GetString("region")
			sc.Endpoint, _ = f.GetString("endpoint")
			sc.Root, _ = f.GetString("root")
			ctx.Storage = sc
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context '%s' deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the default context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context '%s'", args[0])
		return nil
	},
}

var configGetContextCmd = &cobra.Command{
	Use:   "get-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
		} else {
			fmt.Println(cfg.CurrentContext)
		}
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured")
			return nil
		}
		for _, name := range names {
			marker := "  "
			if name == cfg.CurrentContext {
				marker = "* "
			}
			fmt.Printf("%s%s (%s)\n", marker, name, cfg.Contexts[name].ProviderName())
		}
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View full configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		view := cli.Config{CurrentContext: cfg.CurrentContext, Contexts: make(map[string]*cli.Context, len(cfg.Contexts))}
		for name, c := range cfg.Contexts {
			masked := *c
			masked.APIKey = cli.MaskAPIKey(c.APIKey)
			view.Contexts[name] = &masked
		}
		return outputResult(view)
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.String("provider", cli.ProviderGoogle, "speech provider: google or gemini")
	f.String("credentials-file", "", "Google Cloud service account key (default: application default credentials)")
	f.StringP("api-key", "k", "", "Gemini API key")
	f.String("model", "", "synthesis model override")
	f.Int("sample-rate", 0, "output sample rate in Hz (default: per voice)")
	f.String("backend", "", "storage backend: local, gcs or s3 (default: no upload)")
	f.String("bucket", "", "bucket name")
	f.String("prefix", "", "object prefix inside the bucket")
	f.String("region", "", "S3 region")
	f.String("endpoint", "", "storage endpoint override")
	f.String("root", "", "directory of the local backend")
	f.StringToString("extra", nil, "provider options, e.g. --extra style=\"Say calmly\"")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configGetContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configViewCmd)
}
