package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/example/go-voicedata/internal/catalog"
	"github.com/example/go-voicedata/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

type rootOptions struct {
	language      string
	voice         string
	listVoices    string
	listLanguages bool
}

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "voicedata",
		Short: "Download and prepare NabuCasa voice datasets for TTS training",
		Long: "Downloads voice dataset archives from " + catalog.Source + " (" + catalog.License + "),\n" +
			"converts the clips to 16-bit wav and writes train.txt/valid.txt manifests.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "The language or locale to prepare (all voices)")
	cmd.Flags().StringVarP(&opts.voice, "voice", "v", "", "The name of the voice to prepare (single voice)")
	cmd.Flags().StringVarP(&opts.listVoices, "list-voices", "V", "", "List available voices for specified language")
	cmd.Flags().BoolVarP(&opts.listLanguages, "list-languages", "L", false, "List available languages")

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

func runRoot(cmd *cobra.Command, opts rootOptions) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.listLanguages {
		printLanguages(out)
		return exitCode(1)
	}

	if opts.listVoices != "" {
		if err := listVoices(out, opts.listVoices); err != nil {
			return err
		}
	}

	switch {
	case opts.voice != "":
		return prepareVoice(cmd.Context(), cfg, out, opts.voice)
	case opts.language != "":
		return prepareLanguage(cmd.Context(), cfg, out, opts.language)
	case opts.listVoices == "":
		return cmd.Help()
	}

	return nil
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	slog.SetDefault(config.NewLogger(os.Stderr, levelStr))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Paths.OutputDir == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}
