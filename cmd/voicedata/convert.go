package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <archive>",
		Short: "Convert an already downloaded voice archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			stats, err := runConvert(cmd.Context(), cfg, args[0], cfg.Paths.OutputDir)
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d clips, %d train, %d valid -> %s\n",
				stats.Clips, stats.Train, stats.Valid, cfg.Paths.OutputDir)

			return nil
		},
	}
}
