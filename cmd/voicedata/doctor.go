package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/go-voicedata/internal/audio"
	"github.com/example/go-voicedata/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var wavOnly bool

	cmd := &cobra.Command{
		Use:   "doctor [archive...]",
		Short: "Check ffmpeg and the output directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dirs := []string{cfg.Paths.OutputDir}
			if cfg.Paths.SaveDir != "" {
				dirs = append(dirs, cfg.Paths.SaveDir)
			}

			dcfg := doctor.Config{
				FFmpegVersion: func() (string, error) {
					return probeFFmpegVersion(cmd.Context(), cfg.FFmpeg.Path)
				},
				SkipFFmpeg:   wavOnly,
				WritableDirs: dirs,
				Archives:     args,
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(dcfg, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					// #nosec G705 -- Writes plain diagnostic text to stderr for CLI output, not HTML rendering.
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&wavOnly, "wav-only", false, "Skip the ffmpeg check (archives contain wav clips only)")

	return cmd
}

// probeFFmpegVersion runs `ffmpeg -version` with a short timeout.
func probeFFmpegVersion(ctx context.Context, exe string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return audio.FFmpegVersion(ctx, exe)
}
