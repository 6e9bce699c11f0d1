package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/subtinct/internal/colour"
	"github.com/jmylchreest/subtinct/internal/subtitle"
)

func newSampleCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "sample <video> <timestamp>",
		Short: "Measure the brightness of one frame",
		Long: `Measure the mean luma of the frame at a timestamp and show the correction
that would be applied to captions over it.

The timestamp may be written as HH:MM:SS,mmm or as seconds.

Examples:
  subtinct sample movie.mp4 00:12:05,250
  subtinct sample --exact movie.mp4 725.25`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSample(cmd, &flags, args[0], args[1])
		},
	}

	registerSamplingFlags(cmd.Flags(), &flags)
	return cmd
}

func (a *app) runSample(cmd *cobra.Command, flags *runFlags, videoPath, at string) error {
	ts, err := subtitle.ParseTimestamp(at)
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err := checkVideo(videoPath); err != nil {
		return err
	}
	logger := a.logger(cmd)

	s, err := a.newSampler(cfg, logger)
	if err != nil {
		return err
	}

	b, err := s.Sample(cmd.Context(), videoPath, ts)
	if err != nil {
		return err
	}

	delta := colour.Correction(float64(b), cfg.Midpoint, cfg.Coefficient)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "timestamp:  %s\n", ts)
	fmt.Fprintf(out, "strategy:   %s\n", s.Strategy())
	fmt.Fprintf(out, "brightness: %.2f\n", float64(b))
	fmt.Fprintf(out, "correction: %+d (default colour %s -> %s)\n",
		delta, cfg.DefaultColor.Hex(), cfg.DefaultColor.Shift(delta).Hex())
	return nil
}
