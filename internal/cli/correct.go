package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/subtinct/internal/pipeline"
	"github.com/jmylchreest/subtinct/internal/subtitle"
)

func newCorrectCmd(a *app) *cobra.Command {
	var (
		flags  runFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "correct <captions.srt> <video>",
		Short: "Recolour every cue of a caption file to match the video brightness",
		Long: `Recolour every cue of an SRT caption file according to the brightness of the
video frame shown when the cue appears.

For each cue the frame at the cue's start time is sampled and its mean luma
compared with the midpoint. The difference, scaled by the coefficient, is added
to every colour channel of each <font color="#RRGGBB"> tag in the cue. Cues
without a colour tag are wrapped in one using the default colour.

Running the command on its own output corrects the colours a second time.

Examples:
  # Correct captions with the default strength and write output.srt
  subtinct correct movie.srt movie.mp4

  # Stronger correction, exact frames, custom output
  subtinct correct -c 0.5 --exact -o movie.corrected.srt movie.srt movie.mp4

  # Keep going when a frame cannot be decoded
  subtinct correct --on-error substitute movie.srt movie.mp4

  # Show the per-cue corrections without writing anything
  subtinct correct --dry-run movie.srt movie.mp4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCorrect(cmd, &flags, args[0], args[1], dryRun)
		},
	}

	registerCorrectionFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the per-cue corrections without writing output")

	return cmd
}

func (a *app) runCorrect(cmd *cobra.Command, flags *runFlags, captionsPath, videoPath string, dryRun bool) error {
	cfg, err := a.loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err := checkVideo(videoPath); err != nil {
		return err
	}
	logger := a.logger(cmd)

	track, err := subtitle.ReadFile(captionsPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded captions", "path", captionsPath, "cues", track.Len())

	s, err := a.newSampler(cfg, logger)
	if err != nil {
		return err
	}

	o := pipeline.New(cfg.Pipeline(), s, logger.Named("pipeline"))
	report, err := o.Run(cmd.Context(), videoPath, track)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprint(cmd.OutOrStdout(), reportTable(report))
		return nil
	}

	if err := subtitle.WriteFile(cfg.Output, track); err != nil {
		return err
	}
	logger.Info("wrote captions", "path", cfg.Output, "cues", track.Len())
	return nil
}

// reportTable renders one row per sampled cue.
func reportTable(report *pipeline.Report) string {
	table := NewTable([]string{"CUE", "START", "BRIGHTNESS", "DELTA", "NOTE"})
	table.SetAlignRight(0, 2, 3)
	for _, r := range report.Results {
		note := ""
		if r.Substituted {
			note = "substituted: " + r.Err.Error()
		}
		table.AddRow([]string{
			strconv.Itoa(r.Index),
			r.Start.String(),
			strconv.FormatFloat(float64(r.Brightness), 'f', 2, 64),
			fmt.Sprintf("%+d", r.Delta),
			note,
		})
	}
	table.SetColumnMaxWidth(4, 60)
	return table.Render()
}
