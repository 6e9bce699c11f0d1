// Package cli provides the command-line interface for subtinct.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/subtinct/internal/config"
	"github.com/jmylchreest/subtinct/internal/logging"
	"github.com/jmylchreest/subtinct/internal/sampler"
	"github.com/jmylchreest/subtinct/internal/security"
	"github.com/jmylchreest/subtinct/internal/version"
)

// Option customises the root command, mainly for tests.
type Option func(*app)

// WithProcessRunner replaces the runner used to spawn the decoder.
func WithProcessRunner(r sampler.ProcessRunner) Option {
	return func(a *app) { a.runner = r }
}

// app carries state shared by every subcommand of one root command.
type app struct {
	runner sampler.ProcessRunner

	configPath string
	verbose    bool
	trace      bool
	quiet      bool
}

// NewRootCmd builds the subtinct command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "subtinct",
		Short: "Adjust caption colours to the brightness of the video behind them",
		Long: `subtinct samples the video frame under each subtitle cue and shifts the cue's
text colour by an amount proportional to how far the frame's brightness is from
a neutral midpoint, so captions stay legible over bright and dark footage.

Frames are measured with ffmpeg, which must be installed.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&a.trace, "trace", false, "log every cue state transition")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (default: $"+config.EnvConfig+")")
	_ = rootCmd.PersistentFlags().MarkHidden("trace")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newCorrectCmd(a))
	rootCmd.AddCommand(newSampleCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// logger builds the run logger on the command's error stream.
func (a *app) logger(cmd *cobra.Command) hclog.Logger {
	return logging.New(logging.Options{
		Verbose: a.verbose,
		Trace:   a.trace,
		Quiet:   a.quiet,
		Output:  cmd.ErrOrStderr(),
	})
}

// loadConfig reads the config file and applies flags the user set explicitly.
func (a *app) loadConfig(cmd *cobra.Command, f *runFlags) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := f.apply(cmd.Flags(), cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkVideo rejects video references the decoder cannot open before any work starts.
func checkVideo(path string) error {
	if err := security.ValidateVideoPath(path); err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	return nil
}

// newSampler builds the configured sampler.
func (a *app) newSampler(cfg *config.Config, logger hclog.Logger) (sampler.Sampler, error) {
	opts := cfg.SamplerOptions()
	opts.Runner = a.runner
	opts.Logger = logger.Named("sampler")
	return sampler.New(cfg.Strategy, opts)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
