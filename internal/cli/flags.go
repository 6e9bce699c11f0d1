package cli

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/subtinct/internal/colour"
	"github.com/jmylchreest/subtinct/internal/config"
	"github.com/jmylchreest/subtinct/internal/pipeline"
	"github.com/jmylchreest/subtinct/internal/sampler"
)

// runFlags are the flags shared by commands that sample and correct.
// Their defaults mirror config.Default so --help shows the real values; only
// flags set on the command line override the config file.
type runFlags struct {
	coefficient float64
	midpoint    float64
	exact       bool
	meter       string
	ffmpeg      string
	timeout     time.Duration

	// correct only
	output            string
	defaultColor      string
	onError           string
	workers           int
	watermark         string
	watermarkDuration time.Duration
}

func registerSamplingFlags(fs *pflag.FlagSet, f *runFlags) {
	def := config.Default()
	fs.Float64VarP(&f.coefficient, "coefficient", "c", def.Coefficient, "correction strength (0-1)")
	fs.Float64Var(&f.midpoint, "midpoint", def.Midpoint, "neutral brightness on the 0-255 scale")
	fs.BoolVar(&f.exact, "exact", false, "decode up to the exact frame instead of seeking to the nearest keyframe (slower)")
	fs.StringVar(&f.meter, "meter", def.Meter.String(), "how frame brightness is measured (signalstats, frame)")
	fs.StringVar(&f.ffmpeg, "ffmpeg", def.FFmpeg, "ffmpeg binary (env: "+config.EnvFFmpeg+")")
	fs.DurationVar(&f.timeout, "timeout", def.Timeout, "time limit for each ffmpeg run")
}

func registerCorrectionFlags(fs *pflag.FlagSet, f *runFlags) {
	registerSamplingFlags(fs, f)

	def := config.Default()
	fs.StringVarP(&f.output, "output", "o", def.Output, "output caption file")
	fs.StringVar(&f.defaultColor, "default-color", def.DefaultColor.Hex(), "colour for cues without a colour tag")
	fs.StringVar(&f.onError, "on-error", def.OnError.String(), "what to do when a frame cannot be sampled (fail, substitute)")
	fs.IntVarP(&f.workers, "workers", "j", def.Workers, "number of ffmpeg processes to run at once")
	fs.StringVar(&f.watermark, "watermark", "", "prepend a cue with this text")
	fs.DurationVar(&f.watermarkDuration, "watermark-duration", def.Watermark.Duration, "how long the watermark cue is shown")
}

// apply copies every flag the user changed into cfg.
func (f *runFlags) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	var err error
	set := func(name string, fn func()) {
		if err == nil && fs.Changed(name) {
			fn()
		}
	}

	set("coefficient", func() { cfg.Coefficient = f.coefficient })
	set("midpoint", func() { cfg.Midpoint = f.midpoint })
	set("exact", func() {
		cfg.Strategy = sampler.NearestKeyframe
		if f.exact {
			cfg.Strategy = sampler.FullDecode
		}
	})
	set("meter", func() { cfg.Meter, err = sampler.ParseMeter(f.meter) })
	set("ffmpeg", func() { cfg.FFmpeg = f.ffmpeg })
	set("timeout", func() { cfg.Timeout = f.timeout })
	set("output", func() { cfg.Output = f.output })
	set("default-color", func() { cfg.DefaultColor, err = colour.ParseHex(f.defaultColor) })
	set("on-error", func() { cfg.OnError, err = pipeline.ParsePolicy(f.onError) })
	set("workers", func() { cfg.Workers = f.workers })
	set("watermark", func() { cfg.Watermark.Text = f.watermark })
	set("watermark-duration", func() { cfg.Watermark.Duration = f.watermarkDuration })

	return err
}
