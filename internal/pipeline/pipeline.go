// Package pipeline drives every cue of a track through sampling, correction
// and rewriting.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/subtinct/internal/caption"
	"github.com/jmylchreest/subtinct/internal/colour"
	"github.com/jmylchreest/subtinct/internal/sampler"
	"github.com/jmylchreest/subtinct/internal/subtitle"
)

// Config holds the per-run settings of an Orchestrator.
type Config struct {
	Midpoint     float64
	Coefficient  float64
	DefaultColor colour.RGB
	Policy       Policy

	// Workers bounds concurrent sampling. Values below 2 sample one cue at a time.
	Workers int

	// WatermarkText, when set, is prepended as a cue lasting WatermarkDuration.
	WatermarkText     string
	WatermarkDuration time.Duration
}

// State is the stage a cue has reached.
type State int

const (
	Pending State = iota
	Sampled
	Corrected
	Rewritten
	Done
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Sampled:
		return "sampled"
	case Corrected:
		return "corrected"
	case Rewritten:
		return "rewritten"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CueResult records what happened to one cue.
type CueResult struct {
	Index       int
	Start       subtitle.Timestamp
	Brightness  sampler.Brightness
	Delta       int
	Substituted bool
	// Err is the sampling error that was substituted, if any.
	Err error
}

// Report summarises a run.
type Report struct {
	Results     []CueResult
	Substituted int
	Watermarked bool
}

// CueError is returned by Run when a cue fails under FailFast.
type CueError struct {
	Index int
	Err   error
}

func (e *CueError) Error() string {
	return fmt.Sprintf("cue %d: %v", e.Index, e.Err)
}

func (e *CueError) Unwrap() error {
	return e.Err
}

// Orchestrator applies brightness correction to a track.
type Orchestrator struct {
	cfg      Config
	sampler  sampler.Sampler
	rewriter *caption.Rewriter
	logger   hclog.Logger
}

// New creates an Orchestrator. A nil logger discards output.
func New(cfg Config, s sampler.Sampler, logger hclog.Logger) *Orchestrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Orchestrator{
		cfg:      cfg,
		sampler:  s,
		rewriter: caption.NewRewriter(cfg.DefaultColor),
		logger:   logger,
	}
}

// Run corrects every cue of track in place, sampling frames of video.
// Cue order is preserved; when a watermark is configured it is prepended and
// the track renumbered. On a FailFast abort the track may be partially
// rewritten and must not be written out.
func (o *Orchestrator) Run(ctx context.Context, video string, track *subtitle.Track) (*Report, error) {
	report := &Report{Results: make([]CueResult, track.Len())}
	o.logger.Info("correcting cues",
		"cues", track.Len(),
		"strategy", o.sampler.Strategy().String(),
		"coefficient", o.cfg.Coefficient,
		"policy", o.cfg.Policy.String(),
		"workers", max(o.cfg.Workers, 1))

	if o.cfg.Workers > 1 {
		if err := o.sampleConcurrently(ctx, video, track, report); err != nil {
			return report, err
		}
		for i := range track.Cues {
			o.finish(track, report, i)
		}
	} else {
		for i := range track.Cues {
			if err := o.sample(ctx, video, track, report, i); err != nil {
				return report, err
			}
			o.finish(track, report, i)
		}
	}

	for _, r := range report.Results {
		if r.Substituted {
			report.Substituted++
		}
	}

	if o.cfg.WatermarkText != "" {
		track.Prepend(subtitle.NewCue(0, o.cfg.WatermarkDuration, o.cfg.WatermarkText))
		report.Watermarked = true
		o.logger.Debug("prepended watermark cue", "cues", track.Len())
	}

	o.logger.Info("correction complete", "cues", len(report.Results), "substituted", report.Substituted)
	return report, nil
}

// sampleConcurrently fills report.Results for every cue with a bounded number
// of decoder processes. Results land by cue position, never completion order.
func (o *Orchestrator) sampleConcurrently(ctx context.Context, video string, track *subtitle.Track, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)

	for i := range track.Cues {
		i := i // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			return o.sample(gctx, video, track, report, i)
		})
	}
	return g.Wait()
}

// sample moves cue i from Pending to Sampled. It writes only report.Results[i].
func (o *Orchestrator) sample(ctx context.Context, video string, track *subtitle.Track, report *Report, i int) error {
	cue := track.Cues[i]
	res := &report.Results[i]
	res.Index = cue.Index
	res.Start = cue.Start
	o.logger.Trace("cue state", "cue", cue.Index, "state", Pending.String())

	b, err := o.sampler.Sample(ctx, video, cue.Start)
	if err != nil {
		if o.cfg.Policy != SubstituteDefault || ctx.Err() != nil {
			return &CueError{Index: cue.Index, Err: err}
		}
		o.logger.Warn("sampling failed, using midpoint brightness",
			"cue", cue.Index, "at", cue.Start.String(), "error", err)
		b = sampler.Brightness(o.cfg.Midpoint)
		res.Substituted = true
		res.Err = err
	}

	res.Brightness = b
	o.logger.Trace("cue state", "cue", cue.Index, "state", Sampled.String(), "brightness", float64(b))
	return nil
}

// finish takes a sampled cue through Corrected and Rewritten to Done.
func (o *Orchestrator) finish(track *subtitle.Track, report *Report, i int) {
	res := &report.Results[i]
	cue := &track.Cues[i]

	res.Delta = colour.Correction(float64(res.Brightness), o.cfg.Midpoint, o.cfg.Coefficient)
	o.logger.Trace("cue state", "cue", cue.Index, "state", Corrected.String(), "delta", res.Delta)

	cue.Text = o.rewriter.Rewrite(cue.Text, res.Delta)
	o.logger.Trace("cue state", "cue", cue.Index, "state", Rewritten.String())

	o.logger.Trace("cue state", "cue", cue.Index, "state", Done.String())
	o.logger.Debug("cue corrected", "cue", cue.Index, "brightness", float64(res.Brightness), "delta", res.Delta)
}
