package sampler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

const (
	// DefaultFFmpegPath is looked up on PATH when no decoder path is configured.
	DefaultFFmpegPath = "ffmpeg"

	// DefaultTimeout bounds a single decoder invocation.
	DefaultTimeout = 30 * time.Second

	// yavgKey is the frame metadata tag signalstats sets to the average luma.
	yavgKey = "lavfi.signalstats.YAVG"

	// maxDetail caps how much decoder output is copied into errors.
	maxDetail = 240
)

// noStreamMarkers are decoder messages meaning the input has no video to sample.
var noStreamMarkers = []string{
	"does not contain any stream",
	"matches no streams",
	"no video stream",
}

// Options configures the ffmpeg-backed samplers.
type Options struct {
	// Path is the ffmpeg binary. Defaults to DefaultFFmpegPath.
	Path string

	// Timeout bounds each invocation. Zero means DefaultTimeout; negative disables it.
	Timeout time.Duration

	// Meter selects how the frame is measured. Defaults to SignalStats.
	Meter Meter

	// Runner spawns the decoder. Defaults to ExecRunner.
	Runner ProcessRunner

	// Logger receives per-sample trace output. Defaults to a null logger.
	Logger hclog.Logger
}

func (o Options) withDefaults() Options {
	if o.Path == "" {
		o.Path = DefaultFFmpegPath
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Runner == nil {
		o.Runner = NewExecRunner()
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

// New returns the sampler for strategy.
func New(strategy Strategy, opts Options) (Sampler, error) {
	switch strategy {
	case NearestKeyframe:
		return NewKeyframeSampler(opts), nil
	case FullDecode:
		return NewFullDecodeSampler(opts), nil
	default:
		return nil, fmt.Errorf("unsupported sampling strategy: %s", strategy)
	}
}

// decoder holds what both strategies share: one process per sample, bounded by a timeout.
type decoder struct {
	opts Options
}

func (d *decoder) run(ctx context.Context, video string, at subtitle.Timestamp, args []string) (Result, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := d.opts.Runner.Run(ctx, d.opts.Path, args)
	d.opts.Logger.Trace("decoder finished", "at", at.String(), "elapsed", time.Since(start), "exit_code", res.ExitCode)

	if err != nil {
		kind := ErrProcessSpawn
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			kind = ErrProcessExit
		}
		return res, &Error{Kind: kind, Video: video, At: at, Err: err}
	}

	if res.ExitCode != 0 {
		detail := excerpt(res.Stderr)
		kind := ErrProcessExit
		if mentionsNoStream(res.Stderr) {
			kind = ErrNoFrame
		}
		return res, &Error{
			Kind:   kind,
			Video:  video,
			At:     at,
			Detail: detail,
			Err:    fmt.Errorf("exit code %d", res.ExitCode),
		}
	}

	return res, nil
}

// output returns the filter and muxer arguments that make the decoder report
// the frame to the configured meter. toStdout routes signalstats to stdout
// instead of the log.
func (d *decoder) output(toStdout bool) []string {
	if d.opts.Meter == FrameLuma {
		return []string{
			"-vf", "format=gray",
			"-c:v", "bmp",
			"-f", "image2pipe", "-",
		}
	}
	filter := "format=yuv420p,signalstats,metadata=mode=print:key=" + yavgKey
	if toStdout {
		filter += ":file=-"
	}
	return []string{"-vf", filter, "-f", "null", "-"}
}

// measure extracts the brightness from a successful run. fromStderr selects
// where signalstats output is looked for.
func (d *decoder) measure(res Result, video string, at subtitle.Timestamp, fromStderr bool) (Brightness, error) {
	if d.opts.Meter == FrameLuma {
		return frameBrightness(res, video, at)
	}

	out, bare := res.Stdout, true
	if fromStderr {
		out, bare = res.Stderr, false
	}
	value, ok := findValue(out, bare)
	if !ok {
		return 0, &Error{Kind: ErrNoFrame, Video: video, At: at, Detail: excerpt(res.Stderr)}
	}
	return parseBrightness(value, video, at)
}

// KeyframeSampler implements the NearestKeyframe strategy. The decoder seeks
// to the keyframe nearest the timestamp and prints the luma tag to stdout.
type KeyframeSampler struct {
	decoder
}

// NewKeyframeSampler creates a NearestKeyframe sampler.
func NewKeyframeSampler(opts Options) *KeyframeSampler {
	return &KeyframeSampler{decoder{opts: opts.withDefaults()}}
}

// Strategy returns NearestKeyframe.
func (s *KeyframeSampler) Strategy() Strategy {
	return NearestKeyframe
}

// Args returns the decoder arguments for a sample at the given offset.
func (s *KeyframeSampler) Args(video string, at subtitle.Timestamp) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-nostats",
		"-v", "error",
		"-noaccurate_seek",
		"-ss", at.SecondsString(),
		"-i", video,
		"-map", "0:v:0",
		"-frames:v", "1",
	}
	return append(args, s.output(true)...)
}

// Sample implements Sampler.
func (s *KeyframeSampler) Sample(ctx context.Context, video string, at subtitle.Timestamp) (Brightness, error) {
	res, err := s.run(ctx, video, at, s.Args(video, at))
	if err != nil {
		return 0, err
	}
	return s.measure(res, video, at, false)
}

// FullDecodeSampler implements the FullDecode strategy. The decoder reads from
// the start of the input and drops frames before the timestamp. With the
// SignalStats meter the luma tag of the first remaining frame is logged to stderr.
type FullDecodeSampler struct {
	decoder
}

// NewFullDecodeSampler creates a FullDecode sampler.
func NewFullDecodeSampler(opts Options) *FullDecodeSampler {
	return &FullDecodeSampler{decoder{opts: opts.withDefaults()}}
}

// Strategy returns FullDecode.
func (s *FullDecodeSampler) Strategy() Strategy {
	return FullDecode
}

// Args returns the decoder arguments for a sample at the given offset.
func (s *FullDecodeSampler) Args(video string, at subtitle.Timestamp) []string {
	// metadata=mode=print logs at info level.
	level := "info"
	if s.opts.Meter == FrameLuma {
		level = "error"
	}
	args := []string{
		"-hide_banner", "-nostdin", "-nostats",
		"-v", level,
		"-i", video,
		"-map", "0:v:0",
		"-ss", at.SecondsString(),
		"-frames:v", "1",
	}
	return append(args, s.output(false)...)
}

// Sample implements Sampler.
func (s *FullDecodeSampler) Sample(ctx context.Context, video string, at subtitle.Timestamp) (Brightness, error) {
	res, err := s.run(ctx, video, at, s.Args(video, at))
	if err != nil {
		return 0, err
	}
	return s.measure(res, video, at, true)
}

// findValue returns the value of the first "lavfi.signalstats.YAVG=<v>" line in
// out. When bare is set a line holding a single token is accepted as well.
func findValue(out []byte, bare bool) (string, bool) {
	var token string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, yavgKey+"="); i >= 0 {
			return strings.TrimSpace(line[i+len(yavgKey)+1:]), true
		}
		if bare && token == "" && line != "" && !strings.ContainsAny(line, " \t:=") {
			token = line
		}
	}
	return token, token != ""
}

func parseBrightness(value, video string, at subtitle.Timestamp) (Brightness, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &Error{Kind: ErrParse, Video: video, At: at, Detail: excerpt([]byte(value)), Err: err}
	}
	if math.IsNaN(v) || v < 0 || v > float64(MaxBrightness) {
		return 0, &Error{Kind: ErrParse, Video: video, At: at, Detail: value, Err: errors.New("value out of range [0, 255]")}
	}
	return Brightness(v), nil
}

func mentionsNoStream(stderr []byte) bool {
	lower := strings.ToLower(string(stderr))
	for _, m := range noStreamMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// excerpt returns the last non-empty line of out, truncated to maxDetail bytes.
func excerpt(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if len(last) > maxDetail {
		last = last[:maxDetail] + "..."
	}
	return last
}
