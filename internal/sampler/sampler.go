// Package sampler measures the brightness of single video frames by running
// an external decoder once per request.
package sampler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

// Brightness is the mean luma of a frame on the 8-bit scale [0, 255].
type Brightness float64

// MaxBrightness is the upper bound of the luma scale.
const MaxBrightness Brightness = 255

// Strategy selects how the decoder reaches the requested frame.
type Strategy int

const (
	// NearestKeyframe seeks straight to the closest keyframe. Latency does not
	// depend on the timestamp, but the frame may be offset from it.
	NearestKeyframe Strategy = iota

	// FullDecode decodes every frame up to the timestamp and measures exactly
	// that frame. Latency grows with the distance decoded.
	FullDecode
)

// String returns the flag/config spelling of the strategy.
func (s Strategy) String() string {
	switch s {
	case NearestKeyframe:
		return "keyframe"
	case FullDecode:
		return "exact"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "keyframe" or "exact" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keyframe", "nearest-keyframe":
		return NearestKeyframe, nil
	case "exact", "full-decode", "full":
		return FullDecode, nil
	default:
		return 0, fmt.Errorf("unknown sampling strategy %q (valid: keyframe, exact)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Meter selects how the brightness of the decoded frame is measured.
type Meter int

const (
	// SignalStats has the decoder's signalstats filter report the average luma.
	SignalStats Meter = iota

	// FrameLuma has the decoder emit the frame as a grayscale bitmap whose
	// pixels are averaged here.
	FrameLuma
)

// String returns the flag/config spelling of the meter.
func (m Meter) String() string {
	switch m {
	case SignalStats:
		return "signalstats"
	case FrameLuma:
		return "frame"
	default:
		return fmt.Sprintf("Meter(%d)", int(m))
	}
}

// ParseMeter parses "signalstats" or "frame" (case-insensitive).
func ParseMeter(s string) (Meter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "signalstats", "yavg":
		return SignalStats, nil
	case "frame", "bitmap":
		return FrameLuma, nil
	default:
		return 0, fmt.Errorf("unknown brightness meter %q (valid: signalstats, frame)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Meter) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Meter) UnmarshalText(text []byte) error {
	parsed, err := ParseMeter(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sampler measures frame brightness at a timestamp of a video.
type Sampler interface {
	// Sample returns the mean luma of the frame at the given offset.
	// Failures are returned as *Error.
	Sample(ctx context.Context, video string, at subtitle.Timestamp) (Brightness, error)

	// Strategy reports which seek strategy the sampler uses.
	Strategy() Strategy
}
