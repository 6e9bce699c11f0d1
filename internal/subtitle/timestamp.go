package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a cue offset split into the fields an SRT timing line carries.
// Fields are non-negative and may exceed their usual range (e.g. Minutes >= 60).
type Timestamp struct {
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// TotalMilliseconds returns the total offset in milliseconds.
// Each field is widened to int64 before scaling so long offsets cannot overflow.
func (ts Timestamp) TotalMilliseconds() int64 {
	return int64(ts.Hours)*3_600_000 +
		int64(ts.Minutes)*60_000 +
		int64(ts.Seconds)*1_000 +
		int64(ts.Milliseconds)
}

// Duration returns the offset as a time.Duration.
func (ts Timestamp) Duration() time.Duration {
	return time.Duration(ts.TotalMilliseconds()) * time.Millisecond
}

// SecondsString returns the offset as fractional seconds ("3723.500"), the form ffmpeg's -ss accepts.
func (ts Timestamp) SecondsString() string {
	ms := ts.TotalMilliseconds()
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

// String formats the offset as an SRT timestamp, HH:MM:SS,mmm.
func (ts Timestamp) String() string {
	n := FromDuration(ts.Duration())
	return fmt.Sprintf("%02d:%02d:%02d,%03d", n.Hours, n.Minutes, n.Seconds, n.Milliseconds)
}

// FromDuration splits d into normalised fields. Negative durations clamp to zero.
func FromDuration(d time.Duration) Timestamp {
	ms := max(d.Milliseconds(), 0)
	return Timestamp{
		Hours:        int(ms / 3_600_000),
		Minutes:      int(ms / 60_000 % 60),
		Seconds:      int(ms / 1_000 % 60),
		Milliseconds: int(ms % 1_000),
	}
}

// ParseTimestamp accepts an SRT-style "HH:MM:SS,mmm" (a '.' separator and
// missing hours or milliseconds are tolerated) or plain seconds such as "12.5".
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}

	if !strings.Contains(s, ":") {
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil || secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
		}
		return FromDuration(time.Duration(math.Round(secs * 1000)) * time.Millisecond), nil
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q (want HH:MM:SS,mmm)", s)
	}
	groups := []string{m[1], m[2], m[3], m[4]}
	if groups[0] == "" {
		groups[0] = "0"
	}
	if groups[3] == "" {
		groups[3] = "0"
	}
	return timestampFromMatch(groups), nil
}

var clockRe = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{1,2})(?:[,.](\d{1,3}))?$`)
