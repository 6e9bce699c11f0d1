// Package subtitle reads and writes SRT caption tracks.
//
// It is the cue store for the correction pipeline: it yields an ordered
// sequence of cues and serialises the mutated sequence back to disk.
package subtitle

import (
	"errors"
	"time"
)

// ErrCueStore wraps every failure to read, parse or write a caption track.
var ErrCueStore = errors.New("cue store")

// Cue is one timed caption entry.
type Cue struct {
	Index int
	Start Timestamp
	End   Timestamp
	Text  string
}

// Track is an ordered sequence of cues.
type Track struct {
	Cues []Cue
}

// Len returns the number of cues in the track.
func (t *Track) Len() int {
	return len(t.Cues)
}

// Renumber assigns contiguous indices 1..N in the current order.
func (t *Track) Renumber() {
	for i := range t.Cues {
		t.Cues[i].Index = i + 1
	}
}

// Prepend inserts c before every existing cue and renumbers the track.
func (t *Track) Prepend(c Cue) {
	t.Cues = append([]Cue{c}, t.Cues...)
	t.Renumber()
}

// NewCue builds a cue spanning [start, end) with the given text.
// The index is left at zero; it is assigned when the cue joins a track.
func NewCue(start, end time.Duration, text string) Cue {
	return Cue{
		Start: FromDuration(start),
		End:   FromDuration(end),
		Text:  text,
	}
}
