package subtitle

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleSRT = "1\n" +
	"00:00:01,000 --> 00:00:03,500\n" +
	"Hello there\n" +
	"\n" +
	"2\n" +
	"00:00:04,250 --> 00:00:06,000\n" +
	"<font color=\"#FF0000\">Red</font> line\n" +
	"second line\n"

func TestParse(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []Cue{
		{
			Index: 1,
			Start: Timestamp{Seconds: 1},
			End:   Timestamp{Seconds: 3, Milliseconds: 500},
			Text:  "Hello there",
		},
		{
			Index: 2,
			Start: Timestamp{Seconds: 4, Milliseconds: 250},
			End:   Timestamp{Seconds: 6},
			Text:  "<font color=\"#FF0000\">Red</font> line\nsecond line",
		},
	}
	if diff := cmp.Diff(want, track.Cues); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseToleratesBOMAndCRLF(t *testing.T) {
	input := "\ufeff7\r\n00:00:01.5 --> 00:00:02.000 X1:10\r\nhi\r\n\r\n\r\n9\r\n00:00:03,000 --> 00:00:04,000\r\nbye\r\n"

	track, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if track.Len() != 2 {
		t.Fatalf("Expected 2 cues, got %d", track.Len())
	}
	if track.Cues[0].Index != 1 || track.Cues[1].Index != 2 {
		t.Errorf("Expected renumbered indices 1,2, got %d,%d", track.Cues[0].Index, track.Cues[1].Index)
	}
	if got := track.Cues[0].Start; got != (Timestamp{Seconds: 1, Milliseconds: 500}) {
		t.Errorf("Expected start 1.5s, got %+v", got)
	}
	if track.Cues[1].Text != "bye" {
		t.Errorf("Expected text 'bye', got %q", track.Cues[1].Text)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "garbage index", input: "abc\n00:00:01,000 --> 00:00:02,000\nx\n"},
		{name: "missing timing", input: "1\n"},
		{name: "bad timing", input: "1\n00:00:01 --> 00:00:02\nx\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, ErrCueStore) {
				t.Errorf("Expected ErrCueStore, got %v", err)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Format(&buf, track); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if diff := cmp.Diff(sampleSRT, buf.String()); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrependRenumbers(t *testing.T) {
	track, err := Parse(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	track.Prepend(NewCue(0, 2*time.Second, "watermark"))

	if track.Len() != 3 {
		t.Fatalf("Expected 3 cues, got %d", track.Len())
	}
	for i, cue := range track.Cues {
		if cue.Index != i+1 {
			t.Errorf("cue %d: expected index %d, got %d", i, i+1, cue.Index)
		}
	}
	if track.Cues[0].Text != "watermark" || track.Cues[1].Text != "Hello there" {
		t.Errorf("Unexpected order: %q, %q", track.Cues[0].Text, track.Cues[1].Text)
	}
	if track.Cues[0].End != (Timestamp{Seconds: 2}) {
		t.Errorf("Expected watermark end 2s, got %+v", track.Cues[0].End)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.srt")
	out := filepath.Join(dir, "out.srt")
	if err := os.WriteFile(in, []byte(sampleSRT), 0o600); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	track, err := ReadFile(in)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := WriteFile(out, track); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != sampleSRT {
		t.Errorf("Output mismatch:\n%s", cmp.Diff(sampleSRT, string(data)))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.srt"))
	if !errors.Is(err, ErrCueStore) {
		t.Errorf("Expected ErrCueStore, got %v", err)
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "out.srt"), &Track{})
	if !errors.Is(err, ErrCueStore) {
		t.Errorf("Expected ErrCueStore, got %v", err)
	}
}
