package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// timingLineRe matches "00:00:01,234 --> 00:00:03,456". A '.' is accepted as the
// millisecond separator and anything after the end time (position hints) is ignored.
var timingLineRe = regexp.MustCompile(`^\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`)

const utf8BOM = "\ufeff"

// ReadFile parses the SRT file at path.
func ReadFile(path string) (*Track, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified caption path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrCueStore, path, err)
	}
	defer f.Close()

	track, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return track, nil
}

// Parse reads an SRT track. Blocks without a timing line are rejected; cue
// indices are taken from the file but the track is renumbered so they are
// contiguous.
func Parse(r io.Reader) (*Track, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	track := &Track{}
	var block []string
	lineNo := 0
	blockStart := 0

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrCueStore, blockStart, err)
		}
		track.Cues = append(track.Cues, cue)
		block = block[:0]
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(block) == 0 {
			blockStart = lineNo
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read failed: %w", ErrCueStore, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	track.Renumber()
	return track, nil
}

func parseBlock(lines []string) (Cue, error) {
	var cue Cue

	// The numeric index line is optional; some encoders omit it.
	timing := 0
	if !timingLineRe.MatchString(lines[0]) {
		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
			return cue, fmt.Errorf("expected cue index, got %q", lines[0])
		}
		timing = 1
	}
	if timing >= len(lines) {
		return cue, fmt.Errorf("cue has no timing line")
	}

	m := timingLineRe.FindStringSubmatch(lines[timing])
	if m == nil {
		return cue, fmt.Errorf("invalid timing line %q", lines[timing])
	}

	cue.Start = timestampFromMatch(m[1:5])
	cue.End = timestampFromMatch(m[5:9])
	cue.Text = strings.Join(lines[timing+1:], "\n")
	return cue, nil
}

// timestampFromMatch converts four captured digit groups. The regexp guarantees
// they are decimal, so Atoi cannot fail short of overflow.
func timestampFromMatch(groups []string) Timestamp {
	n := make([]int, len(groups))
	for i, g := range groups {
		n[i], _ = strconv.Atoi(g)
	}
	// "1,5" means 500ms, not 5ms.
	ms := groups[3] + strings.Repeat("0", 3-len(groups[3]))
	n[3], _ = strconv.Atoi(ms)
	return Timestamp{Hours: n[0], Minutes: n[1], Seconds: n[2], Milliseconds: n[3]}
}

// Format writes track in SRT form using the cues' own indices.
func Format(w io.Writer, track *Track) error {
	bw := bufio.NewWriter(w)
	for i, cue := range track.Cues {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", cue.Index, cue.Start, cue.End, cue.Text)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write failed: %w", ErrCueStore, err)
	}
	return nil
}

// WriteFile serialises track to path. The file is written to a temporary
// sibling first and renamed into place so a failed run never truncates output.
func WriteFile(path string, track *Track) error {
	var buf bytes.Buffer
	if err := Format(&buf, track); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", ErrCueStore, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to write %s: %w", ErrCueStore, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", ErrCueStore, path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: failed to chmod %s: %w", ErrCueStore, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrCueStore, path, err)
	}
	return nil
}
