package sampler

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

var testAt = subtitle.Timestamp{Hours: 1, Minutes: 2, Seconds: 3, Milliseconds: 500}

const (
	keyframeStdout = "frame:0    pts:3723500 pts_time:3723.5\nlavfi.signalstats.YAVG=93.125\n"
	fullDecodeLog  = "Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':\n" +
		"  Stream #0:0: Video: h264\n" +
		"[Parsed_metadata_2 @ 0x55d1] frame:0    pts:3723500 pts_time:3723.5\n" +
		"[Parsed_metadata_2 @ 0x55d1] lavfi.signalstats.YAVG=200.000000\n" +
		"[Parsed_metadata_2 @ 0x55d1] lavfi.signalstats.YAVG=12.000000\n"
)

func TestKeyframeSamplerArgs(t *testing.T) {
	s := NewKeyframeSampler(Options{})
	args := s.Args("in.mp4", testAt)

	ss := slices.Index(args, "-ss")
	in := slices.Index(args, "-i")
	if ss < 0 || in < 0 || ss > in {
		t.Fatalf("Expected input-side -ss before -i, got %v", args)
	}
	if args[ss+1] != "3723.500" {
		t.Errorf("Expected seek 3723.500, got %q", args[ss+1])
	}
	if !slices.Contains(args, "-noaccurate_seek") {
		t.Errorf("Expected -noaccurate_seek in %v", args)
	}
	if s.Strategy() != NearestKeyframe {
		t.Errorf("Expected NearestKeyframe, got %v", s.Strategy())
	}
}

func TestFullDecodeSamplerArgs(t *testing.T) {
	s := NewFullDecodeSampler(Options{})
	args := s.Args("in.mp4", testAt)

	ss := slices.Index(args, "-ss")
	in := slices.Index(args, "-i")
	if ss < 0 || in < 0 || ss < in {
		t.Fatalf("Expected output-side -ss after -i, got %v", args)
	}
	if args[ss+1] != "3723.500" {
		t.Errorf("Expected seek 3723.500, got %q", args[ss+1])
	}
	if slices.Contains(args, "-noaccurate_seek") {
		t.Errorf("Did not expect -noaccurate_seek in %v", args)
	}
	if s.Strategy() != FullDecode {
		t.Errorf("Expected FullDecode, got %v", s.Strategy())
	}
}

func TestSampleSuccess(t *testing.T) {
	tests := []struct {
		name   string
		newS   func(Options) Sampler
		runner *MockProcessRunner
		want   Brightness
	}{
		{
			name:   "keyframe metadata line",
			newS:   func(o Options) Sampler { return NewKeyframeSampler(o) },
			runner: NewOutputMockProcessRunner(keyframeStdout, ""),
			want:   93.125,
		},
		{
			name:   "keyframe bare token",
			newS:   func(o Options) Sampler { return NewKeyframeSampler(o) },
			runner: NewOutputMockProcessRunner("127.5\n", ""),
			want:   127.5,
		},
		{
			name:   "full decode takes first matching line",
			newS:   func(o Options) Sampler { return NewFullDecodeSampler(o) },
			runner: NewOutputMockProcessRunner("", fullDecodeLog),
			want:   200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.newS(Options{Path: "/opt/ffmpeg", Runner: tt.runner})

			got, err := s.Sample(context.Background(), "in.mp4", testAt)
			if err != nil {
				t.Fatalf("Sample failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Sample() = %v, want %v", got, tt.want)
			}
			if tt.runner.CallCount() != 1 {
				t.Errorf("Expected 1 process, got %d", tt.runner.CallCount())
			}
			if tt.runner.LastPath() != "/opt/ffmpeg" {
				t.Errorf("Expected path /opt/ffmpeg, got %q", tt.runner.LastPath())
			}
		})
	}
}

func TestSampleErrors(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		runner   *MockProcessRunner
		wantKind error
	}{
		{
			name:     "spawn failure",
			strategy: NearestKeyframe,
			runner:   NewSpawnErrorMockProcessRunner("exec: \"ffmpeg\": executable file not found in $PATH"),
			wantKind: ErrProcessSpawn,
		},
		{
			name:     "non-zero exit",
			strategy: FullDecode,
			runner:   NewExitMockProcessRunner(1, "in.mp4: Invalid data found when processing input\n"),
			wantKind: ErrProcessExit,
		},
		{
			name:     "no video stream",
			strategy: NearestKeyframe,
			runner:   NewExitMockProcessRunner(1, "Stream map '0:v:0' matches no streams.\n"),
			wantKind: ErrNoFrame,
		},
		{
			name:     "past end of stream",
			strategy: FullDecode,
			runner:   NewOutputMockProcessRunner("", "Input #0, mov\n"),
			wantKind: ErrNoFrame,
		},
		{
			name:     "keyframe garbage value",
			strategy: NearestKeyframe,
			runner:   NewOutputMockProcessRunner("lavfi.signalstats.YAVG=abc\n", ""),
			wantKind: ErrParse,
		},
		{
			name:     "full decode garbage value",
			strategy: FullDecode,
			runner:   NewOutputMockProcessRunner("", "lavfi.signalstats.YAVG=\n"),
			wantKind: ErrParse,
		},
		{
			name:     "out of range value",
			strategy: NearestKeyframe,
			runner:   NewOutputMockProcessRunner("lavfi.signalstats.YAVG=900\n", ""),
			wantKind: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.strategy, Options{Runner: tt.runner})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			_, err = s.Sample(context.Background(), "in.mp4", testAt)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("Expected %v, got %v", tt.wantKind, err)
			}

			var sampleErr *Error
			if !errors.As(err, &sampleErr) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if sampleErr.At != testAt || sampleErr.Video != "in.mp4" {
				t.Errorf("Expected error to name video and timestamp, got %+v", sampleErr)
			}
		})
	}
}

func TestSampleTimeout(t *testing.T) {
	runner := NewTimeoutMockProcessRunner()
	s := NewKeyframeSampler(Options{Runner: runner, Timeout: 20 * time.Millisecond})

	_, err := s.Sample(context.Background(), "in.mp4", testAt)
	if !errors.Is(err, ErrProcessExit) {
		t.Errorf("Expected ErrProcessExit, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded in chain, got %v", err)
	}
}

func TestNewUnknownStrategy(t *testing.T) {
	if _, err := New(Strategy(42), Options{}); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "keyframe", want: NearestKeyframe},
		{in: "EXACT", want: FullDecode},
		{in: "full-decode", want: FullDecode},
		{in: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFixed(t *testing.T) {
	s := Fixed(200)
	got, err := s.Sample(context.Background(), "any", subtitle.Timestamp{})
	if err != nil || got != 200 {
		t.Errorf("Fixed(200).Sample() = %v, %v", got, err)
	}
}
