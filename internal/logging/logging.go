// Package logging builds the structured logger shared by every subtinct component.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"
)

// Name is the root logger name.
const Name = "subtinct"

// Options controls logger construction.
type Options struct {
	// Verbose lowers the level to debug; Trace lowers it further.
	Verbose bool
	Trace   bool

	// Quiet raises the level to error. It wins over Verbose.
	Quiet bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// JSON forces JSON lines. When unset, JSON is used only if Output is not a terminal.
	JSON *bool
}

// New creates the root logger. Terminals get coloured human-readable lines,
// any other output gets JSON.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	tty := isTerminal(out)
	jsonFormat := !tty
	if opts.JSON != nil {
		jsonFormat = *opts.JSON
	}

	color := hclog.ColorOff
	if tty && !jsonFormat {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level(opts),
		Output:     out,
		JSONFormat: jsonFormat,
		Color:      color,
	})
}

func level(opts Options) hclog.Level {
	switch {
	case opts.Quiet:
		return hclog.Error
	case opts.Trace:
		return hclog.Trace
	case opts.Verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// isTerminal reports whether w is a file descriptor attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - file descriptors fit in int
}
