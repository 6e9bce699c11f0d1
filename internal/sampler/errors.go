package sampler

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/subtinct/internal/subtitle"
)

// Failure kinds. Use errors.Is against an *Error to classify it.
var (
	ErrProcessSpawn = errors.New("decoder could not be started")
	ErrProcessExit  = errors.New("decoder exited unsuccessfully")
	ErrParse        = errors.New("decoder output is not a brightness value")
	ErrNoFrame      = errors.New("no decodable frame")
)

// Error describes a failed sample.
type Error struct {
	Kind  error
	Video string
	At    subtitle.Timestamp
	// Detail is a short excerpt of decoder output, if any.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("sample %s at %s: %v", e.Video, e.At, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
