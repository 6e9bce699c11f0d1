package pipeline

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a cue's frame cannot be sampled.
type Policy int

const (
	// FailFast aborts the run on the first sampling error. This is the default.
	FailFast Policy = iota

	// SubstituteDefault treats the frame as midpoint brightness, logs a
	// warning and carries on.
	SubstituteDefault
)

// String returns the flag/config spelling of the policy.
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail"
	case SubstituteDefault:
		return "substitute"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "fail" or "substitute" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fail", "fail-fast", "abort":
		return FailFast, nil
	case "substitute", "substitute-default", "skip":
		return SubstituteDefault, nil
	default:
		return 0, fmt.Errorf("unknown error policy %q (valid: fail, substitute)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
