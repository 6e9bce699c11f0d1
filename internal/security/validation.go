// Package security validates user-supplied paths before they reach the decoder.
package security

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// remoteSchemes are the URL schemes passed to ffmpeg untouched.
var remoteSchemes = []string{"http", "https"}

// ValidateVideoPath checks that path names something ffmpeg can be pointed at:
// an existing regular file or an HTTP(S) URL. "-" is rejected because the
// decoder would read stdin, which is a new, empty stream on every invocation.
func ValidateVideoPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty video path")
	}
	if path == "-" {
		return fmt.Errorf("video cannot be read from stdin")
	}

	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		for _, s := range remoteSchemes {
			if strings.EqualFold(u.Scheme, s) {
				if u.Host == "" {
					return fmt.Errorf("video URL must have a hostname: %s", path)
				}
				return nil
			}
		}
		return fmt.Errorf("unsupported video URL scheme %q (only http:// and https:// allowed)", u.Scheme)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("video file not found: %s", path)
		}
		return fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	return nil
}
