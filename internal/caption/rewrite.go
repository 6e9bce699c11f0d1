// Package caption rewrites the colour tags embedded in cue text.
//
// Only the literal <font color="#RRGGBB"> form is recognised. Anything else in
// the cue (other tags, attributes, nesting) passes through as plain text.
package caption

import (
	"regexp"

	"github.com/jmylchreest/subtinct/internal/colour"
)

// fontColorRe matches one colour tag and captures its six hex digits.
var fontColorRe = regexp.MustCompile(`<font color="#([0-9a-fA-F]{6})">`)

// Rewriter applies a brightness correction to cue text.
type Rewriter struct {
	// Default is the colour given to cues that carry no colour tag.
	Default colour.RGB
}

// NewRewriter creates a Rewriter that wraps untagged cues in def.
func NewRewriter(def colour.RGB) *Rewriter {
	return &Rewriter{Default: def}
}

// Rewrite shifts every colour tag in text by delta, or wraps the whole text in
// a tag of the default colour shifted by delta when it has none.
//
// Each call applies the delta once more: rewriting already corrected text
// corrects it again.
func (r *Rewriter) Rewrite(text string, delta int) string {
	if !fontColorRe.MatchString(text) {
		return OpenTag(r.Default.Shift(delta)) + text + CloseTag
	}

	return fontColorRe.ReplaceAllStringFunc(text, func(tag string) string {
		hex := fontColorRe.FindStringSubmatch(tag)[1]
		// The pattern only admits hex digits, so ParseHex cannot fail here.
		c, _ := colour.ParseHex(hex)
		return OpenTag(c.Shift(delta))
	})
}

// CloseTag ends a colour tag.
const CloseTag = "</font>"

// OpenTag renders the opening colour tag for c.
func OpenTag(c colour.RGB) string {
	return `<font color="` + c.Hex() + `">`
}

// Tags returns the colours of every tag in text, in order.
func Tags(text string) []colour.RGB {
	matches := fontColorRe.FindAllStringSubmatch(text, -1)
	tags := make([]colour.RGB, 0, len(matches))
	for _, m := range matches {
		c, _ := colour.ParseHex(m[1])
		tags = append(tags, c)
	}
	return tags
}
