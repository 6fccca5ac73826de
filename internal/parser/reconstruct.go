package parser

import (
	"math"
	"regexp"
	"strings"
)

// TextFragment is one positioned run of text from a PDF content stream.
// Y is the vertical translation of the run's baseline in document space.
type TextFragment struct {
	Text string
	Y    float64
}

// Vertical-gap thresholds, in PDF coordinate units. A small baseline jump is
// a new line; a large one is a new paragraph. Empirical values that hold up
// for single-column body text; rotated or multi-column layouts will
// reconstruct imperfectly and that is accepted.
const (
	lineGap = 5
	paraGap = 12
)

// ReconstructPage reduces a page's ordered fragment list to a single string
// approximating reading order. Fragments are never reordered: emission order
// is trusted, and only the vertical gap between consecutive baselines decides
// where line and paragraph breaks go. A fragment ending in "-" gets no
// trailing space, so hyphenated word splits stay adjacent for CleanText to
// rejoin.
func ReconstructPage(frags []TextFragment) string {
	var b strings.Builder
	var lastY float64
	haveY := false

	for i, f := range frags {
		if haveY {
			gap := math.Abs(lastY - f.Y)
			if gap > lineGap {
				b.WriteByte('\n')
				if gap > paraGap {
					b.WriteByte('\n')
				}
			}
		}
		b.WriteString(f.Text)
		if i < len(frags)-1 && !strings.HasSuffix(f.Text, "-") {
			b.WriteByte(' ')
		}
		lastY = f.Y
		haveY = true
	}

	return b.String()
}

var (
	multiSpaceRe = regexp.MustCompile(` {2,}`)
	hyphenJoinRe = regexp.MustCompile(`(\w)-\s*\n\s*(\w)`)
)

// CleanText post-processes the full concatenated document text: runs of
// spaces collapse to one, and words hyphenated across a line break are
// rejoined without the hyphen.
func CleanText(text string) string {
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = hyphenJoinRe.ReplaceAllString(text, "$1$2")
	return text
}
