package measure

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapLines returns the number of display lines the text occupies when
// greedily word-wrapped at the given column width. Width is measured in
// terminal cells (runewidth-aware), so CJK and other wide runes count
// double. Words longer than the column width are hard-broken.
//
// A blank paragraph still occupies one line. Width values below 1 are
// treated as 1.
func WrapLines(text string, width int) int {
	if width < 1 {
		width = 1
	}

	lines := 0
	for _, para := range strings.Split(text, "\n") {
		lines += wrapParagraph(para, width)
	}
	if lines < 1 {
		lines = 1
	}
	return lines
}

func wrapParagraph(para string, width int) int {
	words := strings.Fields(para)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	lineWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)

		// Hard-break words wider than the column: the word starts on a fresh
		// line and occupies ceil(w/width) lines.
		if w > width {
			if lineWidth > 0 {
				lines++
			}
			lines += (w - 1) / width
			lineWidth = w % width
			if lineWidth == 0 {
				lineWidth = width
			}
			continue
		}

		switch {
		case lineWidth == 0:
			lineWidth = w
		case lineWidth+1+w <= width:
			lineWidth += 1 + w
		default:
			lines++
			lineWidth = w
		}
	}
	return lines
}
