package ui

import (
	"strings"
)

const glyphHeight = 5

var glyphs = map[rune][glyphHeight]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	'-': {"   ", "   ", "███", "   ", "   "},
}

// bigDigits draws s with block glyphs. Each glyph cell is repeated wide
// times horizontally. Runes without a glyph are skipped.
func bigDigits(s string, wide int) string {
	if wide < 1 {
		wide = 1
	}
	rows := make([]strings.Builder, glyphHeight)
	first := true
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			if !first {
				rows[i].WriteString(strings.Repeat(" ", wide))
			}
			for _, c := range g[i] {
				rows[i].WriteString(strings.Repeat(string(c), wide))
			}
		}
		first = false
	}

	lines := make([]string, glyphHeight)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// scaleFor maps the terminal height to a size factor, 40 rows being 1.
func scaleFor(rows int) float64 {
	return max(0.6, min(1.6, float64(rows)/40))
}
