package textextract

import (
	"strings"
	"unicode"
)

const minRunLength = 4

// extractDOC recovers text from a legacy binary .doc file by collecting the
// printable character runs. Crude, but enough for the line-oriented rules;
// a run shorter than minRunLength is treated as binary noise.
func extractDOC(data []byte) string {
	var b strings.Builder
	var run []rune

	flush := func() {
		if len(run) >= minRunLength {
			b.WriteString(string(run))
			b.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, c := range string(data) {
		if c == unicode.ReplacementChar {
			flush()
			continue
		}
		if unicode.IsPrint(c) || c == '\t' {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()

	return b.String()
}
