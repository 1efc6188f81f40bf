package discord

import (
	"strings"
	"unicode/utf8"
)

// SplitBlocks fits formatter blocks into messages of at most limit
// characters. Blocks are kept whole when they fit; oversized blocks are
// split at line boundaries only, never mid-line. A single line longer
// than the limit is truncated rather than split, since breaking it
// would corrupt a player row.
func SplitBlocks(blocks []string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	var messages []string
	for _, block := range blocks {
		if block == "" {
			continue
		}
		if len(block) <= limit {
			messages = append(messages, block)
			continue
		}

		var b strings.Builder
		for _, line := range strings.Split(block, "\n") {
			if len(line) > limit {
				line = truncateRunes(line, limit)
			}
			// +1 for the joining newline.
			if b.Len() > 0 && b.Len()+1+len(line) > limit {
				messages = append(messages, b.String())
				b.Reset()
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if b.Len() > 0 {
			messages = append(messages, b.String())
		}
	}
	return messages
}

// truncateRunes cuts s to at most limit bytes without splitting a
// multi-byte rune.
func truncateRunes(s string, limit int) string {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
