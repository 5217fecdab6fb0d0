// Package locate resolves human-supplied (symbol, snippet, occurrence)
// anchors into exact protocol positions in a source file. Callers cannot
// reliably supply raw coordinates, so every position-taking tool goes through
// this package first.
package locate

import (
	"strings"

	"rab/internal/protocol"
)

// PositionFor converts a byte offset in UTF-8 text into a protocol position.
// The line is the number of newlines strictly before the offset; the
// character is the UTF-16 length of the text from the start of that line to
// the offset. A two-byte UTF-8 scalar such as a Cyrillic letter therefore
// advances the character count by one, not two.
func PositionFor(text string, byteOffset int) protocol.Position {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}

	prefix := text[:byteOffset]
	line := strings.Count(prefix, "\n")

	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	character := utf16Len(text[lineStart:byteOffset])

	return protocol.Position{Line: uint32(line), Character: uint32(character)}
}

// utf16Len returns the number of UTF-16 code units needed to encode s.
// Runes beyond the basic multilingual plane take a surrogate pair.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
