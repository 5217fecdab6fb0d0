package locate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"rab/internal/errors"
	"rab/internal/protocol"
)

// Symbol finds the Nth qualifying occurrence of symbol inside the first match
// of snippet within fileText and returns its position. A match qualifies when
// it is a whole word (no identifier character on either side) and sits in
// plain code per the classifier. The occurrence is 1-based; failures report
// the found-vs-requested counts so the caller can correct the anchor.
func Symbol(fileText, symbol, snippet string, occurrence int) (protocol.Position, error) {
	if occurrence < 1 {
		occurrence = 1
	}

	window := strings.Index(fileText, snippet)
	if window < 0 {
		return protocol.Position{}, errors.Newf(errors.SnippetNotFound,
			"code snippet not found in file: %q", truncate(snippet, 80))
	}

	body := fileText[window : window+len(snippet)]
	found := 0

	for from := 0; ; {
		rel := strings.Index(body[from:], symbol)
		if rel < 0 {
			break
		}
		at := from + rel
		abs := window + at

		if isWholeWord(body, at, len(symbol)) && IsCodeContext(fileText, abs) {
			found++
			if found == occurrence {
				return PositionFor(fileText, abs), nil
			}
		}

		from = at + 1
	}

	return protocol.Position{}, errors.Newf(errors.OccurrenceNotFound,
		"symbol %q: found %d occurrence(s) in snippet, requested %d",
		symbol, found, occurrence)
}

// BlockRange finds the Nth occurrence of snippet itself within fileText and
// returns its start and end positions. Used by operations that act on a whole
// block rather than one symbol inside it.
func BlockRange(fileText, snippet string, occurrence int) (start, end protocol.Position, err error) {
	if occurrence < 1 {
		occurrence = 1
	}

	found := 0
	for from := 0; ; {
		rel := strings.Index(fileText[from:], snippet)
		if rel < 0 {
			break
		}
		at := from + rel

		found++
		if found == occurrence {
			return PositionFor(fileText, at), PositionFor(fileText, at+len(snippet)), nil
		}

		from = at + 1
	}

	if found == 0 {
		return protocol.Position{}, protocol.Position{}, errors.Newf(errors.SnippetNotFound,
			"code snippet not found in file: %q", truncate(snippet, 80))
	}
	return protocol.Position{}, protocol.Position{}, errors.Newf(errors.OccurrenceNotFound,
		"snippet: found %d occurrence(s), requested %d", found, occurrence)
}

// isWholeWord checks the runes adjacent to text[at:at+length]: neither may be
// an identifier character. Both sides are tested independently; a match at
// the start or end of the text passes on that side.
func isWholeWord(text string, at, length int) bool {
	if at > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:at])
		if isIdentRune(before) {
			return false
		}
	}
	if at+length < len(text) {
		after, _ := utf8.DecodeRuneInString(text[at+length:])
		if isIdentRune(after) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// PositionMarker renders a caret line pointing at charIdx within lineContent,
// for error messages and request echoes. Tabs are widened to four spaces so
// the caret lines up visually.
func PositionMarker(lineContent string, charIdx uint32) string {
	var marker strings.Builder
	count := uint32(0)

	for _, r := range lineContent {
		if count == charIdx {
			marker.WriteByte('^')
			return marker.String()
		}
		if r == '\t' {
			marker.WriteString("    ")
		} else {
			marker.WriteByte(' ')
		}
		count++
	}

	for count < charIdx {
		marker.WriteByte(' ')
		count++
	}
	marker.WriteByte('^')
	return marker.String()
}
