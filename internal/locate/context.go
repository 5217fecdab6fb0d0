package locate

// scanState is the classifier's current region while scanning source text.
type scanState int

const (
	inCode scanState = iota
	inString
	inLineComment
	inBlockComment
)

// IsCodeContext reports whether byteOffset lies in plain code, as opposed to
// a string literal, a line comment, or a (possibly nested) block comment.
// It scans from the start of text and stops the instant the cursor reaches
// the offset, so the answer reflects the state at exactly that point. One
// linear pass per call; inputs are single source files, so re-scanning per
// candidate offset is fine.
func IsCodeContext(text string, byteOffset int) bool {
	state := inCode
	depth := 0

	for i := 0; i < len(text) && i < byteOffset; i++ {
		c := text[i]

		switch state {
		case inCode:
			switch {
			case c == '"':
				state = inString
			case c == '/' && i+1 < len(text) && text[i+1] == '/':
				state = inLineComment
				i++
			case c == '/' && i+1 < len(text) && text[i+1] == '*':
				state = inBlockComment
				depth = 1
				i++
			}

		case inString:
			switch c {
			case '\\':
				// Escape: the next byte is consumed unconditionally.
				i++
			case '"':
				state = inCode
			}

		case inLineComment:
			if c == '\n' {
				state = inCode
			}

		case inBlockComment:
			switch {
			case c == '/' && i+1 < len(text) && text[i+1] == '*':
				depth++
				i++
			case c == '*' && i+1 < len(text) && text[i+1] == '/':
				depth--
				i++
				if depth == 0 {
					state = inCode
				}
			}
		}
	}

	return state == inCode
}
