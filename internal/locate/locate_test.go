package locate

import (
	"strings"
	"testing"

	"rab/internal/errors"
)

func TestPositionForLineStarts(t *testing.T) {
	text := "first\nsecond\nthird\n"

	// Offsets right after each newline are character 0 of the next line.
	for i, offset := range []int{0, 6, 13} {
		pos := PositionFor(text, offset)
		if pos.Line != uint32(i) || pos.Character != 0 {
			t.Errorf("offset %d: expected (%d, 0), got (%d, %d)", offset, i, pos.Line, pos.Character)
		}
	}
}

func TestPositionForASCII(t *testing.T) {
	text := "abc\ndefg\n"

	// Within an ASCII line, character count equals byte offset in the line.
	pos := PositionFor(text, 6) // the 'f'
	if pos.Line != 1 || pos.Character != 2 {
		t.Errorf("expected (1, 2), got (%d, %d)", pos.Line, pos.Character)
	}
}

func TestPositionForMultiByte(t *testing.T) {
	// "привет" is six 2-byte scalars; each is one UTF-16 code unit.
	text := "привет x"
	offset := strings.Index(text, "x")
	if offset != 13 { // 6*2 bytes + 1 space
		t.Fatalf("test setup: expected byte offset 13, got %d", offset)
	}

	pos := PositionFor(text, offset)
	if pos.Line != 0 || pos.Character != 7 {
		t.Errorf("expected character 7 (UTF-16 units), got (%d, %d)", pos.Line, pos.Character)
	}
}

func TestPositionForAstralPlane(t *testing.T) {
	// An emoji outside the BMP takes a surrogate pair: two UTF-16 units.
	text := "a\U0001F600b"
	offset := strings.Index(text, "b")

	pos := PositionFor(text, offset)
	if pos.Character != 3 {
		t.Errorf("expected character 3 (1 + surrogate pair), got %d", pos.Character)
	}
}

func TestIsCodeContext(t *testing.T) {
	text := "target\n" +
		"// target in line comment\n" +
		"let s = \"target in string\";\n" +
		"/* outer /* target in nested */ still comment */\n" +
		"target_again\n"

	offsets := make(map[string]int)
	for name, marker := range map[string]string{
		"code":    "target\n",
		"comment": "target in line",
		"string":  "target in string",
		"nested":  "target in nested",
		"after":   "target_again",
	} {
		offsets[name] = strings.Index(text, marker)
	}

	if !IsCodeContext(text, offsets["code"]) {
		t.Error("plain code should classify as code")
	}
	if IsCodeContext(text, offsets["comment"]) {
		t.Error("line comment should not classify as code")
	}
	if IsCodeContext(text, offsets["string"]) {
		t.Error("string literal should not classify as code")
	}
	if IsCodeContext(text, offsets["nested"]) {
		t.Error("nested block comment should not classify as code")
	}
	if !IsCodeContext(text, offsets["after"]) {
		t.Error("code after a closed block comment should classify as code")
	}
}

func TestIsCodeContextStringEscapes(t *testing.T) {
	// The escaped quote does not close the string; x is still inside it.
	text := `let s = "a\"x";` + "\ny"
	if IsCodeContext(text, strings.Index(text, "x")) {
		t.Error("offset after an escaped quote should still be in-string")
	}
	if !IsCodeContext(text, strings.Index(text, "y")) {
		t.Error("offset after the closing quote should be code")
	}
}

func TestIsCodeContextNestedBlockDepth(t *testing.T) {
	text := "/* a /* b */ c */ d"
	if IsCodeContext(text, strings.Index(text, "c")) {
		t.Error("depth 1 after inner close should still be comment")
	}
	if !IsCodeContext(text, strings.Index(text, "d")) {
		t.Error("after the outer close should be code")
	}
}

func TestSymbolBasic(t *testing.T) {
	file := "fn main() {\n    let x = 1;\n    println!(\"{}\", x);\n}\n"

	pos, err := Symbol(file, "x", "let x = 1;", 1)
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if pos.Line != 1 || pos.Character != 8 {
		t.Errorf("expected (1, 8), got (%d, %d)", pos.Line, pos.Character)
	}
}

func TestSymbolOccurrenceCountMismatch(t *testing.T) {
	file := "fn main() {\n    let x = 1;\n}\n"

	_, err := Symbol(file, "x", "let x = 1;", 2)
	if err == nil {
		t.Fatal("expected an occurrence error")
	}
	if !errors.HasCode(err, errors.OccurrenceNotFound) {
		t.Errorf("expected OCCURRENCE_NOT_FOUND, got %v", err)
	}
	if !strings.Contains(err.Error(), "found 1") {
		t.Errorf("error should name the actual count, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "requested 2") {
		t.Errorf("error should name the requested count, got %q", err.Error())
	}
}

func TestSymbolSnippetNotFound(t *testing.T) {
	_, err := Symbol("fn main() {}\n", "main", "does_not_exist", 1)
	if !errors.HasCode(err, errors.SnippetNotFound) {
		t.Errorf("expected SNIPPET_NOT_FOUND, got %v", err)
	}
}

func TestSymbolRejectsPartialIdentifiers(t *testing.T) {
	file := "fn go() {\n    rust_server.serve(请求);\n}\n"
	snippet := "rust_server.serve(请求);"

	pos, err := Symbol(file, "serve", snippet, 1)
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}

	// Only the standalone .serve( occurrence qualifies, never the substring
	// inside rust_server.
	wantOffset := strings.Index(file, ".serve(") + 1
	want := PositionFor(file, wantOffset)
	if pos != want {
		t.Errorf("expected %+v, got %+v", want, pos)
	}

	// And there is exactly one qualifying match.
	if _, err := Symbol(file, "serve", snippet, 2); !errors.HasCode(err, errors.OccurrenceNotFound) {
		t.Errorf("expected OCCURRENCE_NOT_FOUND for occurrence 2, got %v", err)
	}
}

func TestSymbolSkipsCommentAndStringMatches(t *testing.T) {
	file := "// serve nothing\n" +
		"let banner = \"serve\";\n" +
		"serve();\n"

	pos, err := Symbol(file, "serve", file, 1)
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if pos.Line != 2 || pos.Character != 0 {
		t.Errorf("expected the code occurrence at (2, 0), got (%d, %d)", pos.Line, pos.Character)
	}
}

func TestSymbolEndToEnd(t *testing.T) {
	file := "fn add(a: i32, b: i32) -> i32 {\n    a + b\n}\n"

	pos, err := Symbol(file, "add", file, 1)
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if pos.Line != 0 || pos.Character != 3 {
		t.Errorf("expected (0, 3), got (%d, %d)", pos.Line, pos.Character)
	}
}

func TestBlockRange(t *testing.T) {
	file := "before\nlet x = 1;\nmiddle\nlet x = 1;\nafter\n"

	start, end, err := BlockRange(file, "let x = 1;", 2)
	if err != nil {
		t.Fatalf("BlockRange: %v", err)
	}
	if start.Line != 3 || start.Character != 0 {
		t.Errorf("expected start (3, 0), got (%d, %d)", start.Line, start.Character)
	}
	if end.Line != 3 || end.Character != 10 {
		t.Errorf("expected end (3, 10), got (%d, %d)", end.Line, end.Character)
	}

	_, _, err = BlockRange(file, "let x = 1;", 3)
	if !errors.HasCode(err, errors.OccurrenceNotFound) {
		t.Errorf("expected OCCURRENCE_NOT_FOUND, got %v", err)
	}

	_, _, err = BlockRange(file, "missing", 1)
	if !errors.HasCode(err, errors.SnippetNotFound) {
		t.Errorf("expected SNIPPET_NOT_FOUND, got %v", err)
	}
}

func TestPositionMarker(t *testing.T) {
	if got := PositionMarker("let x = 1;", 4); got != "    ^" {
		t.Errorf("expected %q, got %q", "    ^", got)
	}

	// Tabs widen to four spaces.
	if got := PositionMarker("\tx", 1); got != "    ^" {
		t.Errorf("expected tab-widened marker, got %q", got)
	}

	// Past end of line: pad with spaces.
	if got := PositionMarker("ab", 4); got != "    ^" {
		t.Errorf("expected padded marker, got %q", got)
	}
}
