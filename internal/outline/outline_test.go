//go:build cgo

package outline

import (
	"context"
	"testing"
)

const sampleSource = `struct Point {
    x: i32,
    y: i32,
}

impl Point {
    fn new(x: i32, y: i32) -> Self {
        Point { x, y }
    }
}

trait Shape {
    fn area(&self) -> f64;
}

fn main() {
    let p = Point::new(1, 2);
}
`

func findSymbol(symbols []Symbol, name, kind string) *Symbol {
	for i := range symbols {
		if symbols[i].Name == name && symbols[i].Kind == kind {
			return &symbols[i]
		}
	}
	return nil
}

func TestExtractSource(t *testing.T) {
	e := NewExtractor()
	symbols, err := e.ExtractSource(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}

	if s := findSymbol(symbols, "Point", "struct"); s == nil {
		t.Error("missing struct Point")
	} else if s.Line != 1 {
		t.Errorf("Point line = %d", s.Line)
	}

	if s := findSymbol(symbols, "Point", "impl"); s == nil {
		t.Error("missing impl Point")
	}

	if s := findSymbol(symbols, "new", "method"); s == nil {
		t.Error("missing method new")
	} else if s.Container != "Point" {
		t.Errorf("new container = %q", s.Container)
	}

	if s := findSymbol(symbols, "Shape", "trait"); s == nil {
		t.Error("missing trait Shape")
	}
	if s := findSymbol(symbols, "area", "method"); s == nil {
		t.Error("missing trait method area")
	}

	if s := findSymbol(symbols, "main", "function"); s == nil {
		t.Error("missing free function main")
	} else if s.Container != "" {
		t.Errorf("main should have no container, got %q", s.Container)
	}

	// Methods must not double as free functions.
	if s := findSymbol(symbols, "new", "function"); s != nil {
		t.Error("impl method leaked into free functions")
	}
}

func TestExtractSignature(t *testing.T) {
	e := NewExtractor()
	symbols, err := e.ExtractSource(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("ExtractSource: %v", err)
	}

	s := findSymbol(symbols, "new", "method")
	if s == nil {
		t.Fatal("missing method new")
	}
	if s.Signature != "fn new(x: i32, y: i32) -> Self" {
		t.Errorf("signature = %q", s.Signature)
	}
}
