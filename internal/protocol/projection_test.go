package protocol

import (
	"encoding/json"
	"testing"
)

func TestDefinitionResponseShapes(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind DefinitionKind
	}{
		{"null", `null`, DefinitionNone},
		{"empty array", `[]`, DefinitionNone},
		{"single location", `{"uri":"file:///a.rs","range":{"start":{"line":1,"character":2},"end":{"line":1,"character":5}}}`, DefinitionSingle},
		{"location array", `[{"uri":"file:///a.rs","range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}}}]`, DefinitionArray},
		{"location links", `[{"targetUri":"file:///b.rs","targetRange":{"start":{"line":3,"character":0},"end":{"line":9,"character":1}},"targetSelectionRange":{"start":{"line":3,"character":3},"end":{"line":3,"character":8}}}]`, DefinitionLinks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp DefinitionResponse
			if err := json.Unmarshal([]byte(tt.payload), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Kind != tt.wantKind {
				t.Errorf("expected kind %d, got %d", tt.wantKind, resp.Kind)
			}
		})
	}
}

func TestSelectLocationPicksLastDeterministically(t *testing.T) {
	payload := `[
		{"uri":"file:///one.rs","range":{"start":{"line":1,"character":0},"end":{"line":1,"character":3}}},
		{"uri":"file:///two.rs","range":{"start":{"line":2,"character":0},"end":{"line":2,"character":3}}},
		{"uri":"file:///three.rs","range":{"start":{"line":3,"character":0},"end":{"line":3,"character":3}}}
	]`

	// The last element wins, every time.
	for i := 0; i < 10; i++ {
		var resp DefinitionResponse
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		loc, ok := resp.SelectLocation()
		if !ok {
			t.Fatal("expected a location")
		}
		if loc.URI != "file:///three.rs" {
			t.Fatalf("expected the last location, got %q", loc.URI)
		}
	}
}

func TestSelectLocationFromLinks(t *testing.T) {
	payload := `[
		{"targetUri":"file:///first.rs","targetRange":{"start":{"line":0,"character":0},"end":{"line":5,"character":0}},"targetSelectionRange":{"start":{"line":0,"character":3},"end":{"line":0,"character":8}}},
		{"targetUri":"file:///second.rs","targetRange":{"start":{"line":7,"character":0},"end":{"line":12,"character":0}},"targetSelectionRange":{"start":{"line":7,"character":3},"end":{"line":7,"character":8}}}
	]`

	var resp DefinitionResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	loc, ok := resp.SelectLocation()
	if !ok {
		t.Fatal("expected a location")
	}
	if loc.URI != "file:///second.rs" {
		t.Errorf("expected last link's target, got %q", loc.URI)
	}
	if loc.Range.Start.Line != 7 || loc.Range.Start.Character != 3 {
		t.Errorf("expected the target selection range, got %+v", loc.Range)
	}
}

func TestSelectLocationNone(t *testing.T) {
	var resp DefinitionResponse
	if err := json.Unmarshal([]byte(`null`), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := resp.SelectLocation(); ok {
		t.Error("null reply should yield no location")
	}
}

func TestPositionInRangeInclusive(t *testing.T) {
	r := Range{
		Start: Position{Line: 2, Character: 4},
		End:   Position{Line: 4, Character: 10},
	}

	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{Line: 2, Character: 4}, true},   // exactly at start
		{Position{Line: 4, Character: 10}, true},  // exactly at end
		{Position{Line: 3, Character: 0}, true},   // interior line
		{Position{Line: 2, Character: 3}, false},  // before start on start line
		{Position{Line: 4, Character: 11}, false}, // after end on end line
		{Position{Line: 1, Character: 99}, false}, // before start line
		{Position{Line: 5, Character: 0}, false},  // after end line
	}

	for _, tt := range tests {
		if got := PositionInRange(r, tt.pos); got != tt.want {
			t.Errorf("PositionInRange(%+v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestSymbolPathAtTreeShape(t *testing.T) {
	payload := `[
		{
			"name": "server",
			"kind": 2,
			"range": {"start":{"line":0,"character":0},"end":{"line":50,"character":0}},
			"selectionRange": {"start":{"line":0,"character":4},"end":{"line":50,"character":0}},
			"children": [
				{
					"name": "Handler",
					"kind": 23,
					"range": {"start":{"line":10,"character":0},"end":{"line":30,"character":1}},
					"selectionRange": {"start":{"line":10,"character":5},"end":{"line":30,"character":1}},
					"children": [
						{
							"name": "handle",
							"kind": 6,
							"range": {"start":{"line":12,"character":4},"end":{"line":20,"character":5}},
							"selectionRange": {"start":{"line":12,"character":7},"end":{"line":12,"character":13}}
						}
					]
				}
			]
		}
	]`

	var resp DocumentSymbolResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Flat {
		t.Fatal("payload should parse as the tree shape")
	}

	path := resp.SymbolPathAt(Position{Line: 12, Character: 9})
	if path.Format() != "server::Handler::handle" {
		t.Errorf("expected server::Handler::handle, got %q", path.Format())
	}

	if got := resp.SymbolPathAt(Position{Line: 99, Character: 0}); got != nil {
		t.Errorf("position outside every symbol should yield nil, got %v", got)
	}
}

func TestSymbolPathAtFlatShape(t *testing.T) {
	payload := `[
		{
			"name": "handle",
			"kind": 6,
			"location": {"uri":"file:///a.rs","range":{"start":{"line":12,"character":0},"end":{"line":20,"character":1}}},
			"containerName": "Handler"
		},
		{
			"name": "other",
			"kind": 12,
			"location": {"uri":"file:///a.rs","range":{"start":{"line":30,"character":0},"end":{"line":35,"character":1}}}
		}
	]`

	var resp DocumentSymbolResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Flat {
		t.Fatal("payload should parse as the flat shape")
	}

	path := resp.SymbolPathAt(Position{Line: 15, Character: 0})
	if path.Format() != "Handler::handle" {
		t.Errorf("expected Handler::handle, got %q", path.Format())
	}

	// No container name yields a single-segment path.
	path = resp.SymbolPathAt(Position{Line: 31, Character: 0})
	if path.Format() != "other" {
		t.Errorf("expected other, got %q", path.Format())
	}
}

func TestEnclosingRangeAtPrefersInnermostChild(t *testing.T) {
	payload := `[
		{
			"name": "Outer",
			"kind": 23,
			"range": {"start":{"line":0,"character":0},"end":{"line":40,"character":1}},
			"selectionRange": {"start":{"line":0,"character":5},"end":{"line":0,"character":10}},
			"children": [
				{
					"name": "inner",
					"kind": 6,
					"range": {"start":{"line":5,"character":4},"end":{"line":9,"character":5}},
					"selectionRange": {"start":{"line":5,"character":7},"end":{"line":5,"character":12}}
				}
			]
		}
	]`

	var resp DocumentSymbolResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	r, ok := resp.EnclosingRangeAt(Position{Line: 7, Character: 0})
	if !ok {
		t.Fatal("expected an enclosing range")
	}
	if r.Start.Line != 5 || r.End.Line != 9 {
		t.Errorf("expected the child's range, got %+v", r)
	}

	// Outside the child but inside the parent.
	r, ok = resp.EnclosingRangeAt(Position{Line: 20, Character: 0})
	if !ok {
		t.Fatal("expected an enclosing range")
	}
	if r.Start.Line != 0 || r.End.Line != 40 {
		t.Errorf("expected the parent's range, got %+v", r)
	}
}

func TestDecodeTypeHierarchyItems(t *testing.T) {
	items, err := DecodeTypeHierarchyItems([]byte(`null`))
	if err != nil {
		t.Fatalf("null should decode cleanly: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("null should yield an empty list, got %d items", len(items))
	}

	items, err = DecodeTypeHierarchyItems([]byte(`[
		{"name":"Display","kind":11,"uri":"file:///fmt.rs",
		 "range":{"start":{"line":0,"character":0},"end":{"line":10,"character":0}},
		 "selectionRange":{"start":{"line":0,"character":6},"end":{"line":0,"character":13}}}
	]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Display" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestHoverContentsBothShapes(t *testing.T) {
	var h Hover
	if err := json.Unmarshal([]byte(`{"contents":{"kind":"markdown","value":"fn add(a: i32)"}}`), &h); err != nil {
		t.Fatalf("object contents: %v", err)
	}
	if h.Contents.Value != "fn add(a: i32)" {
		t.Errorf("unexpected value %q", h.Contents.Value)
	}

	if err := json.Unmarshal([]byte(`{"contents":"plain text"}`), &h); err != nil {
		t.Fatalf("string contents: %v", err)
	}
	if h.Contents.Value != "plain text" {
		t.Errorf("unexpected value %q", h.Contents.Value)
	}
}

func TestURIHelpers(t *testing.T) {
	if got := URIFromPath("/work/src/main.rs"); got != "file:///work/src/main.rs" {
		t.Errorf("URIFromPath: %q", got)
	}
	if got := URIFromPath("file:///work/src/main.rs"); got != "file:///work/src/main.rs" {
		t.Errorf("URIFromPath should be idempotent: %q", got)
	}
	if got := PathFromURI("file:///work/src/main.rs"); got != "/work/src/main.rs" {
		t.Errorf("PathFromURI: %q", got)
	}
	if got := PathFromURI("/already/a/path.rs"); got != "/already/a/path.rs" {
		t.Errorf("PathFromURI should pass plain paths through: %q", got)
	}
}
