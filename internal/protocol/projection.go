package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefinitionKind discriminates one of the three wire shapes a definition
// reply can take.
type DefinitionKind int

const (
	// DefinitionNone is a null or empty reply
	DefinitionNone DefinitionKind = iota
	// DefinitionSingle is a bare Location object
	DefinitionSingle
	// DefinitionArray is a Location array
	DefinitionArray
	// DefinitionLinks is a LocationLink array
	DefinitionLinks
)

// DefinitionResponse is the tagged union of definition reply shapes. The
// discrimination happens once, in UnmarshalJSON; everything downstream works
// with the tag.
type DefinitionResponse struct {
	Kind      DefinitionKind
	Location  Location
	Locations []Location
	Links     []LocationLink
}

// UnmarshalJSON picks the shape: null, single object, array of locations, or
// array of location links (recognized by the targetUri field).
func (r *DefinitionResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Kind = DefinitionNone
		return nil
	}

	switch trimmed[0] {
	case '{':
		if err := json.Unmarshal(trimmed, &r.Location); err != nil {
			return fmt.Errorf("definition location: %w", err)
		}
		r.Kind = DefinitionSingle
		return nil

	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("definition array: %w", err)
		}
		if len(raw) == 0 {
			r.Kind = DefinitionNone
			return nil
		}

		var probe struct {
			TargetURI *string `json:"targetUri"`
		}
		if err := json.Unmarshal(raw[0], &probe); err != nil {
			return fmt.Errorf("definition array element: %w", err)
		}

		if probe.TargetURI != nil {
			if err := json.Unmarshal(trimmed, &r.Links); err != nil {
				return fmt.Errorf("definition links: %w", err)
			}
			r.Kind = DefinitionLinks
			return nil
		}

		if err := json.Unmarshal(trimmed, &r.Locations); err != nil {
			return fmt.Errorf("definition locations: %w", err)
		}
		r.Kind = DefinitionArray
		return nil
	}

	return fmt.Errorf("definition response: unexpected shape %q", trimmed[0])
}

// SelectLocation normalizes a definition reply to one location. Array shapes
// yield their LAST element; that tie-break is kept for compatibility with
// existing callers and must not be "fixed" to the first element.
func (r DefinitionResponse) SelectLocation() (Location, bool) {
	switch r.Kind {
	case DefinitionSingle:
		return r.Location, true
	case DefinitionArray:
		if len(r.Locations) == 0 {
			return Location{}, false
		}
		return r.Locations[len(r.Locations)-1], true
	case DefinitionLinks:
		if len(r.Links) == 0 {
			return Location{}, false
		}
		link := r.Links[len(r.Links)-1]
		return Location{URI: link.TargetURI, Range: link.TargetSelectionRange}, true
	}
	return Location{}, false
}

// DocumentSymbolResponse is the tagged union of outline reply shapes:
// hierarchical DocumentSymbol tree or flat SymbolInformation list.
type DocumentSymbolResponse struct {
	Flat bool
	Tree []DocumentSymbol
	List []SymbolInformation
}

// UnmarshalJSON discriminates by the selectionRange field, which only the
// hierarchical shape carries.
func (r *DocumentSymbolResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return fmt.Errorf("document symbols: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	var probe struct {
		SelectionRange *Range `json:"selectionRange"`
	}
	if err := json.Unmarshal(raw[0], &probe); err != nil {
		return fmt.Errorf("document symbol element: %w", err)
	}

	if probe.SelectionRange != nil {
		r.Flat = false
		return json.Unmarshal(trimmed, &r.Tree)
	}

	r.Flat = true
	return json.Unmarshal(trimmed, &r.List)
}

// PositionInRange reports whether pos lies within r, inclusive on both ends.
func PositionInRange(r Range, pos Position) bool {
	startsBefore := r.Start.Line < pos.Line ||
		(r.Start.Line == pos.Line && r.Start.Character <= pos.Character)
	endsAfter := r.End.Line > pos.Line ||
		(r.End.Line == pos.Line && r.End.Character >= pos.Character)
	return startsBefore && endsAfter
}

// SymbolPathAt walks an outline reply and returns the containment path of the
// symbol at pos, outermost first. For the tree shape it follows selection
// ranges through matching children; for the flat shape it synthesizes a
// container/name pair. Returns nil when no symbol encloses pos.
func (r DocumentSymbolResponse) SymbolPathAt(pos Position) SymbolPath {
	if !r.Flat {
		return symbolPathInTree(r.Tree, pos)
	}

	for _, info := range r.List {
		if !PositionInRange(info.Location.Range, pos) {
			continue
		}
		var path SymbolPath
		if info.ContainerName != "" {
			path = append(path, SymbolPathSegment{Name: info.ContainerName, Kind: info.Kind})
		}
		return append(path, SymbolPathSegment{Name: info.Name, Kind: info.Kind})
	}
	return nil
}

func symbolPathInTree(symbols []DocumentSymbol, pos Position) SymbolPath {
	for _, sym := range symbols {
		if !PositionInRange(sym.SelectionRange, pos) {
			continue
		}
		path := SymbolPath{{Name: sym.Name, Kind: sym.Kind}}
		if child := symbolPathInTree(sym.Children, pos); child != nil {
			path = append(path, child...)
		}
		return path
	}
	return nil
}

// EnclosingRangeAt returns the full range of the innermost outline node whose
// range covers pos. Unlike SymbolPathAt this tests the node's whole range,
// not its selection range, so it works for positions anywhere inside a body.
func (r DocumentSymbolResponse) EnclosingRangeAt(pos Position) (Range, bool) {
	if !r.Flat {
		return enclosingRangeInTree(r.Tree, pos)
	}

	for _, info := range r.List {
		if PositionInRange(info.Location.Range, pos) {
			return info.Location.Range, true
		}
	}
	return Range{}, false
}

func enclosingRangeInTree(symbols []DocumentSymbol, pos Position) (Range, bool) {
	for _, sym := range symbols {
		if !PositionInRange(sym.Range, pos) {
			continue
		}
		if child, ok := enclosingRangeInTree(sym.Children, pos); ok {
			return child, true
		}
		return sym.Range, true
	}
	return Range{}, false
}

// DecodeTypeHierarchyItems parses a type-hierarchy reply, mapping null to an
// empty list.
func DecodeTypeHierarchyItems(result json.RawMessage) ([]TypeHierarchyItem, error) {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var items []TypeHierarchyItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("type hierarchy items: %w", err)
	}
	return items, nil
}
