// Package symbols derives stable symbol identities from LSP responses.
//
// An identity names a symbol by crate, module path, and item name so that
// results from different queries (workspace/symbol, textDocument/definition)
// can be compared and cached under one key.
package symbols

import (
	"path"
	"strings"

	"rab/internal/protocol"
)

// Kind classifies the item a symbol identity refers to.
type Kind string

const (
	KindFreeFunction Kind = "free_function"
	KindMethod       Kind = "method"
	KindTrait        Kind = "trait"
	KindImpl         Kind = "impl"
	KindUnknown      Kind = "unknown"
)

// Identity is the canonical name of a symbol within a workspace.
type Identity struct {
	CrateName  string   `json:"crateName"`
	ModulePath []string `json:"modulePath"`
	ItemName   string   `json:"itemName"`
	Kind       Kind     `json:"kind"`
}

// Key renders the identity as a single cacheable string.
func (id Identity) Key() string {
	parts := make([]string, 0, len(id.ModulePath)+2)
	parts = append(parts, id.CrateName)
	parts = append(parts, id.ModulePath...)
	parts = append(parts, id.ItemName)
	return strings.Join(parts, "::")
}

// KindFromLSP maps an LSP SymbolKind number to a Kind. The nameHint is the
// enclosing container's display name; rust-analyzer renders impl blocks as
// "impl Foo", which is the only signal for methods inside an impl.
func KindFromLSP(kind int, nameHint string) Kind {
	switch kind {
	case 6:
		return KindMethod
	case 11:
		return KindTrait
	case 12:
		return KindFreeFunction
	case 23:
		return KindImpl
	}
	if strings.HasPrefix(strings.TrimLeft(nameHint, " \t"), "impl ") {
		return KindImpl
	}
	return KindUnknown
}

// FromDefinition builds an identity from a definition's file URI and the
// outline path that encloses it. Returns false when the path is empty.
func FromDefinition(uri string, symbolPath protocol.SymbolPath) (Identity, bool) {
	if len(symbolPath) == 0 {
		return Identity{}, false
	}

	item := symbolPath[len(symbolPath)-1]
	modulePath := modulePathFromURI(uri)

	crateName := crateNameFromURI(uri)
	if crateName == "" {
		crateName = "unknown"
	}

	parentHint := ""
	if len(symbolPath) > 1 {
		parentHint = symbolPath[len(symbolPath)-2].Name
		for _, seg := range symbolPath[:len(symbolPath)-1] {
			modulePath = append(modulePath, seg.Name)
		}
	}

	return Identity{
		CrateName:  crateName,
		ModulePath: modulePath,
		ItemName:   item.Name,
		Kind:       KindFromLSP(item.Kind, parentHint),
	}, true
}

// FromWorkspaceSymbols converts a workspace/symbol result into identities.
func FromWorkspaceSymbols(infos []protocol.SymbolInformation) []Identity {
	identities := make([]Identity, 0, len(infos))
	for _, info := range infos {
		identities = append(identities, FromSymbolInformation(info))
	}
	return identities
}

// FromSymbolInformation derives an identity for one flat outline entry.
// The containerName, when present, is the authoritative module path; the
// location URI fills in whatever the container does not say.
func FromSymbolInformation(info protocol.SymbolInformation) Identity {
	kind := KindFromLSP(info.Kind, "")
	if kind == KindUnknown || kind == KindFreeFunction {
		if strings.HasPrefix(strings.TrimLeft(info.ContainerName, " \t"), "impl ") {
			kind = KindImpl
		}
	}

	crateName, modulePath := derivePaths(info.ContainerName, info.Location.URI)

	return Identity{
		CrateName:  crateName,
		ModulePath: modulePath,
		ItemName:   info.Name,
		Kind:       kind,
	}
}

func derivePaths(containerName, uri string) (string, []string) {
	var modulePath []string
	crateName := ""

	if containerName != "" {
		segments := containerSegments(normalizeContainerName(containerName))
		if len(segments) > 0 {
			crateName = segments[0]
			if len(segments) > 1 {
				modulePath = segments[1:]
			}
		}
	}

	if crateName == "" {
		crateName = crateNameFromURI(uri)
	}
	if len(modulePath) == 0 {
		modulePath = modulePathFromURI(uri)
	}
	if crateName == "" {
		crateName = "unknown"
	}

	return crateName, modulePath
}

func normalizeContainerName(container string) string {
	s := strings.TrimSpace(container)
	s = strings.TrimPrefix(s, "::")
	s = strings.TrimPrefix(s, "impl ")
	return s
}

func containerSegments(container string) []string {
	var segments []string
	for _, seg := range strings.Split(container, "::") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// crateNameFromURI finds the path component just before "src". Files outside
// a src/ layout fall back to their parent directory name.
func crateNameFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	components := pathComponents(protocol.PathFromURI(uri))
	for i, component := range components {
		if component == "src" && i >= 1 {
			return components[i-1]
		}
	}
	if len(components) >= 2 {
		return components[len(components)-2]
	}
	return ""
}

// modulePathFromURI takes the components after "src", dropping the file
// extension on the last one and eliding "mod" stems entirely.
func modulePathFromURI(uri string) []string {
	if uri == "" {
		return nil
	}
	components := pathComponents(protocol.PathFromURI(uri))

	var segments []string
	afterSrc := false
	for _, component := range components {
		if afterSrc {
			segments = append(segments, component)
		} else if component == "src" {
			afterSrc = true
		}
	}

	if len(segments) == 0 {
		return nil
	}

	last := segments[len(segments)-1]
	segments = segments[:len(segments)-1]
	stem := strings.TrimSuffix(last, path.Ext(last))
	if stem != "mod" {
		segments = append(segments, stem)
	}

	return segments
}

func pathComponents(p string) []string {
	var components []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			components = append(components, part)
		}
	}
	return components
}
