package symbols

import (
	"reflect"
	"testing"

	"rab/internal/protocol"
)

func TestFromSymbolInformationFreeFunction(t *testing.T) {
	id := FromSymbolInformation(protocol.SymbolInformation{
		Name:          "do_thing",
		Kind:          12,
		Location:      protocol.Location{URI: "file:///workspace/demo/src/utils/mod.rs"},
		ContainerName: "demo::utils",
	})

	if id.CrateName != "demo" {
		t.Errorf("crate: got %q", id.CrateName)
	}
	if !reflect.DeepEqual(id.ModulePath, []string{"utils"}) {
		t.Errorf("module path: got %v", id.ModulePath)
	}
	if id.ItemName != "do_thing" || id.Kind != KindFreeFunction {
		t.Errorf("got item %q kind %q", id.ItemName, id.Kind)
	}
}

func TestFromSymbolInformationMethod(t *testing.T) {
	id := FromSymbolInformation(protocol.SymbolInformation{
		Name:          "handle",
		Kind:          6,
		Location:      protocol.Location{URI: "file:///workspace/demo/src/types/item.rs"},
		ContainerName: "demo::types::Item",
	})

	if id.CrateName != "demo" {
		t.Errorf("crate: got %q", id.CrateName)
	}
	if !reflect.DeepEqual(id.ModulePath, []string{"types", "Item"}) {
		t.Errorf("module path: got %v", id.ModulePath)
	}
	if id.Kind != KindMethod {
		t.Errorf("kind: got %q", id.Kind)
	}
}

func TestFromSymbolInformationImplContainer(t *testing.T) {
	id := FromSymbolInformation(protocol.SymbolInformation{
		Name:          "new",
		Kind:          0,
		Location:      protocol.Location{URI: "file:///workspace/demo/src/types/item.rs"},
		ContainerName: "impl demo::types::Item",
	})

	if id.Kind != KindImpl {
		t.Errorf("kind: got %q, want impl", id.Kind)
	}
	if id.CrateName != "demo" {
		t.Errorf("crate: got %q", id.CrateName)
	}
	if !reflect.DeepEqual(id.ModulePath, []string{"types", "Item"}) {
		t.Errorf("module path: got %v", id.ModulePath)
	}
}

func TestFromSymbolInformationNoContainer(t *testing.T) {
	id := FromSymbolInformation(protocol.SymbolInformation{
		Name:     "navigate",
		Kind:     12,
		Location: protocol.Location{URI: "file:///workspace/demo/src/tools/navigation.rs"},
	})

	if id.CrateName != "demo" {
		t.Errorf("crate: got %q", id.CrateName)
	}
	if !reflect.DeepEqual(id.ModulePath, []string{"tools", "navigation"}) {
		t.Errorf("module path: got %v", id.ModulePath)
	}
}

func TestFromDefinition(t *testing.T) {
	id, ok := FromDefinition("file:///workspace/demo/src/server/handlers.rs", protocol.SymbolPath{
		{Name: "Handler", Kind: 23},
		{Name: "dispatch", Kind: 6},
	})
	if !ok {
		t.Fatal("expected an identity")
	}

	if id.CrateName != "demo" {
		t.Errorf("crate: got %q", id.CrateName)
	}
	if !reflect.DeepEqual(id.ModulePath, []string{"server", "handlers", "Handler"}) {
		t.Errorf("module path: got %v", id.ModulePath)
	}
	if id.ItemName != "dispatch" || id.Kind != KindMethod {
		t.Errorf("got item %q kind %q", id.ItemName, id.Kind)
	}
}

func TestFromDefinitionEmptyPath(t *testing.T) {
	if _, ok := FromDefinition("file:///x/src/lib.rs", nil); ok {
		t.Error("empty symbol path should yield no identity")
	}
}

func TestKindFromLSP(t *testing.T) {
	cases := []struct {
		kind int
		hint string
		want Kind
	}{
		{6, "", KindMethod},
		{11, "", KindTrait},
		{12, "", KindFreeFunction},
		{23, "", KindImpl},
		{5, "impl Display for Foo", KindImpl},
		{5, "Foo", KindUnknown},
	}
	for _, tc := range cases {
		if got := KindFromLSP(tc.kind, tc.hint); got != tc.want {
			t.Errorf("KindFromLSP(%d, %q) = %q, want %q", tc.kind, tc.hint, got, tc.want)
		}
	}
}

func TestModulePathDropsModStem(t *testing.T) {
	id := FromSymbolInformation(protocol.SymbolInformation{
		Name:     "helper",
		Kind:     12,
		Location: protocol.Location{URI: "file:///ws/crate_a/src/inner/mod.rs"},
	})

	if !reflect.DeepEqual(id.ModulePath, []string{"inner"}) {
		t.Errorf("mod.rs stem should be elided: got %v", id.ModulePath)
	}
	if id.CrateName != "crate_a" {
		t.Errorf("crate: got %q", id.CrateName)
	}
}

func TestIdentityKey(t *testing.T) {
	id := Identity{CrateName: "demo", ModulePath: []string{"types", "Item"}, ItemName: "new"}
	if got := id.Key(); got != "demo::types::Item::new" {
		t.Errorf("Key() = %q", got)
	}
}
