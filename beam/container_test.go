package beam

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExportTableOrder(t *testing.T) {
	table := NewExportTable()
	table.Set("b/0", 1)
	table.Set("a/1", 2)
	table.Set("b/0", 3)

	if got := table.Keys(); !reflect.DeepEqual(got, []string{"b/0", "a/1"}) {
		t.Errorf("Keys: got %v", got)
	}
	if table.Len() != 2 {
		t.Errorf("Len: got %d, want 2", table.Len())
	}
	if label, _ := table.Get("b/0"); label != 3 {
		t.Errorf("b/0: got %d, want 3 (last write wins)", label)
	}
	if _, ok := table.Get("c/0"); ok {
		t.Error("unexpected key c/0")
	}
}

func TestExportTableKeysIsCopy(t *testing.T) {
	table := NewExportTable()
	table.Set("x/0", 1)
	keys := table.Keys()
	keys[0] = "mutated"
	if table.Keys()[0] != "x/0" {
		t.Error("Keys exposes internal slice")
	}
}

func TestDecodeExportsDuplicateKey(t *testing.T) {
	data := buildBEAM(
		chunk{Tag: TagAtom, Payload: atomPayload("f")},
		chunk{Tag: TagExports, Payload: triplePayload([3]uint32{1, 0, 10}, [3]uint32{1, 0, 20})},
	)
	c := mustDecode(t, data)
	exports, _ := c.Exports()
	if exports.Len() != 1 {
		t.Errorf("Len: got %d, want 1", exports.Len())
	}
	if label, _ := exports.Get("f/0"); label != 20 {
		t.Errorf("f/0: got %d, want 20", label)
	}
}

func TestDecodeImportsKeepsDuplicates(t *testing.T) {
	data := buildBEAM(
		chunk{Tag: TagAtom, Payload: atomPayload("mod", "func")},
		chunk{Tag: TagImports, Payload: triplePayload([3]uint32{1, 2, 1}, [3]uint32{1, 2, 1})},
	)
	c := mustDecode(t, data)
	imports, _ := c.Imports()
	if !reflect.DeepEqual(imports, []string{"mod:func/1", "mod:func/1"}) {
		t.Errorf("imports: got %v", imports)
	}
}

func TestContainerMarshalJSON(t *testing.T) {
	data := buildBEAM(
		chunk{Tag: TagAtom, Payload: atomPayload("foo", "<bar>")},
		chunk{Tag: "Code", Payload: []byte{0}},
		chunk{Tag: TagExports, Payload: triplePayload([3]uint32{2, 0, 5}, [3]uint32{1, 1, 3})},
		chunk{Tag: TagImports, Payload: triplePayload()},
	)
	c := mustDecode(t, data)

	got, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// encoding/json escapes HTML when it re-compacts marshaler output.
	want := `{"Atom":["foo","\u003cbar\u003e"],"Code":null,"ExpT":{"\u003cbar\u003e/0":5,"foo/1":3},"ImpT":[]}`
	if string(got) != want {
		t.Errorf("Marshal:\n got %s\nwant %s", got, want)
	}

	raw, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	wantRaw := `{"Atom":["foo","<bar>"],"Code":null,"ExpT":{"<bar>/0":5,"foo/1":3},"ImpT":[]}`
	if string(raw) != wantRaw {
		t.Errorf("MarshalJSON:\n got %s\nwant %s", raw, wantRaw)
	}
}

func TestContainerAccessorsMissing(t *testing.T) {
	c := mustDecode(t, buildBEAM(chunk{Tag: "Code", Payload: nil}))
	if _, ok := c.Atoms(); ok {
		t.Error("Atoms reported present")
	}
	if _, ok := c.Exports(); ok {
		t.Error("Exports reported present")
	}
	if _, ok := c.Imports(); ok {
		t.Error("Imports reported present")
	}
	if _, ok := c.Lookup("Attr"); ok {
		t.Error("Lookup found absent tag")
	}
}
