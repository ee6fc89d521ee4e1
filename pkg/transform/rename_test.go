package transform

import (
	"testing"

	"github.com/rvelez/cmend/pkg/analyzer"
)

func ctxWithVars(vars ...*analyzer.VariableInfo) *analyzer.Context {
	ctx := &analyzer.Context{Variables: make(map[string]*analyzer.VariableInfo)}
	for _, v := range vars {
		ctx.Variables[v.Name] = v
	}
	return ctx
}

func TestBuildRenameMap(t *testing.T) {
	ctx := ctxWithVars(
		&analyzer.VariableInfo{Name: "a", Type: "int", Line: 2},
		&analyzer.VariableInfo{Name: "b", Type: "float", Line: 3},
		&analyzer.VariableInfo{Name: "c", Type: "char", Line: 4},
		&analyzer.VariableInfo{Name: "sum", Type: "int", Line: 5},
		&analyzer.VariableInfo{Name: "balance", Type: "double", Line: 6},
	)
	got := BuildRenameMap(ctx)
	want := map[string]string{"a": "counter", "b": "decimal", "c": "character"}
	if len(got) != len(want) {
		t.Fatalf("BuildRenameMap = %v, want %v", got, want)
	}
	for old, fresh := range want {
		if got[old] != fresh {
			t.Errorf("rename[%s] = %s, want %s", old, got[old], fresh)
		}
	}
}

func TestBuildRenameMapSkipsTakenNames(t *testing.T) {
	ctx := ctxWithVars(
		&analyzer.VariableInfo{Name: "counter", Type: "int", Line: 2},
		&analyzer.VariableInfo{Name: "x", Type: "int", Line: 3},
	)
	got := BuildRenameMap(ctx)
	if got["x"] != "number" {
		t.Errorf("rename[x] = %s, want number", got["x"])
	}
	if _, ok := got["counter"]; ok {
		t.Error("long name should not be renamed")
	}
}

func TestBuildRenameMapOverflows(t *testing.T) {
	ctx := ctxWithVars(
		&analyzer.VariableInfo{Name: "a", Type: "int", Line: 1},
		&analyzer.VariableInfo{Name: "b", Type: "int", Line: 2},
		&analyzer.VariableInfo{Name: "c", Type: "int", Line: 3},
		&analyzer.VariableInfo{Name: "d", Type: "int", Line: 4},
		&analyzer.VariableInfo{Name: "e", Type: "int", Line: 5},
		&analyzer.VariableInfo{Name: "f", Type: "int", Line: 6},
	)
	got := BuildRenameMap(ctx)
	order := []struct{ old, fresh string }{
		{"a", "counter"}, {"b", "number"}, {"c", "value"},
		{"d", "index"}, {"e", "count"}, {"f", "counter1"},
	}
	for _, w := range order {
		if got[w.old] != w.fresh {
			t.Errorf("rename[%s] = %s, want %s", w.old, got[w.old], w.fresh)
		}
	}
}

func TestBuildRenameMapInjective(t *testing.T) {
	ctx := ctxWithVars(
		&analyzer.VariableInfo{Name: "a", Type: "int", Line: 1},
		&analyzer.VariableInfo{Name: "b", Type: "int", Line: 2},
		&analyzer.VariableInfo{Name: "p", Type: "float", Line: 3},
		&analyzer.VariableInfo{Name: "q", Type: "float", Line: 4},
	)
	got := BuildRenameMap(ctx)
	seen := make(map[string]bool)
	for _, fresh := range got {
		if seen[fresh] {
			t.Fatalf("duplicate replacement %s in %v", fresh, got)
		}
		seen[fresh] = true
	}
}

func TestBuildRenameMapUnknownTypeUsesIntPool(t *testing.T) {
	ctx := ctxWithVars(&analyzer.VariableInfo{Name: "z", Type: "unsigned", Line: 1})
	got := BuildRenameMap(ctx)
	if got["z"] != "counter" {
		t.Errorf("rename[z] = %s, want counter", got["z"])
	}
}
