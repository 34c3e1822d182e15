package foreign

import (
	"testing"

	"github.com/foreignif/vfie/internal/ir"
)

func TestAddEntryPoints_DisabledByDefault(t *testing.T) {
	a := newVar("a", ir.DirInput, true)
	sens := &ir.SenTree{Items: []ir.SenItem{{Varp: a}}}
	active, _ := activeFor(sens, "eval1", &ir.Text{Literal: ""})
	mod := newModule("m", "m", &ir.Scope{Vars: []*ir.Var{a}, Actives: []*ir.Active{active}})

	rc, err := NewRefCollector(mod, Config{Trace: false})
	if err != nil {
		t.Fatalf("NewRefCollector: %v", err)
	}
	before := len(mod.Top.Scope.CFuncs)
	rc.AddEntryPoints()
	if got := len(mod.Top.Scope.CFuncs); got != before {
		t.Errorf("AddEntryPoints with Trace=false added %d CFuncs, want 0", got-before)
	}
}

func TestAddEntryPoints_DedupedAcrossEvals(t *testing.T) {
	a := newVar("a", ir.DirInput, true)
	sens := &ir.SenTree{Items: []ir.SenItem{{Varp: a}}}

	// Two evals sharing the same Funcp must only get one stub.
	shared := &ir.CFunc{Name: "shared", Body: []ir.Stmt{&ir.Text{Literal: ""}}}
	active1 := &ir.Active{Sensesp: sens, Stmts: []ir.Stmt{&ir.CCall{Func: shared}}}
	active2 := &ir.Active{Sensesp: sens, Stmts: []ir.Stmt{&ir.CCall{Func: shared}}}

	mod := newModule("m", "m", &ir.Scope{
		Vars:    []*ir.Var{a},
		Actives: []*ir.Active{active1, active2},
		CFuncs:  []*ir.CFunc{shared},
	})

	rc, err := NewRefCollector(mod, Config{Trace: true})
	if err != nil {
		t.Fatalf("NewRefCollector: %v", err)
	}
	if len(rc.Evals) != 2 {
		t.Fatalf("got %d evals, want 2 (same Funcp reused across two Actives)", len(rc.Evals))
	}

	before := len(mod.Top.Scope.CFuncs)
	rc.AddEntryPoints()
	added := mod.Top.Scope.CFuncs[before:]
	if len(added) != 1 {
		t.Fatalf("AddEntryPoints added %d stubs, want 1 (deduped across both evals)", len(added))
	}
	stub := added[0]
	if stub.Name != "_foreignshared" {
		t.Errorf("stub name = %q, want %q", stub.Name, "_foreignshared")
	}
	if len(stub.Body) != 2 {
		t.Fatalf("stub body has %d statements, want 2 (CCall, activity-flag Text)", len(stub.Body))
	}
	if _, ok := stub.Body[0].(*ir.CCall); !ok {
		t.Errorf("stub.Body[0] = %T, want *ir.CCall", stub.Body[0])
	}
	if _, ok := stub.Body[1].(*ir.Text); !ok {
		t.Errorf("stub.Body[1] = %T, want *ir.Text", stub.Body[1])
	}
}
