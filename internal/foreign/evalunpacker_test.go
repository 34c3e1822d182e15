package foreign

import (
	"testing"

	"github.com/foreignif/vfie/internal/ir"
)

// S6 — unpack of a conditional ForeignEval with one write and one read.
// Expected output sequence: push-scope text, write assign, CCall, pop-scope
// text, read assign.
func TestEvalUnpacker_ConditionalForeignEval(t *testing.T) {
	inst := &ir.ForeignInstance{Name: "I", ModName: "Sub"}
	outerSrc := newVar("s", ir.DirNone, false)
	outerDst := newVar("d", ir.DirNone, false)

	fe := &ir.ForeignEval{
		Instance: inst,
		Name:     "E",
		Writes:   []*ir.ForeignWrite{{Name: "p", DType: ir.Bit, Src: varRef(outerSrc, false)}},
		Reads:    []*ir.ForeignRead{{Name: "q", DType: ir.Bit, Dst: varRef(outerDst, true)}},
	}

	mod := newModule("outer", "", &ir.Scope{
		Vars:    []*ir.Var{outerSrc, outerDst},
		Actives: []*ir.Active{{Sensesp: &ir.SenTree{}, Stmts: []ir.Stmt{fe}}},
	})

	eu, err := NewEvalUnpacker(mod)
	if err != nil {
		t.Fatalf("NewEvalUnpacker: %v", err)
	}

	stmts := mod.Top.Scope.Actives[0].Stmts
	if len(stmts) != 5 {
		t.Fatalf("got %d statements, want 5", len(stmts))
	}

	push, ok := stmts[0].(*ir.Text)
	if !ok || push.Literal != `VL_DEBUG_PUSH_FOREIGN_SCOPE("I");`+"\n" {
		t.Errorf("stmts[0] = %#v, want push-scope text for instance I", stmts[0])
	}

	writeAssign, ok := stmts[1].(*ir.Assign)
	if !ok {
		t.Fatalf("stmts[1] = %T, want *ir.Assign", stmts[1])
	}
	shadowWrite, ok := writeAssign.Lhs.(*ir.VarRef)
	if !ok || shadowWrite.Varp.Name != "__FI->p" {
		t.Errorf("write assign lhs = %#v, want shadow port __FI->p", writeAssign.Lhs)
	}
	if rhs, ok := writeAssign.Rhs.(*ir.VarRef); !ok || rhs.Varp != outerSrc {
		t.Errorf("write assign rhs = %#v, want outer var s", writeAssign.Rhs)
	}

	call, ok := stmts[2].(*ir.CCall)
	if !ok {
		t.Fatalf("stmts[2] = %T, want *ir.CCall", stmts[2])
	}
	if call.Func.Name != "VSub::E" {
		t.Errorf("call.Func.Name = %q, want %q", call.Func.Name, "VSub::E")
	}
	if want := `vlTOPp->__FI->__VlSymsp`; call.ArgTypes != want {
		t.Errorf("call.ArgTypes = %q, want %q", call.ArgTypes, want)
	}

	pop, ok := stmts[3].(*ir.Text)
	if !ok || pop.Literal != "VL_DEBUG_POP_FOREIGN_SCOPE();\n" {
		t.Errorf("stmts[3] = %#v, want pop-scope text", stmts[3])
	}

	readAssign, ok := stmts[4].(*ir.Assign)
	if !ok {
		t.Fatalf("stmts[4] = %T, want *ir.Assign", stmts[4])
	}
	if lhs, ok := readAssign.Lhs.(*ir.VarRef); !ok || lhs.Varp != outerDst {
		t.Errorf("read assign lhs = %#v, want outer var d", readAssign.Lhs)
	}
	shadowRead, ok := readAssign.Rhs.(*ir.VarRef)
	if !ok || shadowRead.Varp.Name != "__FI->q" {
		t.Errorf("read assign rhs = %#v, want shadow port __FI->q", readAssign.Rhs)
	}

	_ = eu
}

func TestEvalUnpacker_ShadowPortDirectionMismatchIsFatal(t *testing.T) {
	inst := &ir.ForeignInstance{Name: "I", ModName: "Sub"}
	src := newVar("s", ir.DirNone, false)
	dst := newVar("d", ir.DirNone, false)

	// First use of port "p" as a write (from fe1), then as a read (from
	// fe2) — same (instance, portName), inconsistent direction.
	fe1 := &ir.ForeignEval{Instance: inst, Name: "E1", Writes: []*ir.ForeignWrite{{Name: "p", DType: ir.Bit, Src: varRef(src, false)}}}
	fe2 := &ir.ForeignEval{Instance: inst, Name: "E2", Reads: []*ir.ForeignRead{{Name: "p", DType: ir.Bit, Dst: varRef(dst, true)}}}

	mod := newModule("outer", "", &ir.Scope{
		Vars:    []*ir.Var{src, dst},
		Actives: []*ir.Active{{Sensesp: &ir.SenTree{}, Stmts: []ir.Stmt{fe1, fe2}}},
	})

	_, err := NewEvalUnpacker(mod)
	if err == nil {
		t.Fatal("expected a fatal diagnostic for inconsistent port direction, got nil")
	}
}

// Unconditional evals across distinct instances of the same sub-module
// share one memoized V<modName>::_foreign_uncond declaration.
func TestEvalUnpacker_UnconditionalEvalsSharedPerModName(t *testing.T) {
	instA := &ir.ForeignInstance{Name: "A", ModName: "Sub"}
	instB := &ir.ForeignInstance{Name: "B", ModName: "Sub"}
	src := newVar("s", ir.DirNone, false)

	feA := &ir.ForeignEval{Instance: instA, Name: "E", Unconditional: true, Writes: []*ir.ForeignWrite{{Name: "p", DType: ir.Bit, Src: varRef(src, false)}}}
	feB := &ir.ForeignEval{Instance: instB, Name: "E", Unconditional: true}

	mod := newModule("outer", "", &ir.Scope{
		Vars:      []*ir.Var{src},
		Instances: []*ir.ForeignInstance{instA, instB},
		Actives:   []*ir.Active{{Sensesp: &ir.SenTree{}, Stmts: []ir.Stmt{feA, feB}}},
	})

	_, err := NewEvalUnpacker(mod)
	if err != nil {
		t.Fatalf("NewEvalUnpacker: %v", err)
	}

	if len(mod.Top.Scope.Actives[0].Stmts) != 0 {
		t.Errorf("unconditional evals should be removed from their Active, got %v", mod.Top.Scope.Actives[0].Stmts)
	}

	var uncond *ir.CFunc
	var subUncondCount int
	for _, f := range mod.Top.Scope.CFuncs {
		if f.Name == "_foreign_uncond" {
			uncond = f
		}
		if f.Name == "VSub::_foreign_uncond" {
			subUncondCount++
		}
	}
	if uncond == nil {
		t.Fatal("no top-level _foreign_uncond synthesized")
	}
	if subUncondCount != 1 {
		t.Errorf("VSub::_foreign_uncond synthesized %d times, want 1 (memoized per modName)", subUncondCount)
	}
}
