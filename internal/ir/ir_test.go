package ir

import "testing"

func TestVarKeywordAndDirection(t *testing.T) {
	tests := []struct {
		dir     Direction
		wantKwd string
		wantIn  bool
		wantOut bool
	}{
		{DirInput, "input", true, false},
		{DirOutput, "output", false, true},
		{DirInout, "inout", true, true},
		{DirNone, "", false, false},
	}

	for _, tt := range tests {
		v := &Var{Dir: tt.dir}
		if got := v.Keyword(); got != tt.wantKwd {
			t.Errorf("Keyword() for %v = %q, want %q", tt.dir, got, tt.wantKwd)
		}
		if got := v.IsInput(); got != tt.wantIn {
			t.Errorf("IsInput() for %v = %v, want %v", tt.dir, got, tt.wantIn)
		}
		if got := v.IsOutput(); got != tt.wantOut {
			t.Errorf("IsOutput() for %v = %v, want %v", tt.dir, got, tt.wantOut)
		}
	}
}

func TestVecDType(t *testing.T) {
	if got := Vec(1).String(); got != "logic" {
		t.Errorf("Vec(1) = %q, want %q", got, "logic")
	}
	if got := Vec(8).String(); got != "logic [7:0]" {
		t.Errorf("Vec(8) = %q, want %q", got, "logic [7:0]")
	}
}

func TestSenTreeString(t *testing.T) {
	empty := &SenTree{}
	if got := empty.String(); got != "@(*)" {
		t.Errorf("empty SenTree.String() = %q, want %q", got, "@(*)")
	}

	clk := &Var{PrettyName: "clk"}
	rst := &Var{PrettyName: "rst"}
	tree := &SenTree{Items: []SenItem{{Edge: EdgePos, Varp: clk}, {Varp: rst}}}
	if got, want := tree.String(), "@(posedge clk or rst)"; got != want {
		t.Errorf("SenTree.String() = %q, want %q", got, want)
	}
}

func TestCloneExpr(t *testing.T) {
	v := &Var{Name: "a"}
	orig := &BinaryExpr{Op: "+", Lhs: &VarRef{Varp: v}, Rhs: &Literal{Value: "1"}}

	cloned := CloneExpr(orig).(*BinaryExpr)
	if cloned == orig {
		t.Fatal("CloneExpr returned the same pointer")
	}
	if cloned.Lhs.(*VarRef) == orig.Lhs.(*VarRef) {
		t.Error("CloneExpr did not deep-copy the Lhs VarRef")
	}
	if cloned.Lhs.(*VarRef).Varp != v {
		t.Error("cloned VarRef should still point at the same Var")
	}
}
