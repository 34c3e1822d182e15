package ir

import "github.com/foreignif/vfie/internal/diag"

// ForeignInstance identifies one nested foreign sub-module instance by
// its instance name and the inner module it instantiates. Two
// ForeignInstance values name the same instance iff they are the same
// pointer — RefCollector and EvalUnpacker both key maps on the pointer
// identity, never on the string pair, since two distinct instances may
// share a modName.
type ForeignInstance struct {
	P       diag.Pos
	Name    string
	ModName string
}

func (fi *ForeignInstance) Pos() diag.Pos { return fi.P }

// ForeignRead is a "pull from inner" port: its Dst is the outer-side
// expression that receives the inner port's value. From the outer
// module's perspective this is a write; RefCollector captures it in
// WRITE mode precisely because of that inversion (see §4.1 of the
// design: the direction swap between ForeignRead/ForeignWrite capture
// modes is deliberate and the most commonly mis-ported detail).
type ForeignRead struct {
	P     diag.Pos
	Name  string // inner port name
	DType *DType
	Dst   Expr
}

func (r *ForeignRead) Pos() diag.Pos { return r.P }

// ForeignWrite is a "push to inner" port: Src is the outer-side
// expression supplying the value. From the outer module's perspective
// this is a read.
type ForeignWrite struct {
	P     diag.Pos
	Name  string // inner port name
	DType *DType
	Src   Expr
}

func (w *ForeignWrite) Pos() diag.Pos { return w.P }

// ForeignDepend names another inner eval that must run before the one
// hosting it, inside the same sub-module.
type ForeignDepend struct {
	P    diag.Pos
	Name string
}

func (d *ForeignDepend) Pos() diag.Pos { return d.P }

// ForeignEval is a nested foreign-eval site: a call from the outer
// module's logic into one named eval of a sub-module instance.
// Unconditional evals carry no sensitivity guard and are executed at the
// bottom of the outer module's cycle instead of being wired into a
// scheduled region.
type ForeignEval struct {
	P               diag.Pos
	Instance        *ForeignInstance
	Name            string
	Unconditional   bool
	Reads           []*ForeignRead
	Writes          []*ForeignWrite
	Depends         []*ForeignDepend
}

func (e *ForeignEval) Pos() diag.Pos    { return e.P }
func (e *ForeignEval) stmtNode()        {}
func (e *ForeignEval) Children() []Stmt { return nil }
