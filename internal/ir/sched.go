package ir

import (
	"strings"

	"github.com/foreignif/vfie/internal/diag"
)

// EdgeKind is the trigger kind of one SenItem.
type EdgeKind int

const (
	EdgeAny EdgeKind = iota
	EdgePos
	EdgeNeg
	EdgeBoth
)

func (k EdgeKind) String() string {
	switch k {
	case EdgePos:
		return "posedge"
	case EdgeNeg:
		return "negedge"
	case EdgeBoth:
		return "edge"
	default:
		return ""
	}
}

// SenItem is one edge/level trigger inside a sensitivity list, e.g.
// "posedge clk" or a bare "a".
type SenItem struct {
	Edge EdgeKind
	Varp *Var
}

func (si SenItem) String() string {
	if si.Edge == EdgeAny {
		return si.Varp.PrettyName
	}
	return si.Edge.String() + " " + si.Varp.PrettyName
}

// SenTree is the sensitivity of one Active region. Verilator's own
// scheduler recognizes two pseudo-sensitivities that never appear as
// ordinary edge/level items: hasInitial (an `initial` region) and
// hasSettle (a fixed-point combinational-settle region, used when
// inner-module evaluation must converge before the outer module
// continues). This stage never simplifies or reorders Items — the base
// Verilog emitter prints them verbatim.
type SenTree struct {
	Items      []SenItem
	HasInitial bool
	HasSettle  bool
}

// String renders the sensitivity list the way the base emitter would
// serialize "@(...)", used verbatim inside a non-settle always block.
func (t *SenTree) String() string {
	if t == nil || len(t.Items) == 0 {
		return "@(*)"
	}
	parts := make([]string, len(t.Items))
	for i, it := range t.Items {
		parts[i] = it.String()
	}
	return "@(" + strings.Join(parts, " or ") + ")"
}

// CFunc is a scheduled entry point: its Body is the block's statement
// list after the scheduler has flattened and ordered it. A CFunc with an
// empty Body is a declaration-only stub (e.g. a cross-module eval
// function EvalUnpacker memoizes) rather than a discoverable eval.
type CFunc struct {
	P            diag.Pos
	Name         string
	Body         []Stmt
	SkipDecl     bool
	IsForeignFFI bool
	DontCombine  bool
	IsStatic     bool

	// ArgTypes is the synthesized function's formal argument list,
	// printed verbatim by the base C++ emitter (e.g. the symbol-class
	// pointer every scheduled function takes).
	ArgTypes string
	// SymProlog marks a synthesized function as needing the symbol-table
	// prolog the base emitter inserts for every top-level entry point.
	SymProlog bool
}

func (f *CFunc) Pos() diag.Pos { return f.P }

// CCall invokes a CFunc. Seen directly under an Active, it is a
// candidate eval entry point; seen nested inside an eval's own body, the
// call is folded into the same activation rather than starting a new one.
type CCall struct {
	P        diag.Pos
	Func     *CFunc
	ArgTypes string
}

func (c *CCall) Pos() diag.Pos    { return c.P }
func (c *CCall) stmtNode()        {}
func (c *CCall) Children() []Stmt { return nil }

// Active is one scheduled region: a sensitivity plus the statements the
// scheduler allocated to run under it, typically one or more CCalls.
type Active struct {
	P       diag.Pos
	Sensesp *SenTree
	Stmts   []Stmt
}

func (a *Active) Pos() diag.Pos { return a.P }
