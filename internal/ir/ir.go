// Package ir is the post-elaboration, post-schedule intermediate
// representation consumed by the foreign-interface emitter. The node kinds
// here mirror what elaboration, scoping and scheduling have already
// produced by the time this stage runs: a netlist of modules, each with a
// flat top scope of variables and scheduled activation regions. The
// full IR type hierarchy, the scoping pass that builds it, and the
// general-purpose Verilog code emitter are collaborators this package
// only models the slice of surface the foreign-interface stage touches.
package ir

import "github.com/foreignif/vfie/internal/diag"

// Node is the minimum any IR node implements: a source position for
// diagnostics.
type Node interface {
	Pos() diag.Pos
}

// Expr is a side-effect-free value-producing IR node: a variable
// reference, a literal, or an operator application. The emitter only ever
// needs to print these or clone them into new assignments, so the
// interface stays narrow.
type Expr interface {
	Node
	exprNode()
	// String renders the expression the way the base Verilog emitter
	// would, for use inside cloned assignments and textual wrapper output.
	String() string
}

// Stmt is anything that can appear in a scheduled block's body. Children
// exposes nested statements (the body of an if-arm or begin/end group) so
// a generic walker can descend into control structures it does not
// specifically recognize, without a bespoke visitor for every kind.
type Stmt interface {
	Node
	stmtNode()
	Children() []Stmt
}

// Direction describes which way a port signal flows across a module
// boundary.
type Direction int

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
)
