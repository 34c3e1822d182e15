package ir

import "github.com/foreignif/vfie/internal/diag"

// VarRef is a read or write reference to a Var within an expression tree.
// Lvalue distinguishes an assignment target from a value read; EvalUnpacker
// checks it when validating shadow-port direction on cache hit.
type VarRef struct {
	P      diag.Pos
	Varp   *Var
	Lvalue bool
}

func (r *VarRef) Pos() diag.Pos { return r.P }
func (r *VarRef) exprNode()     {}
func (r *VarRef) String() string {
	return r.Varp.PrettyName
}

// Clone returns a new VarRef to the same Var, the way the IR-cloning
// collaborator clones an expression tree before splicing it into a new
// assignment (EvalUnpacker never reuses an Expr node in two places).
func (r *VarRef) Clone() *VarRef {
	cp := *r
	return &cp
}

// Assign is an ordinary (active-region) assignment: NodeAssign in the
// source data model. Reads of Rhs are observed before writes of Lhs.
type Assign struct {
	P   diag.Pos
	Lhs Expr
	Rhs Expr
}

func (a *Assign) Pos() diag.Pos    { return a.P }
func (a *Assign) stmtNode()        {}
func (a *Assign) Children() []Stmt { return nil }

// AssignPost is a non-blocking (NBA) commit-phase assignment. A write
// reached through this node kind — and, transitively, any later read of
// the same variable — is tagged "post" (see internal/foreign's PostVars
// pre-pass).
type AssignPost struct {
	P   diag.Pos
	Lhs Expr
	Rhs Expr
}

func (a *AssignPost) Pos() diag.Pos    { return a.P }
func (a *AssignPost) stmtNode()        {}
func (a *AssignPost) Children() []Stmt { return nil }

// Block is a generic nested statement sequence: the arm of an if, a
// begin/end group, anything the base emitter structures without this
// stage caring about its shape. RefCollector and EvalUnpacker both
// descend into Block generically rather than special-casing every control
// construct the full IR supports.
type Block struct {
	P     diag.Pos
	Stmts []Stmt
}

func (b *Block) Pos() diag.Pos    { return b.P }
func (b *Block) stmtNode()        {}
func (b *Block) Children() []Stmt { return b.Stmts }

// BinaryExpr is a two-operand operator application, e.g. `a ^ b`. The
// foreign-interface stage never evaluates or rewrites expressions — it
// only walks them for VarRef reads/writes — so the operator itself is
// kept as an opaque string the base emitter knows how to print.
type BinaryExpr struct {
	P    diag.Pos
	Op   string
	Lhs  Expr
	Rhs  Expr
}

func (b *BinaryExpr) Pos() diag.Pos { return b.P }
func (b *BinaryExpr) exprNode()     {}
func (b *BinaryExpr) String() string {
	return b.Lhs.String() + " " + b.Op + " " + b.Rhs.String()
}

// UnaryExpr is a one-operand operator application, e.g. `!a`.
type UnaryExpr struct {
	P       diag.Pos
	Op      string
	Operand Expr
}

func (u *UnaryExpr) Pos() diag.Pos  { return u.P }
func (u *UnaryExpr) exprNode()      {}
func (u *UnaryExpr) String() string { return u.Op + u.Operand.String() }

// Literal is a constant value, e.g. a numeric literal.
type Literal struct {
	P     diag.Pos
	Value string
}

func (l *Literal) Pos() diag.Pos  { return l.P }
func (l *Literal) exprNode()      {}
func (l *Literal) String() string { return l.Value }

// Text is a literal, unparsed line of emitted code — used for the
// debug-scope push/pop markers EvalUnpacker splices around a foreign
// call, and the activity-flag assignment in synthesized entry stubs.
type Text struct {
	P       diag.Pos
	Literal string
}

func (t *Text) Pos() diag.Pos    { return t.P }
func (t *Text) stmtNode()        {}
func (t *Text) Children() []Stmt { return nil }
