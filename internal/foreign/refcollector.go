// Package foreign implements the foreign-interface-emitter stage: for
// every module marked as the boundary between a separately compiled
// outer simulator and one or more inner ones, it derives per-eval port
// read/write partitions and an inter-eval dependency graph (RefCollector),
// renders those into a synthetic wrapper module (WrapperEmitter), and
// rewrites ForeignEval IR nodes in every module into concrete marshaling
// call sequences (EvalUnpacker).
package foreign

import (
	"github.com/foreignif/vfie/internal/diag"
	"github.com/foreignif/vfie/internal/ir"
)

// fatalPanic carries a structural IR violation up to the recover in
// NewRefCollector (and NewEvalUnpacker),
// so the walker's many small methods don't each need an error return.
// This mirrors the compiler's own fatal channel: a violation here means
// the stage's contract with the scheduler or scoping pass was broken,
// and no result this walk produces can be trusted.
type fatalPanic struct{ err *diag.Fatal }

// RefCollector walks one foreign-interface source module's post-schedule
// IR and builds one EvalInfo per eval entry point, plus their dependency
// edges.
type RefCollector struct {
	module *ir.Module
	cfg    Config

	topScope *ir.TopScope
	Ports    []*ir.Var
	Evals    []*EvalInfo

	// postVars is the pre-pass result: every Var written anywhere in the
	// module through an AssignPost. Consulting this set instead of a
	// mutable per-Var scratch flag makes the post/non-post tagging
	// independent of eval visitation order (see SPEC_FULL.md §4.1).
	postVars map[*ir.Var]bool

	current *EvalInfo // nil outside of an eval's body
}

// NewRefCollector constructs a RefCollector over mod and runs the full
// two-pass analysis (reference capture, then dependency-edge
// construction). A structural IR violation returns a non-nil error; the
// caller is expected to treat that as fatal.
func NewRefCollector(mod *ir.Module, cfg Config) (rc *RefCollector, err error) {
	rc = &RefCollector{module: mod, cfg: cfg}

	defer func() {
		if r := recover(); r != nil {
			fp, ok := r.(fatalPanic)
			if !ok {
				panic(r)
			}
			rc = nil
			err = fp.err
		}
	}()

	rc.collect()
	return rc, nil
}

func (rc *RefCollector) fatalf(pos diag.Pos, format string, args ...any) {
	panic(fatalPanic{diag.NewFatal(pos, format, args...)})
}

func (rc *RefCollector) collect() {
	top := rc.module.Top
	if top == nil {
		rc.fatalf(rc.module.Pos(), "module %q has no topscope", rc.module.Name)
	}
	if rc.topScope != nil {
		rc.fatalf(top.Pos(), "only one topscope should ever be created")
	}
	rc.topScope = top
	scope := top.Scope

	for _, v := range scope.Vars {
		if v.IsPrimaryIO && (v.IsInput() || v.IsOutput()) {
			rc.Ports = append(rc.Ports, v)
		}
	}

	rc.postVars = computePostVars(scope.CFuncs)

	for _, active := range scope.Actives {
		rc.walkActive(active)
	}

	rc.buildDependencies()
}

// walkActive processes the direct children of one Active region, looking
// for CCalls that qualify as eval entry points. A CCall whose target
// CFunc has a non-empty body is such an entry point; anything else
// (including a bare ForeignEval sitting directly in the sensitivity
// list's statements) is walked in whatever eval context is current —
// which, at this level, is none, so a conditional ForeignEval found here
// is a structural violation.
func (rc *RefCollector) walkActive(active *ir.Active) {
	for _, stmt := range active.Stmts {
		if call, ok := stmt.(*ir.CCall); ok && len(call.Func.Body) > 0 {
			ev := newEvalInfo()
			ev.Funcp = call.Func
			if active.Sensesp != nil && active.Sensesp.HasInitial {
				ev.BlockType = Initial
				// sensesp is null for initial blocks: an `initial`
				// region has no meaningful edge/level sensitivity.
			} else {
				ev.BlockType = Always
				ev.Sensesp = active.Sensesp
			}
			rc.Evals = append(rc.Evals, ev)

			prev := rc.current
			rc.current = ev
			rc.walkEvalBody(call.Func.Body)
			rc.current = prev
			continue
		}
		rc.walkStmt(stmt)
	}
}

// walkEvalBody walks the statements of an eval's realizing CFunc (or a
// nested call folded into the same activation) under the currently
// active EvalInfo.
func (rc *RefCollector) walkEvalBody(stmts []ir.Stmt) {
	for _, stmt := range stmts {
		rc.walkStmt(stmt)
	}
}

// walkStmt dispatches on the statement's concrete kind. Node kinds this
// stage doesn't specifically recognize fall through to a generic
// Children() recursion, so nested control structures (if-arms,
// begin/end groups) are still traversed for NodeAssign/AssignPost/
// ForeignEval without this stage needing to understand their shape.
func (rc *RefCollector) walkStmt(stmt ir.Stmt) {
	switch s := stmt.(type) {
	case *ir.Assign:
		if rc.current == nil {
			return
		}
		rc.walkExpr(s.Rhs)
		// Reading a post-written variable makes this write a post write.
		readsPost := false
		rc.forEachVarRef(s.Rhs, func(v *ir.Var) {
			if rc.postVars[v] {
				readsPost = true
			}
		})
		rc.walkWrite(s.Lhs, readsPost)

	case *ir.AssignPost:
		if rc.current == nil {
			return
		}
		rc.walkExpr(s.Rhs)
		rc.walkWrite(s.Lhs, true)

	case *ir.ForeignEval:
		rc.visitForeignEval(s)

	case *ir.CCall:
		// A nested CCall inside an eval's own body does not start a new
		// eval — it's folded into the activation already in progress.
		if rc.current != nil && len(s.Func.Body) > 0 {
			rc.walkEvalBody(s.Func.Body)
		}

	case *ir.Text:
		// no reads or writes

	default:
		for _, child := range stmt.Children() {
			rc.walkStmt(child)
		}
	}
}

// visitForeignEval handles a nested foreign-eval site. Unconditional
// evals are left alone here — EvalUnpacker collects those separately
// into `_foreign_uncond`. The read/write capture modes are deliberately
// inverted: a ForeignRead pulls a value from the inner module, which is
// a write to the outer signal; a ForeignWrite pushes a value to the
// inner module, which is a read of the outer signal.
func (rc *RefCollector) visitForeignEval(fe *ir.ForeignEval) {
	if fe.Unconditional {
		return
	}
	if rc.current == nil {
		rc.fatalf(fe.Pos(), "conditional foreign eval not under eval")
	}

	rc.current.InnerEvals.Add(foreignEvalKey{Instance: fe.Instance, Name: fe.Name})

	for _, r := range fe.Reads {
		rc.walkWrite(r.Dst, false)
	}
	for _, w := range fe.Writes {
		rc.walkExpr(w.Src)
	}
	for _, d := range fe.Depends {
		rc.current.InnerDepends.Add(foreignEvalKey{Instance: fe.Instance, Name: d.Name})
	}
}

// walkExpr records a read of every VarRef reachable from e.
func (rc *RefCollector) walkExpr(e ir.Expr) {
	rc.forEachVarRef(e, func(v *ir.Var) {
		rc.current.AllReads.Add(v)
		if v.IsPrimaryIO && v.IsInput() {
			rc.current.PortReads.Add(v)
		}
	})
}

// walkWrite records writes of every VarRef reachable from e. forcedPost
// is true when the write was reached through an AssignPost node, or
// through an Assign whose right-hand side reads a post-written Var; a
// write is also treated as post if the Var was ever seen written via
// AssignPost anywhere in the module (the precomputed postVars set),
// which implements the one-hop alias propagation described in §4.1.
func (rc *RefCollector) walkWrite(e ir.Expr, forcedPost bool) {
	rc.forEachVarRef(e, func(v *ir.Var) {
		post := forcedPost || rc.postVars[v]
		rc.current.AllWrites.Add(WriteTag{Var: v, Post: post})
		if v.IsPrimaryIO && v.IsOutput() {
			rc.current.PortWrites.Add(WriteTag{Var: v, Post: post})
		}
	})
}

func (rc *RefCollector) forEachVarRef(e ir.Expr, f func(*ir.Var)) {
	switch x := e.(type) {
	case *ir.VarRef:
		f(x.Varp)
	case *ir.BinaryExpr:
		rc.forEachVarRef(x.Lhs, f)
		rc.forEachVarRef(x.Rhs, f)
	case *ir.UnaryExpr:
		rc.forEachVarRef(x.Operand, f)
	}
}

// buildDependencies is RefCollector's second pass: for every read in an
// eval, find the evals that write that variable and add a direct edge.
// No transitive closure is computed. An edge from a settle-phase eval to
// a non-settle eval is dropped — settle evals may only depend on other
// settle evals (invariant 4).
func (rc *RefCollector) buildDependencies() {
	generators := make(map[*ir.Var][]*EvalInfo)
	innerEvalGenerators := make(map[foreignEvalKey][]*EvalInfo)

	for _, e := range rc.Evals {
		for _, wt := range e.AllWrites.Items() {
			generators[wt.Var] = append(generators[wt.Var], e)
		}
		for _, k := range e.InnerEvals.Items() {
			innerEvalGenerators[k] = append(innerEvalGenerators[k], e)
		}
	}

	for _, e := range rc.Evals {
		for _, v := range e.AllReads.Items() {
			for _, src := range generators[v] {
				rc.addDependEdge(e, src)
			}
		}
		for _, k := range e.InnerDepends.Items() {
			for _, src := range innerEvalGenerators[k] {
				rc.addDependEdge(e, src)
			}
		}
	}
}

func (rc *RefCollector) addDependEdge(e, src *EvalInfo) {
	if e == src {
		return
	}
	eSettle := e.Sensesp != nil && e.Sensesp.HasSettle
	srcSettle := src.Sensesp != nil && src.Sensesp.HasSettle
	if eSettle && !srcSettle {
		return
	}
	e.addDepend(src)
}

// computePostVars is the explicit pre-pass this package uses in place of
// the original's per-Var mutable scratch flag (see SPEC_FULL.md §4.1): every Var
// that AssignPost writes anywhere in the module, computed once up front
// so the main walk's post-tagging no longer depends on the order evals
// are visited in.
func computePostVars(cfuncs []*ir.CFunc) map[*ir.Var]bool {
	vars := make(map[*ir.Var]bool)

	var collectVars func(e ir.Expr)
	collectVars = func(e ir.Expr) {
		switch x := e.(type) {
		case *ir.VarRef:
			vars[x.Varp] = true
		case *ir.BinaryExpr:
			collectVars(x.Lhs)
			collectVars(x.Rhs)
		case *ir.UnaryExpr:
			collectVars(x.Operand)
		}
	}

	var walk func(stmts []ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ir.AssignPost:
				collectVars(s.Lhs)
			default:
				walk(stmt.Children())
			}
		}
	}

	for _, f := range cfuncs {
		walk(f.Body)
	}
	return vars
}

// defaultWrites returns the primary input ports no eval reads — the set
// the wrapper emits as bare `foreign_write` lines ahead of any
// sensitivity block (invariant 5).
func (rc *RefCollector) defaultWrites() []*ir.Var {
	read := newVarSet()
	for _, e := range rc.Evals {
		for _, v := range e.PortReads.Items() {
			read.Add(v)
		}
	}

	var out []*ir.Var
	for _, port := range rc.Ports {
		if !port.IsInput() {
			continue
		}
		if !read.Has(port) {
			out = append(out, port)
		}
	}
	return out
}
