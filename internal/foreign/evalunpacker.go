package foreign

import (
	"fmt"

	"github.com/foreignif/vfie/internal/diag"
	"github.com/foreignif/vfie/internal/ir"
)

// portKey and evalKey are the memoization keys EvalUnpacker caches shadow
// ports and cross-module eval functions under. Instance identity is the
// pointer, never the (name, modName) pair — two ForeignInstance values
// never alias just because their fields happen to match.
type portKey struct {
	Instance *ir.ForeignInstance
	Port     string
}

type evalKey struct {
	Instance *ir.ForeignInstance
	Name     string
}

// EvalUnpacker rewrites a module's ForeignEval IR nodes into concrete
// assignment sequences plus cross-boundary calls. It runs on every
// module in the netlist, not only foreign-interface sources, because a
// ForeignEval can appear in any module that instantiates a foreign
// sub-module.
type EvalUnpacker struct {
	module   *ir.Module
	topScope *ir.TopScope

	ports map[portKey]*ir.VarRef
	funcs map[evalKey]*ir.CFunc

	uncondEvals []*ir.ForeignEval
}

// NewEvalUnpacker constructs an EvalUnpacker over mod and rewrites its
// ForeignEval nodes in place. A structural violation (missing topscope,
// a shadow port reused with an inconsistent direction) returns an error.
func NewEvalUnpacker(mod *ir.Module) (eu *EvalUnpacker, err error) {
	eu = &EvalUnpacker{
		module: mod,
		ports:  make(map[portKey]*ir.VarRef),
		funcs:  make(map[evalKey]*ir.CFunc),
	}

	defer func() {
		if r := recover(); r != nil {
			fp, ok := r.(fatalPanic)
			if !ok {
				panic(r)
			}
			eu = nil
			err = fp.err
		}
	}()

	eu.unpack()
	return eu, nil
}

func (eu *EvalUnpacker) fatalf(pos diag.Pos, format string, args ...any) {
	panic(fatalPanic{diag.NewFatal(pos, format, args...)})
}

func (eu *EvalUnpacker) unpack() {
	top := eu.module.Top
	if top == nil {
		eu.fatalf(eu.module.Pos(), "module %q has no topscope", eu.module.Name)
	}
	eu.topScope = top
	scope := top.Scope

	for _, f := range scope.CFuncs {
		f.Body = eu.rewriteStmts(f.Body)
	}
	for _, a := range scope.Actives {
		a.Stmts = eu.rewriteStmts(a.Stmts)
	}

	eu.emitUncondEvals(scope)
}

// rewriteStmts replaces every conditional ForeignEval in stmts with its
// unpacked sequence, buffers every unconditional ForeignEval for
// emitUncondEvals and removes it from the list, and descends into
// generic nested blocks so a ForeignEval guarded by an if-arm is still
// found and rewritten.
func (eu *EvalUnpacker) rewriteStmts(stmts []ir.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ir.ForeignEval:
			if s.Unconditional {
				eu.uncondEvals = append(eu.uncondEvals, s)
				continue
			}
			out = append(out, eu.unpackForeignEval(s)...)

		case *ir.Block:
			out = append(out, &ir.Block{P: s.Pos(), Stmts: eu.rewriteStmts(s.Stmts)})

		default:
			out = append(out, stmt)
		}
	}
	return out
}

// unpackForeignEval realizes one conditional ForeignEval as the
// statement sequence described in §4.4: a debug-scope push, the unpacked
// writes, the cross-module call, a debug-scope pop, then the unpacked
// reads.
func (eu *EvalUnpacker) unpackForeignEval(fe *ir.ForeignEval) []ir.Stmt {
	seq := make([]ir.Stmt, 0, len(fe.Writes)+len(fe.Reads)+3)

	seq = append(seq, pushScopeText(fe.Pos(), fe.Instance.Name))

	for _, w := range fe.Writes {
		shadow := eu.foreignPortVar(fe, w.Name, w.DType, true)
		seq = append(seq, &ir.Assign{P: w.Pos(), Lhs: shadow.Clone(), Rhs: ir.CloneExpr(w.Src)})
	}

	fn := eu.foreignEvalFunc(fe)
	seq = append(seq, &ir.CCall{
		P:        fe.Pos(),
		Func:     fn,
		ArgTypes: fmt.Sprintf("vlTOPp->__F%s->__VlSymsp", fe.Instance.Name),
	})

	seq = append(seq, popScopeText(fe.Pos()))

	for _, r := range fe.Reads {
		shadow := eu.foreignPortVar(fe, r.Name, r.DType, false)
		seq = append(seq, &ir.Assign{P: r.Pos(), Lhs: ir.CloneExpr(r.Dst), Rhs: shadow.Clone()})
	}

	return seq
}

// foreignPortVar returns the memoized shadow-port VarRef for
// (fe.Instance, portName), synthesizing the Var/VarScope pair on first
// use. A later request for the same port with a different direction is a
// structural violation: the two ForeignRead/ForeignWrite sites disagree
// about which way the signal flows.
func (eu *EvalUnpacker) foreignPortVar(fe *ir.ForeignEval, portName string, dtype *ir.DType, lvalue bool) *ir.VarRef {
	key := portKey{Instance: fe.Instance, Port: portName}
	if existing, ok := eu.ports[key]; ok {
		if existing.Lvalue != lvalue {
			eu.fatalf(fe.Pos(), "inconsistent port direction for %s.%s", fe.Instance.Name, portName)
		}
		return existing
	}

	varp := &ir.Var{
		P:        fe.Pos(),
		Name:     shadowPortName(fe.Instance.Name, portName),
		DType:    dtype,
		IsPublic: true,
	}
	varScope := &ir.VarScope{P: fe.Pos(), Varp: varp}
	eu.topScope.Scope.AddVar(varp, varScope)

	ref := &ir.VarRef{P: fe.Pos(), Varp: varp, Lvalue: lvalue}
	eu.ports[key] = ref
	return ref
}

// foreignEvalFunc returns the memoized, declaration-only CFunc
// representing the inner module's eval entry point, synthesizing it on
// first use.
func (eu *EvalUnpacker) foreignEvalFunc(fe *ir.ForeignEval) *ir.CFunc {
	key := evalKey{Instance: fe.Instance, Name: fe.Name}
	if f, ok := eu.funcs[key]; ok {
		return f
	}

	f := &ir.CFunc{
		P:            fe.Pos(),
		Name:         "V" + fe.Instance.ModName + "::" + fe.Name,
		SkipDecl:     true,
		IsForeignFFI: true,
		DontCombine:  true,
		IsStatic:     true,
	}
	eu.topScope.Scope.AddCFunc(f)
	eu.funcs[key] = f
	return f
}

// emitUncondEvals synthesizes the module's single `_foreign_uncond`
// routine: every buffered unconditional write, followed by one
// push/call/pop sequence per sub-module instance, reusing one
// `V<modName>::_foreign_uncond` declaration per distinct modName. This
// function is synthesized for every module, even one with no
// unconditional evals or instances, so an outer module that always calls
// it never needs to special-case an empty inner module.
func (eu *EvalUnpacker) emitUncondEvals(scope *ir.Scope) {
	pos := eu.module.Pos()
	funcp := &ir.CFunc{
		P:           pos,
		Name:        "_foreign_uncond",
		ArgTypes:    symClassArg,
		SymProlog:   true,
		DontCombine: true,
		IsStatic:    true,
	}

	body := []ir.Stmt{&ir.Text{P: pos, Literal: activitySet}}

	for _, fe := range eu.uncondEvals {
		for _, w := range fe.Writes {
			shadow := eu.foreignPortVar(fe, w.Name, w.DType, true)
			body = append(body, &ir.Assign{P: w.Pos(), Lhs: shadow.Clone(), Rhs: ir.CloneExpr(w.Src)})
		}
	}

	createdByModName := make(map[string]*ir.CFunc)
	for _, inst := range scope.Instances {
		sub, ok := createdByModName[inst.ModName]
		if !ok {
			sub = &ir.CFunc{
				P:            inst.Pos(),
				Name:         "V" + inst.ModName + "::_foreign_uncond",
				SkipDecl:     true,
				IsForeignFFI: true,
				DontCombine:  true,
				IsStatic:     true,
			}
			eu.topScope.Scope.AddCFunc(sub)
			createdByModName[inst.ModName] = sub
		}

		body = append(body, pushScopeText(inst.Pos(), inst.Name))
		body = append(body, &ir.CCall{
			P:        inst.Pos(),
			Func:     sub,
			ArgTypes: fmt.Sprintf("vlTOPp->__F%s->__VlSymsp", inst.Name),
		})
		body = append(body, popScopeText(inst.Pos()))
	}

	funcp.Body = body
	eu.topScope.Scope.AddCFunc(funcp)
}

// shadowPortName builds the per-instance shadow-port variable name, the
// way the boundary struct the inner module expects is addressed from the
// outer module's generated code.
func shadowPortName(instanceName, portName string) string {
	return "__F" + instanceName + "->" + portName
}

func pushScopeText(pos diag.Pos, instanceName string) *ir.Text {
	return &ir.Text{P: pos, Literal: fmt.Sprintf("VL_DEBUG_PUSH_FOREIGN_SCOPE(%q);\n", instanceName)}
}

func popScopeText(pos diag.Pos) *ir.Text {
	return &ir.Text{P: pos, Literal: "VL_DEBUG_POP_FOREIGN_SCOPE();\n"}
}
