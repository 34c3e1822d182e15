package foreign

import "github.com/foreignif/vfie/internal/ir"

// Test fixtures below build minimal IR trees by hand instead of going
// through internal/netlistio, so each scenario stays a single
// self-contained Go value a reader can check against the comment above
// it without chasing a JSON file.

func newVar(name string, dir ir.Direction, primary bool) *ir.Var {
	return &ir.Var{Name: name, PrettyName: name, DType: ir.Bit, Dir: dir, IsPrimaryIO: primary}
}

// newVarPretty builds a Var whose escaped Name differs from its
// human-readable PrettyName, the way Verilog's `\foo.bar ` escaped
// identifiers do.
func newVarPretty(name, prettyName string, dir ir.Direction, primary bool) *ir.Var {
	return &ir.Var{Name: name, PrettyName: prettyName, DType: ir.Bit, Dir: dir, IsPrimaryIO: primary}
}

func varRef(v *ir.Var, lvalue bool) *ir.VarRef {
	return &ir.VarRef{Varp: v, Lvalue: lvalue}
}

func newModule(name, foreignName string, scope *ir.Scope) *ir.Module {
	return &ir.Module{
		Name:        name,
		Kwd:         ir.KwdModule,
		ForeignName: foreignName,
		Top:         &ir.TopScope{Scope: scope},
	}
}

// activeFor wraps body in a CFunc and an Active with the given sensitivity,
// the shape RefCollector.walkActive expects an eval entry point in.
func activeFor(sens *ir.SenTree, name string, body ...ir.Stmt) (*ir.Active, *ir.CFunc) {
	f := &ir.CFunc{Name: name, Body: body}
	return &ir.Active{Sensesp: sens, Stmts: []ir.Stmt{&ir.CCall{Func: f}}}, f
}
