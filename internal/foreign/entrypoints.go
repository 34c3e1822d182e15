package foreign

import "github.com/foreignif/vfie/internal/ir"

// symClassArg is the argument type every synthesized top-level entry
// point takes: a pointer to the module's symbol table, the way every
// scheduled function the base emitter generates does.
const symClassArg = "vlSymsp"

// activitySet is the textual side effect that marks the simulator's
// activity flag dirty, spliced into every synthesized entry point so the
// trace subsystem knows to re-sample.
const activitySet = "vlSymsp->__Vm_activity = true;\n"

// AddEntryPoints synthesizes a thin `_foreign<name>` stub for every
// unique CFunc realizing an eval, when tracing is enabled. Each stub
// takes the symbol-class argument, runs the symbol-table prolog, calls
// the original eval function, and then marks the activity flag dirty —
// so the trace subsystem observes every foreign-driven activation
// without this stage's callers needing to know which functions are
// foreign evals.
//
// If tracing is disabled this is a no-op: nothing consumes the stubs,
// and synthesizing them would only grow the IR for no benefit.
func (rc *RefCollector) AddEntryPoints() {
	if !rc.cfg.Trace {
		return
	}

	seen := make(map[*ir.CFunc]bool)
	var unique []*ir.CFunc
	for _, e := range rc.Evals {
		if seen[e.Funcp] {
			continue
		}
		seen[e.Funcp] = true
		unique = append(unique, e.Funcp)
	}

	scope := rc.topScope.Scope
	for _, f := range unique {
		stub := &ir.CFunc{
			P:         f.Pos(),
			Name:      "_foreign" + f.Name,
			ArgTypes:  symClassArg,
			SymProlog: true,
		}
		call := &ir.CCall{P: f.Pos(), Func: f, ArgTypes: symClassArg}
		stub.Body = []ir.Stmt{
			call,
			&ir.Text{P: f.Pos(), Literal: activitySet},
		}
		scope.AddCFunc(stub)
	}
}
