package foreign

import (
	"fmt"
	"io"

	"github.com/foreignif/vfie/internal/ir"
)

// WrapperEmitter renders a finished RefCollector's state into the
// synthetic wrapper module text the outer simulator reads annotations
// from. It never re-derives anything RefCollector has already computed —
// every line it writes comes directly off Ports, Evals or defaultWrites.
type WrapperEmitter struct {
	rc *RefCollector
}

// NewWrapperEmitter wraps a finished RefCollector for emission.
func NewWrapperEmitter(rc *RefCollector) *WrapperEmitter {
	return &WrapperEmitter{rc: rc}
}

// Emit writes the complete wrapper module to w, in the exact sequence
// the outer simulator's annotation protocol expects (see §6 of the
// design): tracing/lint pragmas, port-list header, default writes, one
// sensitivity block per eval, module trailer.
func (we *WrapperEmitter) Emit(w io.Writer) error {
	mod := we.rc.module

	if err := we.emitModuleOpen(w, mod); err != nil {
		return err
	}
	if err := we.emitModuleOpenDone(w, mod); err != nil {
		return err
	}
	if err := we.emitDefaultWrites(w); err != nil {
		return err
	}
	for _, e := range we.rc.Evals {
		if err := we.emitEvalBlock(w, e); err != nil {
			return err
		}
	}
	return we.emitModuleClose(w, mod)
}

func (we *WrapperEmitter) emitModuleOpen(w io.Writer, mod *ir.Module) error {
	if _, err := fmt.Fprint(w,
		"// verilator tracing_off\n"+
			"// verilator lint_off UNOPTFLAT\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s foreign_%s (\n", mod.Kwd, mod.ForeignName); err != nil {
		return err
	}
	for i, port := range we.rc.Ports {
		if i > 0 {
			if _, err := fmt.Fprint(w, ",\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s %s %s", port.Keyword(), port.DType, port.PrettyName); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}

func (we *WrapperEmitter) emitModuleOpenDone(w io.Writer, mod *ir.Module) error {
	_, err := fmt.Fprintf(w,
		");\n"+
			"// verilator inline_module\n"+
			"// verilator foreign_interface %s\n", mod.ForeignName)
	return err
}

// emitDefaultWrites emits one bare foreign_write line per primary input
// port no eval reads (invariant 5): signals like a free-running clock
// that only ever appear in a sensitivity list, never in logic, but that
// the inner module still needs sampled every cycle.
func (we *WrapperEmitter) emitDefaultWrites(w io.Writer) error {
	for _, port := range we.rc.defaultWrites() {
		if _, err := fmt.Fprintf(w, "// verilator foreign_write %s\n", port.Name); err != nil {
			return err
		}
	}
	return nil
}

func (we *WrapperEmitter) emitEvalBlock(w io.Writer, e *EvalInfo) error {
	if err := we.emitSentreeOpen(w, e); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "// verilator foreign_eval %s\n", we.funcAnnotationName(e.Funcp)); err != nil {
		return err
	}
	for _, dep := range e.Depends {
		if _, err := fmt.Fprintf(w, "// verilator foreign_depend %s\n", we.funcAnnotationName(dep.Funcp)); err != nil {
			return err
		}
	}
	for _, port := range e.PortReads.Items() {
		if _, err := fmt.Fprintf(w, "// verilator foreign_write %s\n", port.Name); err != nil {
			return err
		}
	}
	for _, wt := range e.PortWrites.Items() {
		tag := "foreign_read"
		if wt.Post {
			tag = "foreign_read_post"
		}
		if _, err := fmt.Fprintf(w, "// verilator %s %s\n", tag, wt.Var.Name); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "end\n")
	return err
}

func (we *WrapperEmitter) emitSentreeOpen(w io.Writer, e *EvalInfo) error {
	switch e.BlockType {
	case Initial:
		_, err := fmt.Fprint(w, "initial begin\n")
		return err
	case Final:
		_, err := fmt.Fprint(w, "final begin\n")
		return err
	default:
		if e.Sensesp != nil && e.Sensesp.HasSettle {
			_, err := fmt.Fprint(w, "always @(foreign_settle) begin\n")
			return err
		}
		_, err := fmt.Fprintf(w, "always %s begin\n", e.Sensesp.String())
		return err
	}
}

func (we *WrapperEmitter) emitModuleClose(w io.Writer, mod *ir.Module) error {
	_, err := fmt.Fprintf(w, "end%s\n", mod.Kwd)
	return err
}

// funcAnnotationName prefixes the eval function's name with `_foreign`
// when global tracing is enabled, matching the entry-point stubs
// RefCollector.AddEntryPoints synthesizes in that mode.
func (we *WrapperEmitter) funcAnnotationName(f *ir.CFunc) string {
	if we.rc.cfg.Trace {
		return "_foreign" + f.Name
	}
	return f.Name
}

// Emit renders the wrapper module for a finished collection, the
// RefCollector-facing half of the public contract (§4.1(d)); the actual
// rendering logic lives in WrapperEmitter so the two responsibilities —
// collecting references and rendering them — stay in separate files.
func (rc *RefCollector) Emit(w io.Writer) error {
	return NewWrapperEmitter(rc).Emit(w)
}
