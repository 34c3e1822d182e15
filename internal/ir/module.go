package ir

import "github.com/foreignif/vfie/internal/diag"

// Kwd is the Verilog module-kind keyword used in declaration and matching
// `end<kwd>` trailer ("module", "program", "interface", ...).
type Kwd string

const (
	KwdModule    Kwd = "module"
	KwdProgram   Kwd = "program"
	KwdInterface Kwd = "interface"
)

// Var is a signal declared in a module's top scope. Direction and
// primary-I/O-ness are the only facts the foreign-interface stage reads
// off it; everything else (packed dimensions, lifetime, access class)
// belongs to the type system and the general emitter.
type Var struct {
	P           diag.Pos
	Name        string
	PrettyName  string
	DType       *DType
	Dir         Direction
	IsPrimaryIO bool
	// IsPublic marks a variable as visible outside its own module — set
	// on every shadow port EvalUnpacker synthesizes, so the boundary
	// struct the inner module expects can see it.
	IsPublic bool
}

func (v *Var) Pos() diag.Pos { return v.P }

func (v *Var) IsInput() bool  { return v.Dir == DirInput || v.Dir == DirInout }
func (v *Var) IsOutput() bool { return v.Dir == DirOutput || v.Dir == DirInout }

// Keyword is the Verilog port-direction keyword the base emitter prints
// ahead of a port's type in a module header.
func (v *Var) Keyword() string {
	switch v.Dir {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	default:
		return ""
	}
}

// VarScope binds a Var into a particular scope. EvalUnpacker attaches one
// per shadow port it synthesizes; RefCollector never needs to look past
// the Var it wraps.
type VarScope struct {
	P    diag.Pos
	Varp *Var
}

func (vs *VarScope) Pos() diag.Pos { return vs.P }

// Scope is the single flat scope living under a module's TopScope,
// post-scheduling: variables, their scope bindings, the scheduled
// activation regions, and the scheduled functions those regions call.
type Scope struct {
	Vars      []*Var
	VarScopes []*VarScope
	Actives   []*Active
	CFuncs    []*CFunc
	// Instances lists the sub-module instantiations this module's
	// foreign evals may reference. EvalUnpacker reads this directly
	// rather than discovering instances through a generic tree walk.
	Instances []*ForeignInstance
}

// AddVar appends a synthesized Var/VarScope pair to the scope, the way
// EvalUnpacker attaches shadow ports.
func (s *Scope) AddVar(v *Var, vs *VarScope) {
	s.Vars = append(s.Vars, v)
	s.VarScopes = append(s.VarScopes, vs)
}

// AddCFunc appends a synthesized CFunc, the way EvalUnpacker attaches
// `_foreign_uncond` and RefCollector attaches trace entry-point stubs.
func (s *Scope) AddCFunc(f *CFunc) {
	s.CFuncs = append(s.CFuncs, f)
}

// TopScope is the sole scope-tree root a module carries after scoping.
// A module with no TopScope, or a traversal that reaches a second one,
// is a structural violation (see foreign.NewRefCollector).
type TopScope struct {
	P     diag.Pos
	Scope *Scope
}

func (ts *TopScope) Pos() diag.Pos { return ts.P }

// Module is one entry in the netlist: a foreign-interface source if
// ForeignName is set, a plain module otherwise. EvalUnpacker runs on
// every module regardless; RefCollector and WrapperEmitter only run on
// foreign-interface sources.
type Module struct {
	P           diag.Pos
	Name        string
	Kwd         Kwd
	ForeignName string // non-empty iff this module is a foreign-interface boundary
	Top         *TopScope
}

func (m *Module) Pos() diag.Pos { return m.P }

// IsForeignModule reports whether this module is marked as a
// foreign-interface source.
func (m *Module) IsForeignModule() bool { return m.ForeignName != "" }

// Netlist is the whole compilation unit's module list, in declaration
// order. The stage driver iterates it once.
type Netlist struct {
	Modules []*Module
}
