package foreign

import "github.com/foreignif/vfie/internal/ir"

// BlockType classifies the sensitivity an eval runs under. Final is
// recognized by the wrapper emitter but never produced by the collector
// today — the front end has no construct that schedules one (see
// DESIGN.md, Open Question 1).
type BlockType int

const (
	Always BlockType = iota
	Initial
	Final
)

// WriteTag pairs a port with whether the write reaching it was observed
// through the post-NBA commit phase. Two WriteTags are equal iff both
// the Var and the Post bit match.
type WriteTag struct {
	Var  *ir.Var
	Post bool
}

// foreignEvalKey names one nested foreign-eval site: an instance plus the
// inner eval name it invokes. Instance identity is the struct pointer,
// never the (name, modName) string pair, so two instances of the same
// sub-module never alias.
type foreignEvalKey struct {
	Instance *ir.ForeignInstance
	Name     string
}

// EvalInfo is one record per discovered eval entry point.
type EvalInfo struct {
	BlockType BlockType
	Sensesp   *ir.SenTree // nil for Initial blocks
	Funcp     *ir.CFunc

	// PortReads/PortWrites are restricted to primary I/O and drive the
	// wrapper's foreign_write/foreign_read annotations.
	PortReads  *varSet
	PortWrites *writeTagSet

	// AllReads/AllWrites include internal signals and exist only to
	// derive the dependency graph.
	AllReads  *varSet
	AllWrites *writeTagSet

	InnerEvals   *foreignEvalSet
	InnerDepends *foreignEvalSet

	// Depends is the dependency closure built in RefCollector's second
	// pass: direct edges only, no transitive closure.
	Depends []*EvalInfo
}

func newEvalInfo() *EvalInfo {
	return &EvalInfo{
		PortReads:    newVarSet(),
		PortWrites:   newWriteTagSet(),
		AllReads:     newVarSet(),
		AllWrites:    newWriteTagSet(),
		InnerEvals:   newForeignEvalSet(),
		InnerDepends: newForeignEvalSet(),
	}
}

// addDepend records a dependency edge once, never against itself —
// enforcing invariant 3 (e ∉ e.depends) at the point of insertion.
func (e *EvalInfo) addDepend(src *EvalInfo) {
	if src == e {
		return
	}
	for _, existing := range e.Depends {
		if existing == src {
			return
		}
	}
	e.Depends = append(e.Depends, src)
}

// ---- ordered, deduplicating collections -----------------------------
//
// Every "set" the collector builds must iterate in a stable, reproducible
// order across runs on identical input (§5). Rather than sort by pointer
// identity — which is not reproducible across separate compiler
// invocations — every set preserves first-insertion order, matching the
// IR's own natural (scope-children) traversal order.

type varSet struct {
	items []*ir.Var
	index map[*ir.Var]bool
}

func newVarSet() *varSet {
	return &varSet{index: make(map[*ir.Var]bool)}
}

func (s *varSet) Add(v *ir.Var) {
	if s.index[v] {
		return
	}
	s.index[v] = true
	s.items = append(s.items, v)
}

func (s *varSet) Has(v *ir.Var) bool { return s.index[v] }

func (s *varSet) Items() []*ir.Var { return s.items }

type writeTagSet struct {
	items []WriteTag
	index map[WriteTag]bool
}

func newWriteTagSet() *writeTagSet {
	return &writeTagSet{index: make(map[WriteTag]bool)}
}

func (s *writeTagSet) Add(tag WriteTag) {
	if s.index[tag] {
		return
	}
	s.index[tag] = true
	s.items = append(s.items, tag)
}

func (s *writeTagSet) Items() []WriteTag { return s.items }

type foreignEvalSet struct {
	items []foreignEvalKey
	index map[foreignEvalKey]bool
}

func newForeignEvalSet() *foreignEvalSet {
	return &foreignEvalSet{index: make(map[foreignEvalKey]bool)}
}

func (s *foreignEvalSet) Add(k foreignEvalKey) {
	if s.index[k] {
		return
	}
	s.index[k] = true
	s.items = append(s.items, k)
}

func (s *foreignEvalSet) Items() []foreignEvalKey { return s.items }
