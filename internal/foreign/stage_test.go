package foreign

import (
	"bytes"
	"io"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/foreignif/vfie/internal/ir"
)

// memOpener is an in-memory FileOpener stand-in, so Stage can be driven
// end to end without touching a real filesystem.
type memOpener struct {
	files map[string]*bytes.Buffer
}

func newMemOpener() *memOpener {
	return &memOpener{files: make(map[string]*bytes.Buffer)}
}

func (m *memOpener) Open(name string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	m.files[name] = buf
	return nopCloser{buf}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func TestStage_RunEmitsWrapperForForeignModuleOnly(t *testing.T) {
	a := newVar("a", ir.DirInput, true)
	foreignMod := newModule("inner", "inner", &ir.Scope{Vars: []*ir.Var{a}})
	plainMod := newModule("plain", "", &ir.Scope{})

	netlist := &ir.Netlist{Modules: []*ir.Module{foreignMod, plainMod}}

	opener := newMemOpener()
	stage := NewStage(Config{}, "out", opener)

	if err := stage.Run(netlist); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(opener.files) != 1 {
		t.Fatalf("got %d wrapper files, want 1", len(opener.files))
	}
	got, ok := opener.files["out/foreign_inner.v"]
	if !ok {
		t.Fatalf("no wrapper written for inner module, files = %v", mapKeys(opener.files))
	}
	snaps.MatchSnapshot(t, got.String())
}

func TestStage_RunGenForeignInterfaceForcesEveryModule(t *testing.T) {
	modA := newModule("a", "", &ir.Scope{})
	modB := newModule("b", "", &ir.Scope{})
	netlist := &ir.Netlist{Modules: []*ir.Module{modA, modB}}

	opener := newMemOpener()
	stage := NewStage(Config{GenForeignInterface: true}, "out", opener)

	if err := stage.Run(netlist); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(opener.files) != 2 {
		t.Fatalf("got %d wrapper files, want 2 (gen-foreign-interface forces every module)", len(opener.files))
	}
}

func mapKeys(m map[string]*bytes.Buffer) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
