package foreign

import (
	"fmt"
	"io"

	"github.com/foreignif/vfie/internal/ir"
)

// FileOpener is the output-file collaborator: whatever actually creates
// and owns the wrapper file on disk. Injected so the stage can be driven
// against an in-memory sink in tests without touching the filesystem.
type FileOpener interface {
	Open(name string) (io.WriteCloser, error)
}

// Stage is the foreign-interface-emitter driver: for every module in a
// netlist that's a foreign-interface source, it runs RefCollector and
// WrapperEmitter to produce a wrapper file; for every module, it then
// runs EvalUnpacker to rewrite ForeignEval nodes into executable IR.
type Stage struct {
	cfg     Config
	makeDir string
	opener  FileOpener
}

// NewStage builds a Stage that writes wrapper files under makeDir using
// opener, configured by cfg.
func NewStage(cfg Config, makeDir string, opener FileOpener) *Stage {
	return &Stage{cfg: cfg, makeDir: makeDir, opener: opener}
}

// Run processes every module in the netlist, in order, and returns the
// first fatal diagnostic encountered.
func (s *Stage) Run(netlist *ir.Netlist) error {
	for _, mod := range netlist.Modules {
		if s.cfg.GenForeignInterface || mod.IsForeignModule() {
			if err := s.emitWrapper(mod); err != nil {
				return err
			}
		}

		if _, err := NewEvalUnpacker(mod); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stage) emitWrapper(mod *ir.Module) error {
	// A module forced through --gen-foreign-interface may carry no
	// foreign name; it takes its own module name, so every wrapper gets a
	// distinct file and a non-empty header.
	if mod.ForeignName == "" {
		mod.ForeignName = mod.Name
	}

	rc, err := NewRefCollector(mod, s.cfg)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/foreign_%s.v", s.makeDir, mod.ForeignName)
	w, err := s.opener.Open(path)
	if err != nil {
		return fmt.Errorf("open wrapper file %s: %w", path, err)
	}
	defer w.Close()

	if err := rc.Emit(w); err != nil {
		return fmt.Errorf("emit wrapper file %s: %w", path, err)
	}

	rc.AddEntryPoints()
	return nil
}
