// Package diag formats and reports the fatal diagnostics the foreign-interface
// emitter raises when it encounters IR it cannot process.
//
// The emitter never recovers from one of these: a structural violation means
// the netlist reaching this stage is not what the scheduler promised, and
// continuing would silently emit a wrong wrapper or a wrong call sequence.
package diag

import (
	"fmt"
	"strings"
)

// Pos identifies a source location carried on an IR node, for pointing a
// diagnostic back at the Verilog that produced it.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Fatal is a structural IR violation: the stage's contract with its
// collaborators (the scheduler, the scoping pass) was not honored.
type Fatal struct {
	Pos     Pos
	Message string
}

// NewFatal builds a Fatal diagnostic anchored at pos.
func NewFatal(pos Pos, format string, args ...any) *Fatal {
	return &Fatal{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Fatal) Error() string {
	return e.Format()
}

// Format renders the diagnostic the way the compiler's fatal channel prints
// it: location first, so an editor jump-to-error works, message after.
func (e *Fatal) Format() string {
	var sb strings.Builder
	sb.WriteString("%Error: ")
	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}
