package ir

import "fmt"

// DType is a simplified data type descriptor: wide enough to round-trip
// through the wrapper emitter's port declarations and the shadow-port
// synthesis in EvalUnpacker, without pulling in the full elaborated type
// system (basic types, packed structs, unpacked arrays, ...) that's out of
// scope for this stage.
type DType struct {
	// Name is the printed form, e.g. "logic", "logic [7:0]", "int".
	Name string
}

func (d *DType) String() string {
	if d == nil {
		return "logic"
	}
	return d.Name
}

// Bit is the common 1-bit logic type, used as a default in tests and
// synthetic nodes.
var Bit = &DType{Name: "logic"}

// Vec returns an N-bit packed vector type, e.g. Vec(8) -> "logic [7:0]".
func Vec(width int) *DType {
	if width <= 1 {
		return Bit
	}
	return &DType{Name: fmt.Sprintf("logic [%d:0]", width-1)}
}
