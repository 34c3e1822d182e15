package foreign

import "testing"

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	if c.Trace {
		t.Error("Trace should default to false")
	}
	if c.GenForeignInterface {
		t.Error("GenForeignInterface should default to false")
	}
}

func TestNewConfig_WithOptions(t *testing.T) {
	c := NewConfig(WithTrace(true), WithGenForeignInterface(true))
	if !c.Trace {
		t.Error("WithTrace(true) did not set Trace")
	}
	if !c.GenForeignInterface {
		t.Error("WithGenForeignInterface(true) did not set GenForeignInterface")
	}
}

func TestNewConfig_OptionsApplyInOrder(t *testing.T) {
	c := NewConfig(WithTrace(true), WithTrace(false))
	if c.Trace {
		t.Error("later option should win, got Trace = true")
	}
}
