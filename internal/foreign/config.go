package foreign

// Config carries the stage's two global, read-only configuration bits.
// Both are injected explicitly rather than read from a package-level
// global, so the stage can be driven identically from the CLI and from
// tests.
type Config struct {
	// Trace enables the `_foreign` annotation prefix and entry-point stub
	// synthesis (see RefCollector.AddEntryPoints).
	Trace bool

	// GenForeignInterface forces wrapper emission for every module, not
	// only ones already marked as a foreign-interface source.
	GenForeignInterface bool
}

// Option configures a Config. Functional options keep Stage's
// constructor stable as more global bits are added.
type Option func(*Config)

// WithTrace toggles trace-entry-point synthesis.
func WithTrace(trace bool) Option {
	return func(c *Config) { c.Trace = trace }
}

// WithGenForeignInterface forces wrapper emission for every module.
func WithGenForeignInterface(gen bool) Option {
	return func(c *Config) { c.GenForeignInterface = gen }
}

// NewConfig builds a Config from zero or more Options.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
