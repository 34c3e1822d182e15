package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fie",
	Short: "Foreign-interface emitter for a Verilog/SystemVerilog netlist",
	Long: `fie runs the foreign-interface-emitter stage of a Verilog/SystemVerilog
simulation compiler standalone: given a netlist of modules, it emits a
synthetic wrapper module for every foreign-interface source and rewrites
ForeignEval nodes in every module into concrete marshaling call sequences.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
