package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foreignif/vfie/internal/foreign"
	"github.com/foreignif/vfie/internal/netlistio"
)

var (
	trace               bool
	genForeignInterface bool
	outDir              string
)

var runCmd = &cobra.Command{
	Use:   "run [netlist.json]",
	Short: "Run the foreign-interface emitter over a netlist",
	Long: `Read a JSON netlist description and run the foreign-interface-emitter
stage over it, writing wrapper modules for foreign-interface sources under
--out-dir.

Examples:
  # Emit wrappers only for modules marked as foreign-interface sources
  fie run netlist.json --out-dir ./out

  # Force wrapper emission for every module
  fie run netlist.json --out-dir ./out --gen-foreign-interface

  # Enable trace entry-point stub synthesis
  fie run netlist.json --out-dir ./out --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runStage,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&trace, "trace", false, "synthesize trace entry-point stubs")
	runCmd.Flags().BoolVar(&genForeignInterface, "gen-foreign-interface", false, "force wrapper emission for every module")
	runCmd.Flags().StringVar(&outDir, "out-dir", ".", "directory wrapper files are written under")
}

func runStage(_ *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open netlist %s: %w", path, err)
	}
	defer f.Close()

	netlist, err := netlistio.Decode(f)
	if err != nil {
		return fmt.Errorf("decode netlist %s: %w", path, err)
	}

	cfg := foreign.NewConfig(
		foreign.WithTrace(trace),
		foreign.WithGenForeignInterface(genForeignInterface),
	)

	stage := foreign.NewStage(cfg, outDir, foreign.DiskFileOpener{})

	if verbose {
		fmt.Fprintf(os.Stderr, "processing %d module(s) from %s\n", len(netlist.Modules), path)
	}

	if err := stage.Run(netlist); err != nil {
		return fmt.Errorf("foreign-interface emitter: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "wrote wrapper modules under %s\n", outDir)
	}
	return nil
}
