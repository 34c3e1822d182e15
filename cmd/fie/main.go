// Command fie runs the foreign-interface-emitter stage standalone,
// reading a JSON netlist description and writing wrapper modules to an
// output directory.
package main

import (
	"fmt"
	"os"

	"github.com/foreignif/vfie/cmd/fie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
