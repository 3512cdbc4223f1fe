// Command agent is the smith control-plane CLI: spawn container lifecycle
// commands and the four pipeline stage commands.
package main

import (
	"fmt"
	"os"

	"github.com/jdharrison/smith/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
