// Command reviewlens serves and exports company review insights.
package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/reviewlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
