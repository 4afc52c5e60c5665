// ProtStats - Proteomics data analysis
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/ProtStats/cmd/protstats/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
