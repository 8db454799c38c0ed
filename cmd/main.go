// Command multistart runs a parallel multistart local search from the
// command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "multistart: %v\n", err)
		os.Exit(1)
	}
}
