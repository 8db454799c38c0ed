package main

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/multistart/internal/objective"
	"github.com/cwbudde/multistart/internal/opt"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and the available methods and objectives",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "multistart version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "methods: %v\n", opt.Methods())
			fmt.Fprintf(out, "objectives: %v\n", objective.Names())
		},
	}
}
