package main

import (
	"fmt"
	"os"

	"github.com/kafumanto/simplelock/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := cmd.RetryHint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "%s\n", hint)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
