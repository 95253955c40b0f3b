package main

import (
	"errors"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(os.Args, defaultDeps()); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			if ce.msg != "" && !ce.printed {
				fmt.Fprintln(os.Stderr, ce.msg)
			}
			os.Exit(ce.exitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
