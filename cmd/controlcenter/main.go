// Package main provides the CLI entrypoint for controlcenter.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/batocera-linux/controlcenter/internal/app"
)

func main() {
	os.Exit(exitCode(Execute(os.Args[1:])))
}

// exitCode maps a command error to the process status.
func exitCode(err error) int {
	if err == nil {
		return app.ExitOK
	}
	var exitErr *app.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "ERROR:", err)
	return app.ExitEnvironment
}
