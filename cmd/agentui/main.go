package main

import (
	"fmt"
	"os"

	"github.com/agentui/agentui/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	err := cli.NewRootCmd(version).Execute()
	if code, printed := cli.ExitCode(err); code != 0 {
		if printed {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(code)
	}
}
