package main

import (
	"context"
	"os"

	"ocmhub/internal/cli"
)

func main() {
	// Errors are printed by the printer package before they reach here.
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
