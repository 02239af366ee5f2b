package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Command bdnav inspects Blu-ray disc folders and streams their titles.
// Errors are printed once with a bdnav prefix; an interrupted playback
// exits non-zero without a message.
func main() {
	cmd := newRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "bdnav: %v\n", err)
		}
		os.Exit(1)
	}
}
