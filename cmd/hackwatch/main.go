// main is the entry point for the hackwatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/hackwatch/hackwatch/cmd"
	"github.com/hackwatch/hackwatch/internal/iostore"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	defer iostore.CloseStores()

	cmd.SetStoreManager(iostore.Manager)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return err
	}
	return nil
}
