package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jopey-woof/turt3/cmd/calfix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrFixFailed) {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		}
		os.Exit(1)
	}
}
