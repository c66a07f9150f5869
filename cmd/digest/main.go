// Command digest emails a due-date report of the investment tracker.
package main

import (
	"os"

	"investment-digest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
