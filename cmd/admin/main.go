// Command admin provides maintenance utilities for Yatube operators.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
