package util

import (
	"os"

	"golang.org/x/term"
)

// IsATTY checks if stdout is a terminal
func IsATTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
