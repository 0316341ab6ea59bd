//go:build windows

package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isTerminal checks if the file is a terminal on Windows.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
