package audit

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsInteractive reports whether stdin is a TTY. The CLI uses this to decide
// whether to ask for confirmation before posting a review; CI pipelines and
// piped input never get prompted.
func IsInteractive() bool {
	return IsTTY(os.Stdin.Fd())
}
