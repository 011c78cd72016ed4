package remote

import "al.essio.dev/pkg/shellescape"

// Quote returns s as a single POSIX shell word.
func Quote(s string) string {
	return shellescape.Quote(s)
}

// SudoCommand wraps command so it runs through a root shell without prompting.
func SudoCommand(command string) string {
	return "sudo -n sh -c " + Quote(command)
}
