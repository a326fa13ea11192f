// Package prompt waits for a keypress before the program exits, so a window
// opened by double-clicking the binary stays visible.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// WaitForKey blocks until a single byte is read from in. A terminal is put
// into raw mode for the read so that any key works without Enter.
// End of input counts as a keypress.
func WaitForKey(in *os.File) error {
	fd := int(in.Fd()) //nolint:gosec // File descriptors fit in int
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, state) }()
	}

	var key [1]byte
	if _, err := in.Read(key[:]); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read key: %w", err)
	}
	return nil
}
