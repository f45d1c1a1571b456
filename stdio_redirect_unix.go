//go:build unix

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// redirectStdIO points fds 1 and 2 at path, so runtime panics from any
// goroutine land in the file too.
func redirectStdIO(path string) error {
	f, err := openStdioLog(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, std := range []*os.File{os.Stdout, os.Stderr} {
		if err := unix.Dup2(int(f.Fd()), int(std.Fd())); err != nil {
			return fmt.Errorf("dup %s: %w", std.Name(), err)
		}
	}
	return nil
}

// openStdioLog appends to path and marks where this run starts.
func openStdioLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("stdio log: %w", err)
	}
	fmt.Fprintf(f, "--- sketchpad %s pid %d %s ---\n", version, os.Getpid(), time.Now().Format(time.RFC3339))
	return f, nil
}
