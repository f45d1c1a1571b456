//go:build !linux

package render

import (
	"errors"
	"runtime"
)

func openDisplay(path string) (display, error) {
	return nil, errors.New("framebuffer is not supported on " + runtime.GOOS)
}
