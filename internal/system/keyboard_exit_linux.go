//go:build linux

package system

import (
	"context"
	"sync"
)

type inputLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// StartExitOnF4 watches Linux evdev devices under /dev/input/event* and invokes onExit
// once when the F4 key is pressed.
//
// It is best-effort: if no input devices are available, it logs and returns.
func StartExitOnF4(ctx context.Context, logger inputLogger, onExit func()) {
	if onExit == nil {
		return
	}

	paths, err := evdevPaths(nil)
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found for F4 exit")
		}
		return
	}

	var once sync.Once
	triggerExit := func() {
		once.Do(func() {
			if logger != nil {
				logger.Infof("input", "F4 pressed: exiting")
			}
			onExit()
		})
	}

	for _, path := range paths {
		go func() {
			_ = readEvents(ctx, path, func(ev InputEvent) bool {
				if IsExitKey(ev) {
					triggerExit()
					return false
				}
				return true
			})
		}()
	}
}
