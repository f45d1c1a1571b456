//go:build !linux

package system

import (
	"context"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

type inputLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// StartExitOnF4 is a no-op off Linux.
func StartExitOnF4(ctx context.Context, logger inputLogger, onExit func()) {}

// StartTouchInput attaches nothing off Linux.
func StartTouchInput(ctx context.Context, devices []string, mapper ScreenMapper, logger inputLogger, dispatch func(sketch.Event)) (int, error) {
	if logger != nil {
		logger.Infof("input", "touch input is only available on linux")
	}
	return 0, nil
}
