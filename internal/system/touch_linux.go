//go:build linux

package system

import (
	"context"
	"errors"

	"github.com/rook-computer/sketchpad/internal/sketch"
)

// StartTouchInput finds absolute-pointer devices among devices (or every
// /dev/input/event* when empty) and forwards their touches to dispatch.
// It returns the number of devices attached; zero is not an error.
func StartTouchInput(ctx context.Context, devices []string, mapper ScreenMapper, logger inputLogger, dispatch func(sketch.Event)) (int, error) {
	if dispatch == nil {
		return 0, errors.New("touch input: no dispatch func")
	}
	paths, err := evdevPaths(devices)
	if err != nil {
		return 0, err
	}

	attached := 0
	for _, path := range paths {
		tracker, ok := detectTouch(path)
		if !ok {
			continue
		}
		tracker.Map = mapper
		attached++
		if logger != nil {
			logger.Infof("input", "touchscreen %s x=%d..%d y=%d..%d", path, tracker.X.Min, tracker.X.Max, tracker.Y.Min, tracker.Y.Max)
		}
		go func() {
			err := readEvents(ctx, path, func(ev InputEvent) bool {
				if out, ok := tracker.Feed(ev); ok {
					dispatch(out)
				}
				return true
			})
			if err != nil && logger != nil {
				logger.Errorf("input", "touchscreen %s stopped: %v", path, err)
			}
		}()
	}
	if attached == 0 && logger != nil {
		logger.Infof("input", "no touchscreen found")
	}
	return attached, nil
}

// detectTouch reads the axis ranges; it prefers the multi-touch axes and falls back to ABS_X/ABS_Y.
func detectTouch(path string) (*TouchTracker, bool) {
	for _, axes := range [][2]uint16{{absMTPositionX, absMTPositionY}, {absX, absY}} {
		x, errX := queryAxis(path, axes[0])
		y, errY := queryAxis(path, axes[1])
		if errX == nil && errY == nil {
			return &TouchTracker{X: x, Y: y}, true
		}
	}
	return nil, false
}
