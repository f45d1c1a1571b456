//go:build linux

package render

import (
	fb "github.com/gonutz/framebuffer"
)

type fbDisplay struct {
	*fb.Device
}

func (d fbDisplay) Close() { d.Device.Close() }

func openDisplay(path string) (display, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	return fbDisplay{Device: dev}, nil
}
