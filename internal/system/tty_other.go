//go:build !linux

package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EnterGraphics is a no-op off Linux.
func EnterGraphics(l logger) (restore func()) { return func() {} }
