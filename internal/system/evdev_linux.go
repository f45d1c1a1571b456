//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

const evdevGlob = "/dev/input/event*"

// inputEventLayout returns the size of struct input_event and the offset of
// its type field. input_event = timeval + u16 type + u16 code + s32 value.
func inputEventLayout() (size, tvSize int) {
	tvSize = binary.Size(unix.Timeval{})
	return tvSize + 2 + 2 + 4, tvSize
}

// decodeInputEvents splits buf into records, calling fn for each complete one.
func decodeInputEvents(buf []byte, fn func(InputEvent)) {
	size, tv := inputEventLayout()
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		fn(InputEvent{
			Type:  binary.LittleEndian.Uint16(rec[tv : tv+2]),
			Code:  binary.LittleEndian.Uint16(rec[tv+2 : tv+4]),
			Value: int32(binary.LittleEndian.Uint32(rec[tv+4 : tv+8])),
		})
	}
}

func evdevPaths(devices []string) ([]string, error) {
	if len(devices) > 0 {
		return devices, nil
	}
	return filepath.Glob(evdevGlob)
}

// readEvents polls one evdev device until ctx is done, the device goes away
// or fn returns false.
func readEvents(ctx context.Context, path string, fn func(InputEvent) bool) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	size, _ := inputEventLayout()
	buf := make([]byte, size*64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("poll %s: %w", path, err)
		}
		if pollFds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return fmt.Errorf("%s: device gone", path)
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("read %s: %w", path, err)
		}

		keepGoing := true
		decodeInputEvents(buf[:n], func(ev InputEvent) {
			if keepGoing {
				keepGoing = fn(ev)
			}
		})
		if !keepGoing {
			return nil
		}
	}
}

// struct input_absinfo from linux/input.h.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// eviocgabs builds EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo).
func eviocgabs(abs uint16) uintptr {
	const iocRead = 2
	size := unsafe.Sizeof(absInfo{})
	return uintptr(iocRead<<30) | size<<16 | uintptr('E')<<8 | uintptr(0x40+abs)
}

// queryAxis reads an absolute axis range; devices without it report an error.
func queryAxis(path string, code uint16) (AxisRange, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return AxisRange{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var info absInfo
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), eviocgabs(code), uintptr(unsafe.Pointer(&info))); errno != 0 {
		return AxisRange{}, fmt.Errorf("EVIOCGABS %s: %w", path, errno)
	}
	if info.Maximum <= info.Minimum {
		return AxisRange{}, fmt.Errorf("%s: empty axis %#x", path, code)
	}
	return AxisRange{Min: info.Minimum, Max: info.Maximum}, nil
}
