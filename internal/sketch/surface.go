package sketch

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/gogpu/gg"
)

const (
	// GridStep is the spacing of the paper grid in CSS pixels.
	GridStep  = 18.0
	gridAlpha = 0.02

	// MaxBufferSide and MaxBufferPixels bound the device-pixel buffer.
	MaxBufferSide   = 8192
	MaxBufferPixels = 32 << 20
)

// Surface is the pixel buffer behind the pad. Drawing happens in CSS pixels;
// the buffer holds floor(css * ratio) device pixels per axis.
type Surface struct {
	dc     *gg.Context
	width  float64
	height float64
	ratio  float64
}

// NewSurface allocates a surface and paints the paper background.
func NewSurface(width, height, ratio float64) (*Surface, error) {
	s := &Surface{}
	if err := s.Resize(width, height, ratio); err != nil {
		return nil, err
	}
	s.Repaint()
	return s, nil
}

// BufferSize returns the device-pixel dimensions for a CSS size and ratio.
func BufferSize(width, height, ratio float64) (int, int) {
	if !(ratio > 0) {
		ratio = 1
	}
	return int(math.Floor(width * ratio)), int(math.Floor(height * ratio))
}

// ValidateSize reports whether a CSS size and ratio give a buffer of at
// least 1x1 and within MaxBufferSide and MaxBufferPixels.
func ValidateSize(width, height, ratio float64) error {
	if !(ratio > 0) {
		ratio = 1
	}
	fw, fh := math.Floor(width*ratio), math.Floor(height*ratio)
	switch {
	case !(fw >= 1 && fh >= 1):
		return fmt.Errorf("%w: %vx%v at ratio %v", ErrInvalidSurface, width, height, ratio)
	case fw > MaxBufferSide || fh > MaxBufferSide || fw*fh > MaxBufferPixels:
		return fmt.Errorf("%w: %vx%v at ratio %v exceeds the %dpx buffer limit", ErrInvalidSurface, width, height, ratio, MaxBufferSide)
	}
	return nil
}

// Resize matches the buffer to the displayed size. The buffer content is
// undefined afterwards; callers repaint.
func (s *Surface) Resize(width, height, ratio float64) error {
	if !(ratio > 0) {
		ratio = 1
	}
	if err := ValidateSize(width, height, ratio); err != nil {
		return err
	}
	pw, ph := BufferSize(width, height, ratio)
	if s.dc == nil {
		s.dc = gg.NewContext(pw, ph)
	} else if err := s.dc.Resize(pw, ph); err != nil {
		return fmt.Errorf("resize buffer: %w", err)
	}
	// gg keeps the transform across Resize; rebuild it from identity.
	s.dc.Identity()
	s.dc.Scale(ratio, ratio)
	s.width, s.height, s.ratio = width, height, ratio
	return nil
}

// Repaint clears the buffer to white paper with a faint grid.
func (s *Surface) Repaint() {
	s.dc.ClearWithColor(gg.White)
	_ = withScope(s.dc, func() error {
		style := gg.DefaultStroke()
		style.Width = 1
		s.dc.SetStroke(style)
		s.dc.SetStrokeBrush(gg.SolidRGBA(0, 0, 0, gridAlpha))
		for x := 0.0; x < s.width; x += GridStep {
			s.dc.MoveTo(x, 0)
			s.dc.LineTo(x, s.height)
			_ = s.dc.Stroke()
		}
		for y := 0.0; y < s.height; y += GridStep {
			s.dc.MoveTo(0, y)
			s.dc.LineTo(s.width, y)
			_ = s.dc.Stroke()
		}
		return nil
	})
}

// Context exposes the drawing context for the renderer.
func (s *Surface) Context() *gg.Context { return s.dc }

func (s *Surface) CSSSize() (float64, float64) { return s.width, s.height }

// Matches reports whether the surface already has this CSS size and ratio.
func (s *Surface) Matches(width, height, ratio float64) bool {
	if !(ratio > 0) {
		ratio = 1
	}
	return s.dc != nil && s.width == width && s.height == height && s.ratio == ratio
}

func (s *Surface) Ratio() float64 { return s.ratio }

func (s *Surface) PixelSize() (int, int) { return s.dc.Width(), s.dc.Height() }

// Image returns a copy of the buffer.
func (s *Surface) Image() *image.RGBA {
	_ = s.dc.FlushGPU()
	src := s.dc.Image()
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// EncodePNG writes the buffer as a PNG image.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
