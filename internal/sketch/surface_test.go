package sketch

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"
)

func TestBufferSize(t *testing.T) {
	tests := []struct {
		w, h, ratio float64
		pw, ph      int
	}{
		{400, 300, 2, 800, 600},
		{400, 300, 1, 400, 300},
		{100.7, 50.3, 1.5, 151, 75},
		{10, 10, 0, 10, 10},
		{10, 10, -3, 10, 10},
	}
	for _, tt := range tests {
		pw, ph := BufferSize(tt.w, tt.h, tt.ratio)
		if pw != tt.pw || ph != tt.ph {
			t.Errorf("BufferSize(%v, %v, %v) = %dx%d, want %dx%d", tt.w, tt.h, tt.ratio, pw, ph, tt.pw, tt.ph)
		}
	}
}

func TestSurfaceResize(t *testing.T) {
	s, err := NewSurface(400, 300, 2)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if w, h := s.PixelSize(); w != 800 || h != 600 {
		t.Fatalf("PixelSize = %dx%d, want 800x600", w, h)
	}
	if err := s.Resize(120, 80, 1.25); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := s.PixelSize(); w != 150 || h != 100 {
		t.Errorf("PixelSize = %dx%d, want 150x100", w, h)
	}
	if w, h := s.CSSSize(); w != 120 || h != 80 {
		t.Errorf("CSSSize = %vx%v, want 120x80", w, h)
	}

	if err := s.Resize(0.4, 10, 1); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("Resize(0.4x10) = %v, want ErrInvalidSurface", err)
	}
}

func TestSurfaceRejectsOversizedBuffer(t *testing.T) {
	s, err := NewSurface(400, 300, 2)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name        string
		w, h, ratio float64
	}{
		{"huge", 3e9, 3e9, 1},
		{"wide", MaxBufferSide + 1, 10, 1},
		{"ratio", 5000, 10, 2},
		{"area", 8000, 8000, 1},
		{"infinite ratio", 10, 10, math.Inf(1)},
	}
	for _, tt := range tests {
		if err := s.Resize(tt.w, tt.h, tt.ratio); !errors.Is(err, ErrInvalidSurface) {
			t.Errorf("%s: Resize = %v, want ErrInvalidSurface", tt.name, err)
		}
	}
	if w, h := s.PixelSize(); w != 800 || h != 600 {
		t.Fatalf("PixelSize = %dx%d after rejected resizes, want 800x600", w, h)
	}
	if err := ValidateSize(MaxBufferSide, 10, 1); err != nil {
		t.Errorf("largest side rejected: %v", err)
	}
}

func TestSurfaceRepaintIdempotent(t *testing.T) {
	s, err := NewSurface(64, 48, 2)
	if err != nil {
		t.Fatal(err)
	}
	first := s.Image()
	s.Repaint()
	second := s.Image()
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("repainting twice produced different pixels")
	}

	// Between grid lines the paper is plain white.
	if got := first.RGBAAt(9*2, 9*2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("paper pixel = %v, want opaque white", got)
	}
}

func TestSurfaceScalesDrawing(t *testing.T) {
	for _, ratio := range []float64{1, 2} {
		s, err := NewSurface(100, 100, ratio)
		if err != nil {
			t.Fatal(err)
		}
		r := NewRenderer(SeededJitter(1))
		if err := r.Dot(s.Context(), Point{50, 50}, Options{Tool: ToolPen, Color: "#000000", Size: 10}); err != nil {
			t.Fatalf("Dot: %v", err)
		}
		img := s.Image()
		centre := int(50 * ratio)
		if got := img.RGBAAt(centre, centre); got.R > 10 || got.A != 255 {
			t.Errorf("ratio %v: centre pixel = %v, want black", ratio, got)
		}
		// Just outside the dot's radius in CSS pixels.
		outside := int(57 * ratio)
		if got := img.RGBAAt(outside, centre); got.R < 200 {
			t.Errorf("ratio %v: pixel outside dot = %v, want paper", ratio, got)
		}
	}
}
