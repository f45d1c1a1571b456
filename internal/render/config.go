package render

import "image/color"

// Global render configuration for colors and logical canvas.
var (
	Foreground = color.RGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF} // #f8fafc
	Background = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF} // #0f172a
	Muted      = color.RGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF} // #94a3b8

	// Logical canvas size; scaled to framebuffer.
	CanvasWidth  = 1920
	CanvasHeight = 1080

	// DefaultTextSize is the point size used when a TextStyle leaves Size at 0.
	DefaultTextSize = 36
)
