// Package layout holds rectangle arithmetic for screen composition.
package layout

import "image"

// Inset shrinks rect by paddingPx on all sides; a negative padding grows it.
// A rect too small for the padding collapses to its center.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	return Normalize(rect).Inset(paddingPx)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitVertical splits rect into left and right parts.
// leftWidthPx is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidthPx int) (left image.Rectangle, right image.Rectangle) {
	rect = Normalize(rect)
	leftWidthPx = clamp(leftWidthPx, 0, rect.Dx())
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidthPx, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidthPx, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	topHeightPx = clamp(topHeightPx, 0, rect.Dy())
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// CutRight removes a strip of widthPx from the right edge of rect, leaving
// gapPx between the two parts.
func CutRight(rect image.Rectangle, widthPx, gapPx int) (rest image.Rectangle, strip image.Rectangle) {
	rect = Normalize(rect)
	widthPx = clamp(widthPx, 0, rect.Dx())
	rest, strip = SplitVertical(rect, rect.Dx()-widthPx)
	rest.Max.X = max(rest.Min.X, rest.Max.X-gapPx)
	return rest, strip
}

// CutBottom removes a strip of heightPx from the bottom edge of rect,
// leaving gapPx between the two parts.
func CutBottom(rect image.Rectangle, heightPx, gapPx int) (rest image.Rectangle, strip image.Rectangle) {
	rect = Normalize(rect)
	heightPx = clamp(heightPx, 0, rect.Dy())
	rest, strip = SplitHorizontal(rect, rect.Dy()-heightPx)
	rest.Max.Y = max(rest.Min.Y, rest.Max.Y-gapPx)
	return rest, strip
}

// FitSquare returns the largest square that fits into rect, anchored at the top-left.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := min(rect.Dx(), rect.Dy())
	return image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+size, rect.Min.Y+size)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
