package sketch

import "github.com/gogpu/gg"

// withScope runs fn between a save and a restore of the drawing state.
// gg's Push/Pop only covers transform, clip and mask, so the brush and stroke
// style are captured here as well. The restore is deferred and therefore also
// runs when fn returns early or panics.
func withScope(dc *gg.Context, fn func() error) error {
	brush := dc.FillBrush()
	stroke := dc.GetStroke()
	dc.Push()
	defer func() {
		dc.ClearPath()
		dc.Pop()
		dc.SetStroke(stroke)
		dc.SetFillBrush(brush)
	}()
	return fn()
}
