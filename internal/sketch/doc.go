// Package sketch implements the drawing core of the pad: mapping input
// events to surface coordinates, rendering pen and brush strokes, keeping the
// pixel buffer matched to the displayed size, and sequencing gestures.
//
// Coordinates are CSS pixels throughout. The Surface scales its gg context by
// the device pixel ratio, so a stroke at (x, y) lands at the same visual
// position whatever the buffer resolution.
//
// Session is a plain state machine driven by Dispatch and can be tested by
// feeding it synthetic events and a recording Painter. Pad wraps one Surface
// with a Session per input source and serialises access with a mutex.
package sketch
