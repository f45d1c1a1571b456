package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Canvas is an in-memory Drawer. FBRenderer blits it to the framebuffer;
// the simulator encodes it as PNG.
type Canvas struct {
	img  *image.RGBA
	font *truetype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// NewCanvas allocates a logical canvas. The Go Regular font is used for text;
// if it cannot be parsed text falls back to basicfont.
func NewCanvas(width, height int) (*Canvas, error) {
	c := &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		faces: make(map[int]font.Face),
	}
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return c, err
	}
	c.font = fnt
	return c, nil
}

// Image exposes the backing pixels. Callers must not draw concurrently.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) FillBackground() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(rect image.Rectangle, col color.Color) {
	draw.Draw(c.img, rect.Intersect(c.img.Bounds()), &image.Uniform{C: col}, image.Point{}, draw.Over)
}

func (c *Canvas) face(size int) font.Face {
	if size <= 0 {
		size = DefaultTextSize
	}
	if c.font == nil {
		return basicfont.Face7x13
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	c.faces[size] = f
	return f
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	face := c.face(style.Size)
	m := face.Metrics()
	d := &font.Drawer{Face: face}
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	return TextMetrics{
		Width:      d.MeasureString(text).Ceil(),
		Height:     ascent + descent,
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: m.Height.Ceil(),
	}
}

// DrawText draws text with its top edge at y.
func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	metrics := c.MeasureText(text, style)
	switch style.Align {
	case TextAlignCenter:
		x -= metrics.Width / 2
	case TextAlignRight:
		x -= metrics.Width
	}
	col := style.Color
	if col == nil {
		col = Foreground
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face(style.Size),
		Dot:  fixed.P(x, y+metrics.Ascent),
	}
	d.DrawString(text)
	return metrics
}

func (c *Canvas) DrawTextCentered(text string) {
	w, h := c.Size()
	m := c.MeasureText(text, TextStyle{})
	c.DrawText(text, w/2, (h-m.Height)/2, TextStyle{Align: TextAlignCenter})
}

func (c *Canvas) ImageSize(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) DrawImage(img image.Image, x, y int, opts ImageOpts) {
	if img == nil {
		return
	}
	op := draw.Over
	if opts.Src {
		op = draw.Src
	}
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.img, dst, img, b.Min, op)
}

// DrawImageInRect scales img into rect and returns the area it covers.
func (c *Canvas) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) image.Rectangle {
	if img == nil || rect.Empty() {
		return image.Rectangle{}
	}
	src := img.Bounds()
	var dst image.Rectangle
	switch mode {
	case ScaleModeStretch:
		dst = rect
	case ScaleModeFill:
		dst = rect
		src = cropToAspect(src, rect.Dx(), rect.Dy())
	default:
		dst = FitRect(rect, src.Dx(), src.Dy())
	}
	if dst.Dx() == src.Dx() && dst.Dy() == src.Dy() {
		draw.Draw(c.img, dst, img, src.Min, draw.Over)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(c.img, dst, img, src, xdraw.Over, nil)
	return dst
}

// FitRect returns the largest rectangle with the aspect of w×h centered in
// rect.
func FitRect(rect image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 || rect.Empty() {
		return image.Rectangle{}
	}
	dw, dh := rect.Dx(), rect.Dy()
	if dw*h > dh*w {
		dw = dh * w / h
	} else {
		dh = dw * h / w
	}
	x := rect.Min.X + (rect.Dx()-dw)/2
	y := rect.Min.Y + (rect.Dy()-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}

func cropToAspect(src image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return src
	}
	sw, sh := src.Dx(), src.Dy()
	if sw*h > sh*w {
		sw = sh * w / h
	} else {
		sh = sw * h / w
	}
	x := src.Min.X + (src.Dx()-sw)/2
	y := src.Min.Y + (src.Dy()-sh)/2
	return image.Rect(x, y, x+sw, y+sh)
}
