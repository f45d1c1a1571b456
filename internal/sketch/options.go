package sketch

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// Tool selects how strokes are rendered.
type Tool int

const (
	ToolPen Tool = iota
	ToolBrush
)

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolBrush:
		return "brush"
	default:
		return "unknown"
	}
}

// ParseTool accepts "pen" or "brush" (case-insensitive).
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen":
		return ToolPen, nil
	case "brush":
		return ToolBrush, nil
	default:
		return ToolPen, fmt.Errorf("%w: %q", ErrInvalidTool, s)
	}
}

func (t Tool) MarshalText() ([]byte, error) {
	if t != ToolPen && t != ToolBrush {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTool, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tool) UnmarshalText(text []byte) error {
	parsed, err := ParseTool(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

const (
	DefaultColor = "#000000"
	DefaultSize  = 6.0
	MaxSize      = 100.0
)

// Palette is the fixed swatch list offered next to the custom color input.
var Palette = []string{
	"#000000", "#444444", "#7b1fa2", "#1e88e5", "#0d9488", "#16a34a",
	"#f59e0b", "#ef4444", "#ffffff", "#f8fafc", "#ff7ab6", "#8b5cf6",
}

// Options is the drawing configuration in effect for the next stroke.
// It is passed by value; a stroke never observes later changes.
type Options struct {
	Tool  Tool    `json:"tool" toml:"tool"`
	Color string  `json:"color" toml:"color"`
	Size  float64 `json:"size" toml:"size"`
}

func DefaultOptions() Options {
	return Options{Tool: ToolPen, Color: DefaultColor, Size: DefaultSize}
}

func (o Options) Validate() error {
	if o.Tool != ToolPen && o.Tool != ToolBrush {
		return fmt.Errorf("%w: %d", ErrInvalidTool, int(o.Tool))
	}
	if _, err := ParseColor(o.Color); err != nil {
		return err
	}
	if !(o.Size > 0) || o.Size > MaxSize {
		return fmt.Errorf("%w: %v (want 0 < size <= %v)", ErrInvalidSize, o.Size, MaxSize)
	}
	return nil
}

// OptionsPatch carries a partial update; nil fields are left untouched.
type OptionsPatch struct {
	Tool  *Tool    `json:"tool,omitempty"`
	Color *string  `json:"color,omitempty"`
	Size  *float64 `json:"size,omitempty"`
}

// Apply returns o with the patch applied, validated as a whole.
func (p OptionsPatch) Apply(o Options) (Options, error) {
	if p.Tool != nil {
		o.Tool = *p.Tool
	}
	if p.Color != nil {
		o.Color = NormalizeColor(*p.Color)
	}
	if p.Size != nil {
		o.Size = *p.Size
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// NormalizeColor lower-cases a hex color and adds a missing '#'.
func NormalizeColor(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	return s
}

// ParseColor accepts "#rgb" and "#rrggbb" (the '#' is optional).
func ParseColor(s string) (gg.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		isDigit := c >= '0' && c <= '9'
		isHex := (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isDigit && !isHex {
			return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	return gg.Hex(hex), nil
}
