package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NeutralColor is used wherever a per-point color array is too short for the
// data it styles, and as the default marker line color.
const NeutralColor = "#444"

// Color is a marker color: either a CSS color string or a number that is
// mapped through a colorscale.
type Color struct {
	str     string
	num     float64
	numeric bool
}

// ColorString returns a CSS color.
func ColorString(s string) Color { return Color{str: s} }

// ColorNumber returns a colorscale input value.
func ColorNumber(v float64) Color { return Color{num: v, numeric: true} }

// IsNumeric reports whether c must be resolved through a colorscale.
func (c Color) IsNumeric() bool { return c.numeric }

// Number returns the colorscale input value.
func (c Color) Number() float64 { return c.num }

// String returns the CSS color, or the formatted number for numeric colors.
func (c Color) String() string {
	if c.numeric {
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	}
	return c.str
}

// MarshalJSON encodes the color as a JSON string or number.
func (c Color) MarshalJSON() ([]byte, error) {
	if c.numeric {
		return json.Marshal(c.num)
	}
	return json.Marshal(c.str)
}

// UnmarshalJSON accepts a JSON string or number.
func (c *Color) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case string:
		*c = ColorString(t)
	case float64:
		*c = ColorNumber(t)
	case nil:
		*c = Color{}
	default:
		return fmt.Errorf("color must be a string or number, got %s", data)
	}
	return nil
}

var namedColors = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"orange":      "#ffa500",
	"purple":      "#800080",
	"gray":        "#808080",
	"grey":        "#808080",
	"lightgray":   "#d3d3d3",
	"darkgray":    "#a9a9a9",
	"navy":        "#000080",
	"teal":        "#008080",
	"steelblue":   "#4682b4",
	"transparent": "#00000000",
}

// ParseColor parses hex (#rgb, #rrggbb, #rrggbbaa), rgb(), rgba() and a
// small set of named colors. Alpha is in [0, 1].
func ParseColor(s string) (c colorful.Color, alpha float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, named := namedColors[s]; named {
		s = hex
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	return colorful.Color{}, 0, false
}

func parseHex(s string) (colorful.Color, float64, bool) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, 0, false
	}
	return c, alpha, true
}

func parseRGBFunc(s string) (colorful.Color, float64, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return colorful.Color{}, 0, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return colorful.Color{}, 0, false
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		ch[i] = v
	}
	c := colorful.Color{R: clamp01(ch[0] / 255), G: clamp01(ch[1] / 255), B: clamp01(ch[2] / 255)}
	return c, clamp01(ch[3]), true
}

// ColorAlpha returns the alpha channel of a CSS color. Numeric colors and
// colors that fail to parse are treated as opaque.
func ColorAlpha(c Color) float64 {
	if c.numeric {
		return 1
	}
	_, a, ok := ParseColor(c.str)
	if !ok {
		return 1
	}
	return a
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
