package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// fontCharWidth approximates glyph width as a fraction of font size.
const fontCharWidth = 0.55

// TextWidth estimates the rendered width of s.
func TextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * fontCharWidth
}

// TruncateLabel shortens label to fit in avail pixels, ending in "..".
func TruncateLabel(label string, avail, fontSize float64) string {
	maxChars := max(int(avail/(fontSize*fontCharWidth)), 3)
	r := []rune(label)
	if len(r) <= maxChars {
		return label
	}
	return string(r[:maxChars-2]) + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
