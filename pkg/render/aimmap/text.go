package aimmap

import (
	"bytes"
	"encoding/xml"
)

const (
	fontCharWidth = 0.55
	fontSizeMin   = 8.0
	fontSizeMax   = 18.0
	labelSpan     = 1.6 // share of the diameter a label may use
)

// fontSize fits text of n characters inside a circle of radius r.
func fontSize(r float64, n int) float64 {
	n = max(1, n)
	byWidth := r * labelSpan / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

// truncateLabel shortens label to what fits at the minimum font size.
func truncateLabel(label string, r float64) string {
	maxChars := max(3, int(r*labelSpan/(fontSizeMin*fontCharWidth)))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
