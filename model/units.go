package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Conversion constants between millimeters and typographic points.
// 1 inch = 25.4 mm and 1 inch = 72 points.
const (
	MMToPoints = 72.0 / 25.4
	PointsToMM = 25.4 / 72.0
)

// MMToPt converts millimeters to points.
func MMToPt(mm float64) float64 {
	return mm * MMToPoints
}

// PtToMM converts points to millimeters.
func PtToMM(pt float64) float64 {
	return pt * PointsToMM
}

// ParsePoints parses a point-valued attribute such as "12.5pt" or "12.5".
// The "pt" suffix is optional and surrounding whitespace is tolerated.
func ParsePoints(s string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "pt")
	v, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid point value %q", s)
	}
	return v, nil
}

// FormatPoints renders a point value as an attribute string with the "pt"
// suffix, using the shortest decimal form that round-trips.
func FormatPoints(pt float64) string {
	return strconv.FormatFloat(pt, 'f', -1, 64) + "pt"
}
