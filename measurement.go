package pptxhtml

import (
	"math"
	"strconv"
)

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU, 1 CSS pixel = 1/96 inch.

const (
	emuPerInch    = 914400
	emuPerPoint   = 12700
	pixelsPerInch = 96
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU        = math.MaxInt64 / 2
)

// EMUToPixels converts EMU to CSS pixels. No rounding is applied.
func EMUToPixels(emu int64) float64 {
	return float64(emu) / emuPerInch * pixelsPerInch
}

// EMUToPoints converts EMU to points. No rounding is applied.
func EMUToPoints(emu int64) float64 {
	return float64(emu) / emuPerPoint
}

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// Pixel converts CSS pixels to EMU.
func Pixel(n float64) int64 {
	return clampEMU(n * emuPerInch / pixelsPerInch)
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}

// formatPx formats a pixel length with two decimals, e.g. "96.00px".
func formatPx(px float64) string {
	return strconv.FormatFloat(px, 'f', 2, 64) + "px"
}

// formatNum formats a number without trailing zeros, rounded to three decimals.
func formatNum(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
