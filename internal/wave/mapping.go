package wave

// Mapping converts between millisecond times and display pixels for a
// given zoom and scroll position.
type Mapping struct {
	MsPerPixel float64
	ScrollLeft int
}

// AbsoluteXFromTime returns the pixel at ms from the start of audio.
func (m Mapping) AbsoluteXFromTime(ms int) int {
	return int(float64(ms) / m.MsPerPixel)
}

// RelativeXFromTime returns the pixel at ms relative to the left edge of
// the visible area.
func (m Mapping) RelativeXFromTime(ms int) int {
	return m.AbsoluteXFromTime(ms) - m.ScrollLeft
}

// TimeFromRelativeX returns the time at a pixel in the visible area.
func (m Mapping) TimeFromRelativeX(x int) int {
	return int(float64(m.ScrollLeft+x) * m.MsPerPixel)
}

// TimeFromAbsoluteX returns the time at a pixel from the start of audio.
func (m Mapping) TimeFromAbsoluteX(x int) int {
	return int(float64(x) * m.MsPerPixel)
}

// pixels that display one second of audio at zoom factor 100
const basePixelsPerSecond = 50

// ZoomFactor maps a zoom level onto a percentage factor. Levels above zero
// grow fast; negative levels shrink on a progressively finer ladder and
// bottom out at 1%.
func ZoomFactor(level int) int {
	factor := 100

	if level > 0 {
		factor += 25 * level
	} else if level < 0 {
		if level >= -5 {
			factor += 10 * level
		} else if level >= -11 {
			factor = 50 + (level+5)*5
		} else {
			factor = 20 + level + 11
		}
		if factor <= 0 {
			factor = 1
		}
	}

	return factor
}

// ZoomMsPerPixel returns the milliseconds per pixel at a zoom level.
func ZoomMsPerPixel(level int) float64 {
	factor := ZoomFactor(level)
	baseMsPerPixel := 1000.0 / basePixelsPerSecond
	return 100.0 * baseMsPerPixel / float64(factor)
}

// ScaleUnit is a timeline tick granularity.
type ScaleUnit int

const (
	ScaleMillisecond ScaleUnit = iota
	ScaleCentisecond
	ScaleDecisecond
	ScaleSecond
	ScaleDecasecond
	ScaleMinute
	ScaleDecaminute
	ScaleHour
)

// ScaleTier is the chosen tick granularity for a zoom: the minor tick unit,
// its length, and how many minor ticks between major ones.
type ScaleTier struct {
	Unit        ScaleUnit
	DivisorMS   float64
	MajorModulo int
}

// TierFor picks the tick granularity for a pixel density.
func TierFor(msPerPixel float64) ScaleTier {
	pxSec := 1000.0 / msPerPixel

	switch {
	case pxSec > 3000:
		return ScaleTier{ScaleMillisecond, 1, 10}
	case pxSec > 300:
		return ScaleTier{ScaleCentisecond, 10, 10}
	case pxSec > 30:
		return ScaleTier{ScaleDecisecond, 100, 10}
	case pxSec > 3:
		return ScaleTier{ScaleSecond, 1000, 10}
	case pxSec > 1.0/3.0:
		return ScaleTier{ScaleDecasecond, 10000, 6}
	case pxSec > 1.0/9.0:
		return ScaleTier{ScaleMinute, 60000, 10}
	case pxSec > 1.0/90.0:
		return ScaleTier{ScaleDecaminute, 600000, 6}
	default:
		return ScaleTier{ScaleHour, 3600000, 10}
	}
}
