package timing

import (
	"github.com/nmkale/subtide/internal/colors"
	"github.com/nmkale/subtide/internal/subtitle"
)

// FeetStyle selects which side of a marker carries the triangular foot.
type FeetStyle int

const (
	FeetNone FeetStyle = iota
	FeetLeft
	FeetRight
	FeetBoth
)

// Pen is a marker's rendering style.
type Pen struct {
	Color colors.Color
	Width int
}

// AudioMarker is the view-facing shape shared by line boundary markers,
// keyframe markers, and the video position marker.
type AudioMarker interface {
	Position() int
	Style() *Pen
	Feet() FeetStyle
}

// Marker is one boundary of a timeable line. Markers live in pairs; styles
// and feet migrate between the pair when their positions cross, so a marker
// reference held by a drag in progress stays valid.
type Marker struct {
	position int
	style    *Pen
	feet     FeetStyle
	line     *TimeableLine
}

func (m *Marker) Position() int   { return m.position }
func (m *Marker) Style() *Pen     { return m.style }
func (m *Marker) Feet() FeetStyle { return m.feet }

// Line returns the timeable line which owns this marker.
func (m *Marker) Line() *TimeableLine { return m.line }

// SetPosition moves the marker and lets the owning line restore the
// left/right invariant.
func (m *Marker) SetPosition(ms int) {
	m.position = ms
	m.line.CheckMarkers()
}

func (m *Marker) swapStyles(other *Marker) {
	m.style, other.style = other.style, m.style
	m.feet, other.feet = other.feet, m.feet
}

// TimeableLine tracks one dialogue line and provides its pair of boundary
// markers. It can apply marker changes back to the tracked line.
type TimeableLine struct {
	line *subtitle.Line

	marker1 Marker
	marker2 Marker

	// whichever of the pair is currently lower / higher
	left  *Marker
	right *Marker
}

// NewTimeableLine creates an unbound line whose markers render with the
// given styles.
func NewTimeableLine(styleLeft, styleRight *Pen) *TimeableLine {
	tl := &TimeableLine{}
	tl.marker1 = Marker{style: styleLeft, feet: FeetRight, line: tl}
	tl.marker2 = Marker{style: styleRight, feet: FeetLeft, line: tl}
	tl.left = &tl.marker1
	tl.right = &tl.marker2
	return tl
}

// Line returns the tracked dialogue line, or nil when unbound.
func (tl *TimeableLine) Line() *subtitle.Line { return tl.line }

// Range returns the line's current time range.
func (tl *TimeableLine) Range() TimeRange {
	return NewTimeRange(tl.left.position, tl.right.position)
}

// Markers appends both of the line's markers to out.
func (tl *TimeableLine) Markers(out *[]*Marker) {
	*out = append(*out, tl.left, tl.right)
}

// LeftMarker returns whichever marker is currently leftmost.
func (tl *TimeableLine) LeftMarker() *Marker { return tl.left }

// RightMarker returns whichever marker is currently rightmost.
func (tl *TimeableLine) RightMarker() *Marker { return tl.right }

// ContainsMarker reports whether either marker lies in the given range.
func (tl *TimeableLine) ContainsMarker(r TimeRange) bool {
	return r.Contains(tl.marker1.position) || r.Contains(tl.marker2.position)
}

// CheckMarkers restores the left ≤ right invariant after a single-marker
// move by exchanging the pair's styles and the left/right indirections.
// The marker objects themselves never trade places.
func (tl *TimeableLine) CheckMarkers() {
	if tl.right.position < tl.left.position {
		tl.marker1.swapStyles(&tl.marker2)
		tl.left, tl.right = tl.right, tl.left
	}
}

// Apply writes the marker positions back to the tracked line. No-op when
// unbound.
func (tl *TimeableLine) Apply() {
	if tl.line != nil {
		tl.line.Start = tl.left.position
		tl.line.End = tl.right.position
	}
}

// SetLine binds the tracked dialogue line, resetting the markers to the
// line's times unless this line was already bound and the new line is
// untimed (end == 0), in which case the pending marker positions are kept.
// Returns whether the markers were reset.
func (tl *TimeableLine) SetLine(line *subtitle.Line) bool {
	if tl.line == nil || line.End > 0 {
		tl.line = line
		tl.marker1.SetPosition(line.Start)
		tl.marker2.SetPosition(line.End)
		return true
	}
	tl.line = line
	return false
}
