package wave

import (
	"time"

	"github.com/nmkale/subtide/internal/media"
	"github.com/nmkale/subtide/internal/options"
	"github.com/nmkale/subtide/internal/subtitle"
	"github.com/nmkale/subtide/internal/timing"
)

// DragState is the display's pointer interaction mode.
type DragState int

const (
	DraggingIdle DragState = iota
	DraggingTimeline
	DraggingMarker
)

// CursorShape is the pointer shape the host should show.
type CursorShape int

const (
	CursorDefault CursorShape = iota
	CursorSizeWE
)

// MouseButton identifies the pointer button of an event.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// MouseAction is what the pointer did.
type MouseAction int

const (
	MouseMotion MouseAction = iota
	MousePress
	MouseRelease
)

// MouseEvent is a pointer event in display coordinates.
type MouseEvent struct {
	X, Y   int
	Action MouseAction
	Button MouseButton
	Shift  bool
	Ctrl   bool
	Alt    bool
}

// markerInteraction is a marker drag in progress: the markers grabbed at
// click time, the button that started the drag, and the snap settings
// captured when the drag began.
type markerInteraction struct {
	markers     []*timing.Marker
	controller  *timing.Controller
	display     *Display
	button      MouseButton
	defaultSnap bool
	snapRangePx int
}

// onMouseEvent feeds one pointer event to the drag. Returns false once the
// originating button has been released and the drag is over.
func (o *markerInteraction) onMouseEvent(ev MouseEvent) bool {
	if ev.Action == MouseMotion && o.display.buttonHeld(o.button) {
		snapRange := 0
		if o.defaultSnap != ev.Shift {
			snapRange = o.display.Mapping().TimeFromAbsoluteX(o.snapRangePx)
		}
		o.controller.OnMarkerDrag(
			o.markers,
			o.display.Mapping().TimeFromRelativeX(ev.X),
			snapRange)
	}

	return !(ev.Action == MouseRelease && ev.Button == o.button)
}

// position of the marker group in milliseconds
func (o *markerInteraction) position() int {
	return o.markers[0].Position()
}

// Display owns the audio viewport: scroll and zoom state, the timeline,
// the pointer interaction state machine, and the follow-scroll policies.
// It renders nothing itself; a host view reads its state and paints.
type Display struct {
	opts       *options.Store
	controller *timing.Controller
	provider   media.Provider

	scrollLeft      int
	zoomLevel       int
	msPerPixel      float64
	pixelAudioWidth int

	clientWidth    int
	clientHeight   int
	timelineHeight int

	timeline *Timeline

	state      DragState
	cursor     CursorShape
	captured   bool
	leftHeld   bool
	middleHeld bool
	rightHeld  bool

	dragObject *markerInteraction

	// track cursor in absolute pixels, -1 for none
	trackCursorPos   int
	trackCursorLabel string

	scrollTimerPending bool

	// decode progress prediction
	lastSampleDecoded int64
	audioLoadSpeed    float64
	audioLoadPosition int
	audioLoadStart    time.Time

	// host callback for video seeks from timeline scrubbing
	seek func(ms int)

	needsRepaint bool
}

// NewDisplay builds a display over a timing controller. The seek callback
// receives timeline scrub positions; pass nil to ignore them.
func NewDisplay(controller *timing.Controller, opts *options.Store, seek func(ms int)) *Display {
	d := &Display{
		opts:              opts,
		controller:        controller,
		timeline:          NewTimeline(),
		timelineHeight:    1,
		trackCursorPos:    -1,
		audioLoadPosition: -1,
		seek:              seek,
	}
	d.SetZoomLevel(0)

	controller.AddMarkerMovedListener(func(struct{}) { d.Invalidate() })
	controller.AddUpdatedPrimaryRangeListener(func(struct{}) { d.onSelectionChanged() })

	return d
}

// Mapping returns the current time-pixel mapping.
func (d *Display) Mapping() Mapping {
	return Mapping{MsPerPixel: d.msPerPixel, ScrollLeft: d.scrollLeft}
}

func (d *Display) Timeline() *Timeline      { return d.timeline }
func (d *Display) State() DragState         { return d.state }
func (d *Display) Cursor() CursorShape      { return d.cursor }
func (d *Display) ScrollLeft() int          { return d.scrollLeft }
func (d *Display) ZoomLevel() int           { return d.zoomLevel }
func (d *Display) MsPerPixel() float64      { return d.msPerPixel }
func (d *Display) PixelAudioWidth() int     { return d.pixelAudioWidth }
func (d *Display) TrackCursorPos() int      { return d.trackCursorPos }
func (d *Display) AudioLoadPosition() int   { return d.audioLoadPosition }
func (d *Display) TrackCursorLabel() string { return d.trackCursorLabel }

// Invalidate marks the display as needing a repaint.
func (d *Display) Invalidate() { d.needsRepaint = true }

// TakeRepaint consumes the pending repaint flag.
func (d *Display) TakeRepaint() bool {
	r := d.needsRepaint
	d.needsRepaint = false
	return r
}

// ScrollTimerPending reports whether the host should schedule the one-shot
// drag auto-scroll timer (50 ms), then call OnScrollTimer.
func (d *Display) ScrollTimerPending() bool { return d.scrollTimerPending }

// SetClientSize tells the display its visible area in pixels.
func (d *Display) SetClientSize(width, height int) {
	d.clientWidth = width
	d.clientHeight = height
	d.timeline.SetWidth(width)
	d.Invalidate()
}

// SetTimelineHeight sets how many pixels at the top belong to the
// timeline scrub area.
func (d *Display) SetTimelineHeight(h int) { d.timelineHeight = h }

// SetProvider attaches an audio stream, resetting the horizontal extent
// and the decode progress tracking.
func (d *Display) SetProvider(p media.Provider) {
	d.provider = p
	d.timeline.ChangeAudio(d.duration())

	// force the zoom to recompute the pixel width for the new audio
	d.msPerPixel = 0
	d.SetZoomLevel(d.zoomLevel)
	d.Invalidate()

	if p != nil {
		d.lastSampleDecoded = p.DecodedSamples()
		d.audioLoadPosition = -1
		d.audioLoadSpeed = 0
		d.audioLoadStart = time.Now()
	}
}

// LoadTimerNeeded reports whether decoding is still in progress and the
// host should keep the load-progress timer running.
func (d *Display) LoadTimerNeeded() bool {
	return d.provider != nil && d.lastSampleDecoded != d.provider.NumSamples()
}

// OnLoadTimer advances the predicted decode position. Called periodically
// (typically every 100 ms) while LoadTimerNeeded.
func (d *Display) OnLoadTimer() {
	if d.provider == nil {
		return
	}

	elapsed := time.Since(d.audioLoadStart).Milliseconds()
	if elapsed == 0 {
		return
	}

	newDecoded := d.provider.DecodedSamples()
	if newDecoded != d.lastSampleDecoded {
		d.audioLoadSpeed = (d.audioLoadSpeed + float64(newDecoded)/float64(elapsed)) / 2
	}
	if d.audioLoadSpeed == 0 {
		return
	}

	rate := float64(d.provider.SampleRate())
	newPos := d.Mapping().AbsoluteXFromTime(int(float64(elapsed) * d.audioLoadSpeed * 1000 / rate))
	if newPos > d.audioLoadPosition {
		d.audioLoadPosition = newPos
	}

	left := float64(d.lastSampleDecoded) * 1000 / rate / d.msPerPixel
	right := float64(newDecoded) * 1000 / rate / d.msPerPixel
	if left < float64(d.scrollLeft+d.pixelAudioWidth) && right >= float64(d.scrollLeft) {
		d.Invalidate()
	}
	d.lastSampleDecoded = newDecoded

	if d.lastSampleDecoded == d.provider.NumSamples() {
		d.audioLoadPosition = -1
	}
}

func (d *Display) duration() int {
	return media.DurationMS(d.provider)
}

// ScrollBy scrolls by a pixel amount.
func (d *Display) ScrollBy(pixels int) {
	d.ScrollPixelToLeft(d.scrollLeft + pixels)
}

// ScrollPixelToLeft scrolls so the given absolute pixel is at the left
// edge, clamped to the audio extent.
func (d *Display) ScrollPixelToLeft(pixel int) {
	if pixel+d.clientWidth >= d.pixelAudioWidth {
		pixel = d.pixelAudioWidth - d.clientWidth
	}
	if pixel < 0 {
		pixel = 0
	}

	d.scrollLeft = pixel
	d.timeline.SetPosition(d.scrollLeft)
	d.Invalidate()
}

// ScrollTimeToLeft scrolls so the given time is at the left edge.
func (d *Display) ScrollTimeToLeft(ms int) {
	d.ScrollPixelToLeft(d.Mapping().AbsoluteXFromTime(ms))
}

// ScrollTimeRangeInView scrolls as little as possible to bring the range
// into the middle nine-tenths of the view.
func (d *Display) ScrollTimeRangeInView(r timing.TimeRange) {
	clientWidth := d.clientWidth
	rangeBegin := d.Mapping().AbsoluteXFromTime(r.Begin())
	rangeEnd := d.Mapping().AbsoluteXFromTime(r.End())
	rangeLen := rangeEnd - rangeBegin

	// 5% margin on each side
	leftAdjust := clientWidth / 20
	clientLeft := d.scrollLeft + leftAdjust
	clientWidth = clientWidth * 9 / 10

	switch {
	// everything already in view
	case rangeBegin >= clientLeft && rangeEnd <= clientLeft+clientWidth:

	// the whole range fits, center it
	case rangeLen < clientWidth:
		d.ScrollPixelToLeft(rangeBegin - (clientWidth-rangeLen)/2 - leftAdjust)

	// we're in the middle of a range too big to fit; leave it alone
	case rangeBegin < clientLeft && rangeEnd > clientLeft+clientWidth:

	// right edge in view, keep it as far right as possible
	case rangeEnd >= clientLeft && rangeEnd < clientLeft+clientWidth:
		d.ScrollPixelToLeft(rangeEnd - clientWidth - leftAdjust)

	default:
		d.ScrollPixelToLeft(rangeBegin - leftAdjust)
	}
}

// SetZoomLevel applies a zoom level, keeping the time under the cursor (or
// the view center) fixed on screen.
func (d *Display) SetZoomLevel(level int) {
	d.zoomLevel = level

	newMsPerPixel := ZoomMsPerPixel(level)
	if d.msPerPixel == newMsPerPixel {
		return
	}

	cursorPos := float64(d.clientWidth) / 2
	if d.trackCursorPos >= 0 {
		cursorPos = float64(d.trackCursorPos - d.scrollLeft)
	}
	cursorTime := (float64(d.scrollLeft) + cursorPos) * d.msPerPixel
	if d.msPerPixel == 0 {
		cursorTime = 0
	}

	d.msPerPixel = newMsPerPixel
	d.pixelAudioWidth = max(1, int(float64(d.duration())/d.msPerPixel))

	d.timeline.ChangeZoom(d.msPerPixel)

	d.ScrollPixelToLeft(d.Mapping().AbsoluteXFromTime(int(cursorTime)) - int(cursorPos))
	if d.trackCursorPos >= 0 {
		d.trackCursorPos = d.Mapping().AbsoluteXFromTime(int(cursorTime))
	}
	d.Invalidate()
}

// SetTrackCursor places the vertical cursor at an absolute pixel,
// optionally labelling it with the time.
func (d *Display) SetTrackCursor(pos int, showTime bool) {
	if pos == d.trackCursorPos {
		return
	}
	d.trackCursorPos = pos

	if showTime && pos >= 0 {
		ms := d.Mapping().TimeFromAbsoluteX(pos)
		d.trackCursorLabel = subtitle.FormatTime(ms)
	} else {
		d.trackCursorLabel = ""
	}
	d.Invalidate()
}

// RemoveTrackCursor hides the vertical cursor.
func (d *Display) RemoveTrackCursor() {
	d.SetTrackCursor(-1, false)
}

// JumpToTime scrubs playback to the time at a relative pixel.
func (d *Display) JumpToTime(x int) {
	ms := d.Mapping().TimeFromRelativeX(x)
	if d.seek != nil {
		d.seek(ms)
	}
	d.SetTrackCursor(d.scrollLeft+x, d.opts.Get("Audio/Display/Draw/Cursor Time").GetBool())
}

func (d *Display) buttonHeld(b MouseButton) bool {
	switch b {
	case ButtonLeft:
		return d.leftHeld
	case ButtonMiddle:
		return d.middleHeld
	case ButtonRight:
		return d.rightHeld
	}
	return false
}

func (d *Display) trackButtons(ev MouseEvent) {
	held := ev.Action == MousePress
	if ev.Action != MousePress && ev.Action != MouseRelease {
		return
	}
	switch ev.Button {
	case ButtonLeft:
		d.leftHeld = held
	case ButtonMiddle:
		d.middleHeld = held
	case ButtonRight:
		d.rightHeld = held
	}
}

// OnCaptureLost aborts any drag in progress, keeping partial movement.
func (d *Display) OnCaptureLost() {
	if d.state != DraggingIdle {
		d.state = DraggingIdle
		d.cursor = CursorDefault
		d.dragObject = nil
		d.captured = false
		d.scrollTimerPending = false
	}
	// button releases are missed once capture is gone
	d.leftHeld = false
	d.middleHeld = false
	d.rightHeld = false
}

// OnMouseEvent runs the drag state machine over one pointer event.
func (d *Display) OnMouseEvent(ev MouseEvent) {
	d.trackButtons(ev)

	// capture loss arrives through OnCaptureLost, so state != DraggingIdle
	// here implies capture is still held
	newState := d.state
	if d.state == DraggingIdle {
		if ev.Y < d.timelineHeight {
			if ev.Action == MousePress && ev.Button == ButtonLeft {
				d.JumpToTime(ev.X)
				newState = DraggingTimeline
			}
		} else {
			newState = d.idleAudioEvent(ev)
		}
	} else if d.state == DraggingTimeline {
		d.JumpToTime(ev.X)
		if !d.leftHeld {
			newState = DraggingIdle
		}
	} else if d.state == DraggingMarker {
		if !d.dragObject.onMouseEvent(ev) {
			d.scrollTimerPending = false
			d.dragObject = nil
			newState = DraggingIdle
			d.cursor = CursorDefault
		}
	}

	d.state = newState

	// hold pointer capture exactly while a drag is in progress
	d.captured = d.state != DraggingIdle
	if d.captured {
		return
	}

	if d.middleHeld {
		d.JumpToTime(ev.X)
	}
}

// idleAudioEvent handles pointer events over the audio region while no
// drag is active, returning the next state.
func (d *Display) idleAudioEvent(ev MouseEvent) DragState {
	dragSensitivity := int(float64(d.opts.Get("Audio/Start Drag Sensitivity").GetInt()) * d.msPerPixel)
	snapSensitivity := 0
	if d.opts.Get("Audio/Snap/Enable").GetBool() != ev.Shift {
		snapSensitivity = int(float64(d.opts.Get("Audio/Snap/Distance").GetInt()) * d.msPerPixel)
	}

	if ev.Action == MouseMotion {
		timepos := d.Mapping().TimeFromRelativeX(ev.X)
		if d.controller.IsNearbyMarker(timepos, dragSensitivity, ev.Alt) {
			d.cursor = CursorSizeWE
		} else {
			d.cursor = CursorDefault
		}
		return DraggingIdle
	}

	if ev.Action == MousePress && (ev.Button == ButtonLeft || ev.Button == ButtonRight) {
		oldScrollPos := d.scrollLeft
		timepos := d.Mapping().TimeFromRelativeX(ev.X)

		var markers []*timing.Marker
		if ev.Button == ButtonLeft {
			markers = d.controller.OnLeftClick(timepos, ev.Ctrl, ev.Alt, dragSensitivity, snapSensitivity)
		} else {
			markers = d.controller.OnRightClick(timepos, ev.Ctrl, dragSensitivity, snapSensitivity)
		}

		// clicking must never scroll the display
		d.ScrollPixelToLeft(oldScrollPos)

		if len(markers) > 0 {
			d.RemoveTrackCursor()
			d.dragObject = &markerInteraction{
				markers:     markers,
				controller:  d.controller,
				display:     d,
				button:      ev.Button,
				defaultSnap: d.opts.Get("Audio/Snap/Enable").GetBool(),
				snapRangePx: d.opts.Get("Audio/Snap/Distance").GetInt(),
			}
			return DraggingMarker
		}
	}

	return DraggingIdle
}

// onSelectionChanged reacts to primary range updates: during a drag it arms
// the auto-scroll timer when the dragged markers leave the view; otherwise
// it keeps the selection visible when auto-scroll is enabled.
func (d *Display) onSelectionChanged() {
	d.Invalidate()

	if d.dragObject != nil {
		if !d.scrollTimerPending {
			relX := d.Mapping().RelativeXFromTime(d.dragObject.position())
			if relX < 0 || relX >= d.clientWidth {
				d.scrollTimerPending = true
			}
		}
		return
	}

	sel := d.controller.GetPrimaryPlaybackRange()
	if d.opts.Get("Audio/Auto/Scroll").GetBool() && sel.End() != 0 {
		d.ScrollTimeRangeInView(sel)
	}
}

// OnScrollTimer fires the one-shot drag auto-scroll: shift the dragged
// marker back into view with a 5% margin.
func (d *Display) OnScrollTimer() {
	d.scrollTimerPending = false
	if d.dragObject == nil {
		return
	}

	relX := d.Mapping().RelativeXFromTime(d.dragObject.position())
	width := d.clientWidth

	if relX < 0 {
		d.ScrollBy(relX - width/20)
	} else if relX >= width {
		d.ScrollBy(relX - width + width/20)
	}
}

// OnPlaybackPosition moves the playback cursor and, when locked, keeps it
// on screen.
func (d *Display) OnPlaybackPosition(ms int) {
	pixelPosition := d.Mapping().AbsoluteXFromTime(ms)
	d.SetTrackCursor(pixelPosition, false)

	if !d.opts.Get("Audio/Lock Scroll on Cursor").GetBool() {
		return
	}

	clientWidth := d.clientWidth
	edgeSize := clientWidth / 20
	if d.scrollLeft > 0 && pixelPosition < d.scrollLeft+edgeSize {
		d.ScrollPixelToLeft(max(pixelPosition-edgeSize, 0))
	} else if d.scrollLeft+clientWidth < min(d.pixelAudioWidth-1, pixelPosition+edgeSize) {
		if d.opts.Get("Audio/Smooth Scrolling").GetBool() {
			d.ScrollPixelToLeft(min(pixelPosition-clientWidth+edgeSize, d.pixelAudioWidth-clientWidth-1))
		} else {
			d.ScrollPixelToLeft(min(pixelPosition-edgeSize, d.pixelAudioWidth-clientWidth-1))
		}
	}
}
