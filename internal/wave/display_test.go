package wave

import (
	"testing"

	"github.com/nmkale/subtide/internal/options"
	"github.com/nmkale/subtide/internal/subtitle"
	"github.com/nmkale/subtide/internal/timing"
)

// a provider with no backing storage, long enough to scroll around in
type fakeProvider struct {
	rate       int
	numSamples int64
}

func (p fakeProvider) SampleRate() int       { return p.rate }
func (p fakeProvider) NumSamples() int64     { return p.numSamples }
func (p fakeProvider) DecodedSamples() int64 { return p.numSamples }
func (p fakeProvider) FillSamples(start int64, buf []int16) int {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf)
}

type displayFixture struct {
	doc        *subtitle.Document
	sel        *subtitle.SelectionController
	opts       *options.Store
	controller *timing.Controller
	display    *Display
	seeks      []int
}

func newDisplayFixture(t *testing.T, times [][2]int, durationSec int) *displayFixture {
	t.Helper()

	doc := subtitle.NewDocument()
	lines := make([]*subtitle.Line, 0, len(times))
	for _, tr := range times {
		lines = append(lines, &subtitle.Line{Start: tr[0], End: tr[1]})
	}
	doc.SetEvents(lines)

	opts := options.NewStore()
	sel := subtitle.NewSelectionController(doc)
	kf := timing.NewKeyframeProvider(opts)
	vp := timing.NewVideoPositionProvider(opts)
	controller := timing.NewController(doc, sel, kf, vp, opts)

	f := &displayFixture{doc: doc, sel: sel, opts: opts, controller: controller}
	f.display = NewDisplay(controller, opts, func(ms int) {
		f.seeks = append(f.seeks, ms)
	})
	f.display.SetClientSize(600, 40)
	f.display.SetProvider(fakeProvider{rate: 48000, numSamples: int64(48000 * durationSec)})
	return f
}

func press(x, y int) MouseEvent {
	return MouseEvent{X: x, Y: y, Action: MousePress, Button: ButtonLeft}
}

func motion(x, y int) MouseEvent {
	return MouseEvent{X: x, Y: y, Action: MouseMotion}
}

func release(x, y int) MouseEvent {
	return MouseEvent{X: x, Y: y, Action: MouseRelease, Button: ButtonLeft}
}

func TestScrollClamping(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	// 600 s at 20 ms/px is 30000 px wide
	if d.PixelAudioWidth() != 30000 {
		t.Fatalf("pixel audio width = %d, want 30000", d.PixelAudioWidth())
	}

	d.ScrollPixelToLeft(-50)
	if d.ScrollLeft() != 0 {
		t.Errorf("scroll = %d, want clamped to 0", d.ScrollLeft())
	}

	d.ScrollPixelToLeft(100000)
	if d.ScrollLeft() != 30000-600 {
		t.Errorf("scroll = %d, want clamped to %d", d.ScrollLeft(), 30000-600)
	}
}

func TestScrollTimeRangeInView(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display
	// client 600, margin 30, inner width 540

	// case 1: already in view, no scroll
	d.ScrollPixelToLeft(0)
	d.ScrollTimeRangeInView(timing.NewTimeRange(1000, 2000)) // px 50..100
	if d.ScrollLeft() != 0 {
		t.Errorf("in-view range scrolled to %d", d.ScrollLeft())
	}

	// case 2: out of view and fits: centered
	d.ScrollTimeRangeInView(timing.NewTimeRange(100000, 101000)) // px 5000..5050
	want := 5000 - (540-50)/2 - 30
	if d.ScrollLeft() != want {
		t.Errorf("centered scroll = %d, want %d", d.ScrollLeft(), want)
	}

	// case 3: viewing the middle of a too-large range: leave alone
	d.ScrollPixelToLeft(10000)
	d.ScrollTimeRangeInView(timing.NewTimeRange(100000, 400000)) // px 5000..20000
	if d.ScrollLeft() != 10000 {
		t.Errorf("mid-range view scrolled to %d", d.ScrollLeft())
	}

	// case 4: right edge visible: right-align
	d.ScrollPixelToLeft(10300) // inner window 10330..10870
	d.ScrollTimeRangeInView(timing.NewTimeRange(100000, 210000)) // px 5000..10500
	want = 10500 - 540 - 30
	if d.ScrollLeft() != want {
		t.Errorf("right-aligned scroll = %d, want %d", d.ScrollLeft(), want)
	}

	// case 5: left-align when nothing or only the left edge is visible
	d.ScrollPixelToLeft(0)
	d.ScrollTimeRangeInView(timing.NewTimeRange(100000, 400000))
	if d.ScrollLeft() != 5000-30 {
		t.Errorf("left-aligned scroll = %d, want %d", d.ScrollLeft(), 5000-30)
	}
}

func TestZoomKeepsCenterAnchored(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	d.ScrollPixelToLeft(1000)
	centerTime := d.Mapping().TimeFromRelativeX(300)

	d.SetZoomLevel(4) // 20 -> 10 ms/px

	newCenter := d.Mapping().TimeFromRelativeX(300)
	if diff := newCenter - centerTime; diff < -20 || diff > 20 {
		t.Errorf("center moved from %d to %d on zoom", centerTime, newCenter)
	}
}

func TestZoomSameLevelIsNoop(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display
	d.ScrollPixelToLeft(1234)

	d.SetZoomLevel(d.ZoomLevel())
	if d.ScrollLeft() != 1234 {
		t.Errorf("no-op zoom moved scroll to %d", d.ScrollLeft())
	}
}

func TestTimelineScrub(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	d.OnMouseEvent(press(100, 0))
	if d.State() != DraggingTimeline {
		t.Fatalf("state = %d, want DraggingTimeline", d.State())
	}
	if len(f.seeks) != 1 || f.seeks[0] != 2000 {
		t.Errorf("seeks = %v, want [2000]", f.seeks)
	}

	d.OnMouseEvent(motion(150, 0))
	if len(f.seeks) != 2 || f.seeks[1] != 3000 {
		t.Errorf("seeks = %v, want scrub to 3000", f.seeks)
	}

	d.OnMouseEvent(release(150, 0))
	if d.State() != DraggingIdle {
		t.Errorf("state = %d, want DraggingIdle after release", d.State())
	}
}

func TestCursorShapeNearMarker(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	// active left marker at 1000 ms is x=50
	d.OnMouseEvent(motion(50, 10))
	if d.Cursor() != CursorSizeWE {
		t.Errorf("cursor near marker should be resize")
	}

	d.OnMouseEvent(motion(300, 10))
	if d.Cursor() != CursorDefault {
		t.Errorf("cursor away from markers should be default")
	}
}

func TestMarkerDragStateMachine(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	// grab the right marker at x=100 (2000 ms)
	d.OnMouseEvent(press(100, 10))
	if d.State() != DraggingMarker {
		t.Fatalf("state = %d, want DraggingMarker", d.State())
	}

	// drag to x=150 (3000 ms)
	d.OnMouseEvent(motion(150, 10))
	if got := f.controller.GetActiveLineRange().End(); got != 3000 {
		t.Errorf("active line end = %d, want 3000", got)
	}

	d.OnMouseEvent(release(150, 10))
	if d.State() != DraggingIdle {
		t.Errorf("state = %d, want DraggingIdle after release", d.State())
	}

	// the move was applied and stays applied
	if got := f.controller.GetActiveLineRange().End(); got != 3000 {
		t.Errorf("active line end = %d after release, want 3000", got)
	}
}

func TestClickNeverScrolls(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}, {500000, 510000}}, 600)
	d := f.display

	d.ScrollPixelToLeft(0)
	// whatever a click triggers, the display must restore the pre-click
	// scroll position
	d.OnMouseEvent(press(300, 10))
	if d.ScrollLeft() != 0 {
		t.Errorf("click scrolled the display to %d", d.ScrollLeft())
	}
}

func TestCaptureLossAbortsDrag(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	d := f.display

	d.OnMouseEvent(press(100, 10))
	if d.State() != DraggingMarker {
		t.Fatalf("state = %d, want DraggingMarker", d.State())
	}
	d.OnMouseEvent(motion(120, 10))
	endAfterDrag := f.controller.GetActiveLineRange().End()

	d.OnCaptureLost()
	if d.State() != DraggingIdle {
		t.Errorf("state = %d, want DraggingIdle after capture loss", d.State())
	}
	if d.Cursor() != CursorDefault {
		t.Errorf("cursor should reset on capture loss")
	}
	// partial movement is preserved, not rolled back
	if got := f.controller.GetActiveLineRange().End(); got != endAfterDrag {
		t.Errorf("capture loss rolled back the drag: %d != %d", got, endAfterDrag)
	}
}

func TestDragOutOfViewArmsAutoScroll(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{3000, 5000}}, 600)
	f.opts.Get("Audio/Snap/Enable").SetBool(false)
	d := f.display

	d.ScrollPixelToLeft(80)
	// left marker at 3000 ms is abs x=150, rel x=70
	d.OnMouseEvent(press(70, 10))
	if d.State() != DraggingMarker {
		t.Fatalf("state = %d, want DraggingMarker", d.State())
	}

	// drag left past the view edge; capture makes negative x legal
	d.OnMouseEvent(motion(-30, 10))
	if !d.ScrollTimerPending() {
		t.Fatalf("scroll timer should be armed for an out-of-view marker")
	}

	// marker is now at rel x = -30; one-shot timer scrolls by -30 - 600/20
	d.OnScrollTimer()
	if d.ScrollLeft() != 80-60 {
		t.Errorf("scroll = %d, want %d", d.ScrollLeft(), 80-60)
	}
	if d.ScrollTimerPending() {
		t.Errorf("timer should be one-shot")
	}
}

func TestPlaybackFollowScroll(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}}, 600)
	f.opts.Get("Audio/Lock Scroll on Cursor").SetBool(true)
	f.opts.Get("Audio/Smooth Scrolling").SetBool(false)
	d := f.display

	// cursor ahead of the right edge scrolls right
	d.ScrollPixelToLeft(0)
	d.OnPlaybackPosition(13000) // x=650, past 600
	want := min(650-30, d.PixelAudioWidth()-600-1)
	if d.ScrollLeft() != want {
		t.Errorf("follow scroll = %d, want %d", d.ScrollLeft(), want)
	}

	// cursor behind the left edge scrolls left
	d.ScrollPixelToLeft(1000)
	d.OnPlaybackPosition(20100) // x=1005, inside left edge margin
	if d.ScrollLeft() != 1005-30 {
		t.Errorf("follow scroll = %d, want %d", d.ScrollLeft(), 1005-30)
	}
}

func TestAutoScrollOnSelectionChange(t *testing.T) {
	f := newDisplayFixture(t, [][2]int{{1000, 2000}, {400000, 402000}}, 600)
	d := f.display

	// activating a far-away line scrolls it into view
	f.sel.NextLine()
	// px 20000..20100, centered in the inner window
	want := 20000 - (540-100)/2 - 30
	if d.ScrollLeft() != want {
		t.Errorf("selection auto-scroll = %d, want %d", d.ScrollLeft(), want)
	}
}
