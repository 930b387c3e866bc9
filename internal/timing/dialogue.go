package timing

import (
	"math"
	"sort"

	"github.com/nmkale/subtide/internal/event"
	"github.com/nmkale/subtide/internal/options"
	"github.com/nmkale/subtide/internal/subtitle"
)

// NextMode selects what Next advances over.
type NextMode int

const (
	// advance to the next line
	TimingUnit NextMode = iota
	// create the next line, timing it only if untimed
	TimingLine
	// create the next line and always give it default times
	TimingLineResetDefault
)

// sentinel for "no group drag in progress"
const clickedNone = math.MinInt

// Controller is the dialogue timing mode: it displays a start and end
// marker for the active line plus markers for the other selected lines,
// maps click and drag intents onto marker moves with snapping, and writes
// the resulting times back to the document with commit coalescing.
type Controller struct {
	styleLeft     Pen
	styleRight    Pen
	styleInactive Pen

	active *TimeableLine

	// companion lines from the selection, excluding the active line
	selectedLines []*TimeableLine

	// all markers of all tracked lines, sorted by position
	markers markerIndex

	keyframes *KeyframeProvider
	videoPos  *VideoPositionProvider

	// lines awaiting Apply on the next commit
	modified map[*TimeableLine]struct{}

	// coalescing hint for auto-commit
	commitID int

	// anchor time for alt-dragging, clickedNone outside a group drag
	clickedMS int

	doc *subtitle.Document
	sel *subtitle.SelectionController

	autoCommit       *options.Value
	inactiveComments *options.Value
	dragTiming       *options.Value
	defaultDuration  *options.Value
	leadIn           *options.Value
	leadOut          *options.Value

	commitConn *event.Connection[subtitle.CommitFlag]

	markerMoved         event.Signal[struct{}]
	updatedPrimaryRange event.Signal[struct{}]
}

// NewController wires a dialogue timing controller to a document, its
// selection controller, and the snap target providers.
func NewController(doc *subtitle.Document, sel *subtitle.SelectionController,
	keyframes *KeyframeProvider, videoPos *VideoPositionProvider,
	opts *options.Store) *Controller {

	thickness := opts.Get("Audio/Line Boundaries Thickness").GetInt()
	c := &Controller{
		styleLeft: Pen{
			Color: opts.Get("Colour/Audio Display/Line boundary Start").GetColor(),
			Width: thickness,
		},
		styleRight: Pen{
			Color: opts.Get("Colour/Audio Display/Line boundary End").GetColor(),
			Width: thickness,
		},
		styleInactive: Pen{
			Color: opts.Get("Colour/Audio Display/Line Boundary Inactive Line").GetColor(),
			Width: thickness,
		},
		keyframes: keyframes,
		videoPos:  videoPos,
		modified:  make(map[*TimeableLine]struct{}),
		commitID:  subtitle.NoCommitID,
		clickedMS: clickedNone,
		doc:       doc,
		sel:       sel,

		autoCommit:       opts.Get("Audio/Auto/Commit"),
		inactiveComments: opts.Get("Audio/Display/Draw/Inactive Comments"),
		dragTiming:       opts.Get("Audio/Drag Timing"),
		defaultDuration:  opts.Get("Timing/Default Duration"),
		leadIn:           opts.Get("Audio/Lead/IN"),
		leadOut:          opts.Get("Audio/Lead/OUT"),
	}
	c.active = NewTimeableLine(&c.styleLeft, &c.styleRight)

	c.commitConn = doc.AddCommitListener(c.onFileChanged)
	sel.AddActiveLineListener(func(*subtitle.Line) { c.Revert() })
	sel.AddSelectionListener(func(struct{}) { c.onSelectedSetChanged() })
	c.inactiveComments.Subscribe(func(*options.Value) { c.regenerateSelectedLines() })
	c.dragTiming.Subscribe(func(*options.Value) { c.regenerateSelectedLines() })

	keyframes.AddMarkerMovedListener(func(struct{}) { c.markerMoved.Emit(struct{}{}) })
	videoPos.AddMarkerMovedListener(func(struct{}) { c.markerMoved.Emit(struct{}{}) })

	c.Revert()
	return c
}

// AddMarkerMovedListener subscribes to marker movement notifications.
func (c *Controller) AddMarkerMovedListener(fn func(struct{})) *event.Connection[struct{}] {
	return c.markerMoved.Subscribe(fn)
}

// AddUpdatedPrimaryRangeListener subscribes to primary playback range
// updates.
func (c *Controller) AddUpdatedPrimaryRangeListener(fn func(struct{})) *event.Connection[struct{}] {
	return c.updatedPrimaryRange.Subscribe(fn)
}

// GetMarkers appends all markers intersecting the range: line boundary
// markers first, keyframes after. Order matters, as later markers are
// painted on top of earlier ones, and the active line's markers sort after
// inactive ones on position ties.
func (c *Controller) GetMarkers(r TimeRange, out *[]AudioMarker) {
	begin := c.markers.lowerBound(r.Begin())
	end := c.markers.upperBound(begin, r.End())
	for _, m := range c.markers[begin:end] {
		*out = append(*out, m)
	}
	c.keyframes.GetMarkers(r, out)
}

// GetPrimaryPlaybackRange returns the active line's range.
func (c *Controller) GetPrimaryPlaybackRange() TimeRange { return c.active.Range() }

// GetActiveLineRange returns the active line's range.
func (c *Controller) GetActiveLineRange() TimeRange { return c.active.Range() }

// GetIdealVisibleTimeRange returns the range a view should try to keep on
// screen.
func (c *Controller) GetIdealVisibleTimeRange() TimeRange { return c.active.Range() }

// GetVideoPosition returns the tracked video position in milliseconds.
func (c *Controller) GetVideoPosition() int { return c.videoPos.Position() }

// IsNearbyMarker reports whether a drag started at ms would grab a marker.
// With alt held the whole line group is always grabbable.
func (c *Controller) IsNearbyMarker(ms, sensitivity int, altDown bool) bool {
	return altDown || c.active.ContainsMarker(NewTimeRange(ms-sensitivity, ms+sensitivity+1))
}

// OnLeftClick resolves a left click into the set of markers a following
// drag should move. An empty result means the click was consumed some other
// way (or hit nothing).
func (c *Controller) OnLeftClick(ms int, ctrlDown, altDown bool, sensitivity, snapRange int) []*Marker {
	var ret []*Marker

	c.clickedMS = clickedNone
	if altDown {
		c.clickedMS = ms
		c.active.Markers(&ret)
		for _, line := range c.selectedLines {
			line.Markers(&ret)
		}
		return ret
	}

	left := c.active.LeftMarker()
	right := c.active.RightMarker()

	distL := abs(left.position - ms)
	distR := abs(right.position - ms)

	if distL > sensitivity && distR > sensitivity {
		for _, line := range c.doc.Events {
			if ms >= line.Start && ms <= line.End {
				c.sel.SetSelectionAndActive([]*subtitle.Line{line}, line)
				break
			}
		}
		return nil
	}

	clicked := right
	if distL <= distR {
		clicked = left
	}
	ret = append(ret, clicked)

	// a click within range of the left marker also repositions it; the
	// right marker is only grabbed, not moved
	if clicked == left {
		c.SetMarkers(ret, ms, snapRange)
	}

	return ret
}

// OnRightClick is reserved for karaoke timing and does nothing here.
func (c *Controller) OnRightClick(ms int, ctrlDown bool, sensitivity, snapRange int) []*Marker {
	return nil
}

// OnMarkerDrag moves the given markers to a new position.
func (c *Controller) OnMarkerDrag(markers []*Marker, newPosition, snapRange int) {
	c.SetMarkers(markers, newPosition, snapRange)
}

// Next advances to the next timing target. TimingUnit steps the selection;
// the line modes create a following line and, when it is untimed or a reset
// was requested, chain its times onto the previous line's end.
func (c *Controller) Next(mode NextMode) {
	if mode == TimingUnit {
		c.sel.NextLine()
		return
	}

	newEndMS := c.active.RightMarker().Position()

	c.sel.CreateNextLine()

	if mode == TimingLineResetDefault || c.active.Line().End == 0 {
		defaultDuration := c.defaultDuration.GetInt()
		// right marker first so the pair doesn't swap and the same marker
		// get set twice
		c.active.RightMarker().SetPosition(newEndMS + defaultDuration)
		c.active.LeftMarker().SetPosition(newEndMS)
		c.markers.sortAll()
		c.modified[c.active] = struct{}{}
		c.updatedPrimaryRange.Emit(struct{}{})
	}
}

// Prev steps the selection back one line.
func (c *Controller) Prev() {
	c.sel.PrevLine()
}

// Commit applies pending changes as a user-triggered commit.
func (c *Controller) Commit() {
	c.doCommit(true)
}

// Revert discards pending changes and rebinds to the current active line.
func (c *Controller) Revert() {
	c.commitID = subtitle.NoCommitID

	if line := c.sel.ActiveLine(); line != nil {
		c.modified = make(map[*TimeableLine]struct{})
		if c.active.SetLine(line) {
			c.updatedPrimaryRange.Emit(struct{}{})
		} else {
			// the new line is untimed; keep the pending times so the next
			// commit writes them
			c.modified[c.active] = struct{}{}
		}
	}

	c.regenerateSelectedLines()
}

// AddLeadIn moves the left marker out by the configured lead-in.
func (c *Controller) AddLeadIn() {
	m := c.active.LeftMarker()
	c.SetMarkers([]*Marker{m}, m.Position()-c.leadIn.GetInt(), 0)
}

// AddLeadOut moves the right marker out by the configured lead-out.
func (c *Controller) AddLeadOut() {
	m := c.active.RightMarker()
	c.SetMarkers([]*Marker{m}, m.Position()+c.leadOut.GetInt(), 0)
}

// ModifyLength moves the right marker by delta*10 ms, clamped to the left
// marker.
func (c *Controller) ModifyLength(delta int) {
	m := c.active.RightMarker()
	pos := m.Position() + delta*10
	if left := c.active.LeftMarker().Position(); pos < left {
		pos = left
	}
	c.SetMarkers([]*Marker{m}, pos, 0)
}

// ModifyStart moves the left marker by delta*10 ms, clamped to the right
// marker.
func (c *Controller) ModifyStart(delta int) {
	m := c.active.LeftMarker()
	pos := m.Position() + delta*10
	if right := c.active.RightMarker().Position(); pos > right {
		pos = right
	}
	c.SetMarkers([]*Marker{m}, pos, 0)
}

// SetMarkers moves updMarkers to ms (or, during a group drag, shifts each by
// the anchor delta), snaps the result, restores index order, and announces
// the change.
func (c *Controller) SetMarkers(updMarkers []*Marker, ms, snapRange int) {
	if len(updMarkers) == 0 {
		return
	}

	shift := 0
	if c.clickedMS != clickedNone {
		shift = ms - c.clickedMS
		c.clickedMS = ms
	}

	// Moving markers invalidates the sorted index, so find the affected
	// subrange up front and re-sort only that. Widened by the snap range on
	// both sides so that a snap shift cannot carry a marker past the slice
	// boundary.
	minMS := ms
	maxMS := ms
	for _, marker := range updMarkers {
		if shift < 0 {
			minMS = min(marker.position+shift, minMS)
			maxMS = max(marker.position, maxMS)
		} else {
			minMS = min(marker.position, minMS)
			maxMS = max(marker.position+shift, maxMS)
		}
	}
	begin, end := c.markers.rangeBounds(minMS-snapRange, maxMS+snapRange)

	for _, marker := range updMarkers {
		if c.clickedMS != clickedNone {
			marker.SetPosition(marker.position + shift)
		} else {
			marker.SetPosition(ms)
		}
		c.modified[marker.line] = struct{}{}
	}

	snap := c.snapMarkers(snapRange, updMarkers)
	if c.clickedMS != clickedNone {
		c.clickedMS += snap
	}

	// on position ties the active line's markers go last so they paint on top
	affected := c.markers[begin:end]
	sort.SliceStable(affected, func(i, j int) bool {
		if affected[i].position != affected[j].position {
			return affected[i].position < affected[j].position
		}
		return affected[i].line != c.active && affected[j].line == c.active
	})

	if c.autoCommit.GetBool() {
		c.doCommit(false)
	}
	c.updatedPrimaryRange.Emit(struct{}{})
	c.markerMoved.Emit(struct{}{})
}

// snapMarkers deflects the dragged markers toward the closest reference
// position within snapRange, considering keyframes, the video position, and
// the markers not being dragged. Returns the distance everything moved.
func (c *Controller) snapMarkers(snapRange int, active []*Marker) int {
	if snapRange <= 0 || len(active) == 0 {
		return 0
	}

	envMin := active[0].position
	envMax := envMin
	for _, m := range active {
		if m.position < envMin {
			envMin = m.position
		}
		if m.position > envMax {
			envMax = m.position
		}
	}
	envelope := NewTimeRange(envMin-snapRange, envMax+snapRange+1)

	movingEntireSelection := c.clickedMS != clickedNone

	// Collect positions to snap against: every marker that is in range and
	// is not itself being dragged. During a group drag all of them move
	// together, so there is nothing to snap against.
	var inactive []int
	if !movingEntireSelection {
		isActive := func(m *Marker) bool {
			for _, a := range active {
				if a == m {
					return true
				}
			}
			return false
		}
		addInactive := func(m *Marker) {
			if !envelope.Contains(m.position) || isActive(m) {
				return
			}
			inactive = append(inactive, m.position)
		}
		for _, line := range c.selectedLines {
			addInactive(line.LeftMarker())
			addInactive(line.RightMarker())
		}
		addInactive(c.active.LeftMarker())
		addInactive(c.active.RightMarker())
		sort.Ints(inactive)
		inactive = dedupInts(inactive)
	}

	snapDistance := math.MaxInt
	check := func(candidate, pos int) {
		dist := candidate - pos
		if abs(dist) < abs(snapDistance) {
			snapDistance = dist
		}
	}

	prev := math.MinInt
	var snapTargets []AudioMarker
	for _, activeMarker := range active {
		pos := activeMarker.position
		if pos == prev {
			continue
		}
		prev = pos

		snapTargets = snapTargets[:0]
		r := NewTimeRange(pos-snapRange, pos+snapRange+1)
		c.keyframes.GetMarkers(r, &snapTargets)
		c.videoPos.GetMarkers(r, &snapTargets)

		zero := false
		for _, target := range snapTargets {
			check(target.Position(), pos)
			if snapDistance == 0 {
				zero = true
				break
			}
		}
		if zero {
			return 0
		}

		begin := sort.SearchInts(inactive, r.Begin())
		for i := begin; i < len(inactive); i++ {
			check(inactive[i], pos)
			if snapDistance == 0 {
				return 0
			}
			if inactive[i] > pos {
				break
			}
		}
	}

	if snapDistance == math.MaxInt || abs(snapDistance) > snapRange {
		return 0
	}

	for _, m := range active {
		m.SetPosition(m.position + snapDistance)
	}
	return snapDistance
}

// doCommit applies the pending marker positions to their lines and commits
// to the document. Auto-commits offer the previous commit id (and, when
// exactly one line changed, that line) so the document can coalesce the run
// of drags into one undo step.
func (c *Controller) doCommit(userTriggered bool) {
	if len(c.modified) == 0 {
		return
	}

	for line := range c.modified {
		line.Apply()
	}

	// our own commit must not bounce back into Revert
	c.commitConn.Block()
	if userTriggered {
		c.doc.Commit("timing", subtitle.CommitDialogueTime, subtitle.NoCommitID, nil)
		// never coalesce with a manually triggered commit
		c.commitID = subtitle.NoCommitID
	} else {
		var amend *subtitle.Line
		if len(c.modified) == 1 {
			for line := range c.modified {
				amend = line.Line()
			}
		}
		c.commitID = c.doc.Commit("timing", subtitle.CommitDialogueTime, c.commitID, amend)
	}
	c.commitConn.Unblock()

	c.modified = make(map[*TimeableLine]struct{})
}

func (c *Controller) onSelectedSetChanged() {
	c.regenerateSelectedLines()
}

func (c *Controller) onFileChanged(flags subtitle.CommitFlag) {
	if flags&subtitle.CommitDialogueTime != 0 {
		c.Revert()
	} else if flags&subtitle.CommitDialogueAddRemove != 0 {
		c.regenerateSelectedLines()
	}
}

// regenerateSelectedLines rebuilds the companion lines from the selection
// and regenerates the marker index.
func (c *Controller) regenerateSelectedLines() {
	c.selectedLines = c.selectedLines[:0]

	if c.dragTiming.GetBool() {
		active := c.sel.ActiveLine()
		for _, line := range c.sel.SelectedSet() {
			if line == active {
				continue
			}
			if line.Comment && !c.inactiveComments.GetBool() {
				continue
			}
			tl := NewTimeableLine(&c.styleInactive, &c.styleInactive)
			tl.SetLine(line)
			c.selectedLines = append(c.selectedLines, tl)
		}
	}

	c.regenerateMarkers()
}

// regenerateMarkers rebuilds the sorted marker index from scratch.
func (c *Controller) regenerateMarkers() {
	c.markers = c.markers[:0]

	for _, line := range c.selectedLines {
		line.Markers((*[]*Marker)(&c.markers))
	}
	c.active.Markers((*[]*Marker)(&c.markers))
	c.markers.sortAll()

	c.markerMoved.Emit(struct{}{})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func dedupInts(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
