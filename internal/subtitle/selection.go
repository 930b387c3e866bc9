package subtitle

import (
	"github.com/nmkale/subtide/internal/event"
)

// SelectionController tracks the active line and the selected set for a
// document. Other controllers react to its change signals.
type SelectionController struct {
	doc *Document

	active    *Line
	selection map[*Line]bool

	activeChanged    event.Signal[*Line]
	selectionChanged event.Signal[struct{}]
}

func NewSelectionController(doc *Document) *SelectionController {
	sc := &SelectionController{
		doc:       doc,
		selection: make(map[*Line]bool),
	}
	if len(doc.Events) > 0 {
		sc.SetSelectionAndActive([]*Line{doc.Events[0]}, doc.Events[0])
	}
	return sc
}

func (sc *SelectionController) Document() *Document { return sc.doc }

// ActiveLine returns the currently active line, or nil.
func (sc *SelectionController) ActiveLine() *Line { return sc.active }

// IsSelected reports whether line is in the selected set.
func (sc *SelectionController) IsSelected(line *Line) bool {
	return sc.selection[line]
}

// SelectedSet returns the selected lines in document order.
func (sc *SelectionController) SelectedSet() []*Line {
	out := make([]*Line, 0, len(sc.selection))
	for _, l := range sc.doc.Events {
		if sc.selection[l] {
			out = append(out, l)
		}
	}
	return out
}

// SetSelectionAndActive replaces the selected set and the active line,
// emitting change signals for whichever actually changed.
func (sc *SelectionController) SetSelectionAndActive(sel []*Line, active *Line) {
	activeChanged := active != sc.active
	sc.active = active

	newSel := make(map[*Line]bool, len(sel))
	for _, l := range sel {
		newSel[l] = true
	}
	selectionChanged := len(newSel) != len(sc.selection)
	if !selectionChanged {
		for l := range newSel {
			if !sc.selection[l] {
				selectionChanged = true
				break
			}
		}
	}
	sc.selection = newSel

	if activeChanged {
		sc.activeChanged.Emit(active)
	}
	if selectionChanged {
		sc.selectionChanged.Emit(struct{}{})
	}
}

// NextLine advances the active line to the next event, collapsing the
// selection to it.
func (sc *SelectionController) NextLine() {
	sc.step(1)
}

// PrevLine moves the active line to the previous event, collapsing the
// selection to it.
func (sc *SelectionController) PrevLine() {
	sc.step(-1)
}

func (sc *SelectionController) step(dir int) {
	if len(sc.doc.Events) == 0 {
		return
	}
	idx := sc.doc.IndexOf(sc.active)
	if idx == -1 {
		idx = 0
	} else {
		idx += dir
	}
	if idx < 0 || idx >= len(sc.doc.Events) {
		return
	}
	line := sc.doc.Events[idx]
	sc.SetSelectionAndActive([]*Line{line}, line)
}

// CreateNextLine inserts a fresh line after the active one, commits the
// insertion, and makes the new line active. The new line has zero times so
// the timing controller can place it.
func (sc *SelectionController) CreateNextLine() *Line {
	style := "Default"
	if sc.active != nil {
		style = sc.active.Style
	}
	line := &Line{Style: style}
	sc.doc.InsertAfter(line, sc.active)
	sc.doc.Commit("line insertion", CommitDialogueAddRemove, NoCommitID, nil)
	sc.SetSelectionAndActive([]*Line{line}, line)
	return line
}

// AddActiveLineListener subscribes to active-line changes.
func (sc *SelectionController) AddActiveLineListener(fn func(*Line)) *event.Connection[*Line] {
	return sc.activeChanged.Subscribe(fn)
}

// AddSelectionListener subscribes to selected-set changes.
func (sc *SelectionController) AddSelectionListener(fn func(struct{})) *event.Connection[struct{}] {
	return sc.selectionChanged.Subscribe(fn)
}
