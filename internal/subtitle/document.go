package subtitle

import (
	"fmt"

	"github.com/nmkale/subtide/internal/event"
)

// CommitFlag describes which parts of the document a commit touched.
type CommitFlag int

const (
	// dialogue start or end times changed
	CommitDialogueTime CommitFlag = 1 << iota
	// lines were added or removed
	CommitDialogueAddRemove
	// dialogue text changed
	CommitDialogueText
	// anything else (styles, metadata)
	CommitDialogueMeta
)

// NoCommitID is the sentinel passed to Commit to force a fresh undo step.
const NoCommitID = -1

// snapshot of the event list taken at commit time
type docState struct {
	desc   string
	events []Line
}

// Document is a subtitle file open for editing. All mutation is published
// through Commit, which maintains the undo stack and notifies listeners.
type Document struct {
	// Events holds the dialogue lines in file order. Callers mutate the
	// lines in place and then Commit.
	Events []*Line

	// raw non-dialogue sections preserved for ASS round-tripping
	header []string

	format Format

	undo []docState
	redo []docState

	commitSeq    int
	lastCommitID int
	lastAmend    *Line

	committed event.Signal[CommitFlag]
}

// NewDocument creates an empty document with an initial undo baseline.
func NewDocument() *Document {
	d := &Document{
		format:       FormatASS,
		lastCommitID: NoCommitID,
	}
	d.undo = append(d.undo, d.capture("new file"))
	return d
}

func (d *Document) Format() Format { return d.format }

// AddCommitListener subscribes to commit notifications.
func (d *Document) AddCommitListener(fn func(CommitFlag)) *event.Connection[CommitFlag] {
	return d.committed.Subscribe(fn)
}

// Commit publishes pending mutations as an undo step.
//
// When commitID matches the id returned by the previous commit and amend is
// the same line (or both are nil), the new state replaces the top undo entry
// instead of pushing a fresh one, so a run of drags collapses into a single
// undo step. Pass NoCommitID to force a fresh step. Returns the id to offer
// next time for coalescing.
func (d *Document) Commit(desc string, flags CommitFlag, commitID int, amend *Line) int {
	d.redo = nil

	coalesce := commitID != NoCommitID &&
		commitID == d.lastCommitID &&
		amend == d.lastAmend &&
		len(d.undo) > 1

	if coalesce {
		d.undo[len(d.undo)-1] = d.capture(desc)
	} else {
		d.undo = append(d.undo, d.capture(desc))
	}

	d.commitSeq++
	d.lastCommitID = d.commitSeq
	d.lastAmend = amend

	d.committed.Emit(flags)
	return d.commitSeq
}

// SetEvents replaces the event list and resets the undo baseline, as when
// loading a file.
func (d *Document) SetEvents(lines []*Line) {
	d.Events = lines
	d.undo = d.undo[:0]
	d.undo = append(d.undo, d.capture("open file"))
	d.redo = nil
	d.lastCommitID = NoCommitID
	d.lastAmend = nil
}

// CanUndo reports whether an undo step is available.
func (d *Document) CanUndo() bool { return len(d.undo) > 1 }

// CanRedo reports whether a redo step is available.
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

// UndoDescription names the change Undo would revert.
func (d *Document) UndoDescription() string {
	if !d.CanUndo() {
		return ""
	}
	return d.undo[len(d.undo)-1].desc
}

// Undo reverts the most recent commit.
func (d *Document) Undo() error {
	if !d.CanUndo() {
		return fmt.Errorf("nothing to undo")
	}
	top := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, top)
	d.restore(d.undo[len(d.undo)-1])
	return nil
}

// Redo reapplies the most recently undone commit.
func (d *Document) Redo() error {
	if !d.CanRedo() {
		return fmt.Errorf("nothing to redo")
	}
	top := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, top)
	d.restore(top)
	return nil
}

// InsertAfter places line directly after the given line, or at the end when
// after is nil or not found. The caller is responsible for committing.
func (d *Document) InsertAfter(line, after *Line) {
	if after != nil {
		for i, l := range d.Events {
			if l == after {
				d.Events = append(d.Events[:i+1],
					append([]*Line{line}, d.Events[i+1:]...)...)
				return
			}
		}
	}
	d.Events = append(d.Events, line)
}

// IndexOf returns the position of line in Events, or -1.
func (d *Document) IndexOf(line *Line) int {
	for i, l := range d.Events {
		if l == line {
			return i
		}
	}
	return -1
}

func (d *Document) capture(desc string) docState {
	st := docState{desc: desc, events: make([]Line, len(d.Events))}
	for i, l := range d.Events {
		st.events[i] = *l
	}
	return st
}

func (d *Document) restore(st docState) {
	// outside controllers hold *Line references, so restore into the
	// existing objects where the line count is unchanged
	if len(st.events) == len(d.Events) {
		for i := range st.events {
			*d.Events[i] = st.events[i]
		}
	} else {
		d.Events = make([]*Line, len(st.events))
		for i := range st.events {
			l := st.events[i]
			d.Events[i] = &l
		}
	}
	// a restore can change anything, so report everything
	d.lastCommitID = NoCommitID
	d.lastAmend = nil
	d.committed.Emit(CommitDialogueTime | CommitDialogueAddRemove | CommitDialogueText)
}
