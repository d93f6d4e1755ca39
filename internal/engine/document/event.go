package document

import (
	"fmt"

	"github.com/dshills/textcore/internal/engine/position"
)

// Event describes one edit of a document.
//
// Both notifications for an edit carry the same Seq, which increases by
// one for every edit of the document.
type Event struct {
	Document *Document
	Offset   int
	Length   int
	Text     string
	Seq      uint64
}

// NewLength returns the length of the inserted text.
func (e Event) NewLength() int {
	return len(e.Text)
}

// Edit returns the edit in the form position updaters consume.
func (e Event) Edit() position.Edit {
	return position.Edit{Offset: e.Offset, Length: e.Length, Text: e.Text}
}

// String returns a human-readable representation of the event.
func (e Event) String() string {
	return fmt.Sprintf("#%d replace [%d:%d) with %q", e.Seq, e.Offset, e.Offset+e.Length, e.Text)
}

// Listener receives change notifications.
//
// DocumentAboutToChange runs before the text changes; DocumentChanged runs
// after the text, lines and positions have been updated. Listeners must be
// comparable so they can be removed.
type Listener interface {
	DocumentAboutToChange(e Event)
	DocumentChanged(e Event)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
// Use it by pointer so the listener can be removed again.
type ListenerFuncs struct {
	AboutToChange func(Event)
	Changed       func(Event)
}

// DocumentAboutToChange implements Listener.
func (l *ListenerFuncs) DocumentAboutToChange(e Event) {
	if l.AboutToChange != nil {
		l.AboutToChange(e)
	}
}

// DocumentChanged implements Listener.
func (l *ListenerFuncs) DocumentChanged(e Event) {
	if l.Changed != nil {
		l.Changed(e)
	}
}
