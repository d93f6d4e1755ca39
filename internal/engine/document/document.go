package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/gapbuffer"
	"github.com/dshills/textcore/internal/engine/lines"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/logging"
)

// TextStore is the raw storage behind a document.
// *gapbuffer.Store is the standard implementation.
type TextStore interface {
	Len() int
	Char(offset int) (byte, error)
	Text(offset, length int) (string, error)
	Replace(offset, length int, text string) error
	Set(text string)
}

// Document is an editable text with tracked positions.
type Document struct {
	id uuid.UUID

	store    TextStore
	lines    *lines.Tracker
	registry *position.Registry

	partitioner Partitioner

	prenotified []Listener
	listeners   []Listener
	inFlight    bool
	seq         uint64

	logger *logging.Logger

	// Construction-only settings.
	initText      string
	storeOpts     []gapbuffer.Option
	defaultPolicy position.Policy
}

// New creates a document.
// Returns ErrInvalidConfiguration if the store settings are unusable.
func New(opts ...Option) (*Document, error) {
	d := &Document{
		id:       uuid.New(),
		registry: position.NewRegistry(),
		logger:   logging.NullLogger,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.store == nil {
		store, err := gapbuffer.NewStoreFromString(d.initText,
			append(d.storeOpts, gapbuffer.WithLogger(d.logger))...)
		if err != nil {
			return nil, err
		}
		d.store = store
	}
	d.initText = ""
	d.storeOpts = nil

	content, err := d.store.Text(0, d.store.Len())
	if err != nil {
		return nil, err
	}
	d.lines = lines.New(content)

	d.registry.AddCategory(position.Default)
	d.registry.AddUpdater(&position.DefaultUpdater{
		Category:      position.Default,
		OnFullOverlap: d.defaultPolicy,
	})

	d.logger = d.logger.WithField("document", d.id.String())
	return d, nil
}

// ID returns the document's unique identifier.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Len returns the length of the content in bytes.
func (d *Document) Len() int {
	return d.store.Len()
}

// Get returns the whole content.
func (d *Document) Get() string {
	text, _ := d.store.Text(0, d.store.Len())
	return text
}

// GetRange returns length bytes starting at offset.
func (d *Document) GetRange(offset, length int) (string, error) {
	if !d.validRange(offset, length) {
		return "", fmt.Errorf("%w: get [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, d.Len())
	}
	return d.store.Text(offset, length)
}

// Char returns the byte at offset.
func (d *Document) Char(offset int) (byte, error) {
	return d.store.Char(offset)
}

// Replace removes length bytes at offset and inserts text.
// On error nothing has been modified and no listener has been called.
func (d *Document) Replace(offset, length int, text string) error {
	if !d.validRange(offset, length) {
		return fmt.Errorf("%w: replace [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, d.Len())
	}
	if d.inFlight {
		return ErrReentrantEdit
	}

	d.inFlight = true
	defer func() { d.inFlight = false }()

	e := d.nextEvent(offset, length, text)
	d.fireAboutToChange(e)
	if err := d.store.Replace(offset, length, text); err != nil {
		// Only reachable with a store that disagrees with Len.
		return fmt.Errorf("store rejected %s: %w", e, err)
	}
	d.apply(e)
	return nil
}

// Set replaces the whole content. Positions are adjusted as for a
// replacement of the entire old content.
func (d *Document) Set(text string) error {
	if d.inFlight {
		return ErrReentrantEdit
	}

	d.inFlight = true
	defer func() { d.inFlight = false }()

	e := d.nextEvent(0, d.Len(), text)
	d.fireAboutToChange(e)
	d.store.Set(text)
	d.lines.Set(text)
	d.registry.Update(e.Edit())
	d.fireChanged(e)
	return nil
}

// ApplyStoreChange notifies listeners and updates lines and positions for
// a replacement that has already been applied to the document's store by
// its owner. The range is validated against the content before the change.
func (d *Document) ApplyStoreChange(offset, length int, text string) error {
	old := d.lines.Len()
	if offset < 0 || length < 0 || offset > old || length > old-offset {
		return fmt.Errorf("%w: change [%d:%d) of %d bytes", ErrOutOfRange, offset, offset+length, old)
	}
	if d.inFlight {
		return ErrReentrantEdit
	}

	d.inFlight = true
	defer func() { d.inFlight = false }()

	e := d.nextEvent(offset, length, text)
	d.fireAboutToChange(e)
	d.apply(e)
	return nil
}

// SwapStore makes the document use store from now on. The store must
// hold text of the same length; no events are fired.
func (d *Document) SwapStore(store TextStore) error {
	if store.Len() != d.Len() {
		return fmt.Errorf("%w: %d bytes, document has %d", ErrStoreMismatch, store.Len(), d.Len())
	}
	d.store = store
	return nil
}

// ResyncLines rebuilds the line tracker from the store's content.
func (d *Document) ResyncLines() {
	d.lines.Set(d.Get())
}

// TrackedLen returns the content length the line tracker believes in.
// It differs from Len only while a store change awaits ApplyStoreChange.
func (d *Document) TrackedLen() int {
	return d.lines.Len()
}

func (d *Document) nextEvent(offset, length int, text string) Event {
	d.seq++
	return Event{Document: d, Offset: offset, Length: length, Text: text, Seq: d.seq}
}

// apply updates lines and positions after the store changed, then
// notifies listeners.
func (d *Document) apply(e Event) {
	if err := d.lines.Replace(e.Offset, e.Length, e.Text); err != nil {
		d.logger.Warn("line tracker out of sync, rebuilding: %v", err)
		d.ResyncLines()
	}
	d.registry.Update(e.Edit())
	d.fireChanged(e)
}

func (d *Document) validRange(offset, length int) bool {
	n := d.Len()
	return offset >= 0 && length >= 0 && offset <= n && length <= n-offset
}

// Line queries.

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.lines.LineCount()
}

// LineOfOffset returns the 0-based line containing offset.
func (d *Document) LineOfOffset(offset int) (int, error) {
	line, err := d.lines.LineOfOffset(offset)
	return line, lineError(err)
}

// LineOffset returns the offset of the first byte of line.
func (d *Document) LineOffset(line int) (int, error) {
	off, err := d.lines.LineOffset(line)
	return off, lineError(err)
}

// LineLength returns the length of line including its newline.
func (d *Document) LineLength(line int) (int, error) {
	n, err := d.lines.LineLength(line)
	return n, lineError(err)
}

func lineError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, lines.ErrOutOfRange) {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return err
}
