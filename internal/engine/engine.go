package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/document"
	"github.com/dshills/textcore/internal/engine/format"
	"github.com/dshills/textcore/internal/engine/partition"
	"github.com/dshills/textcore/internal/engine/position"
	"github.com/dshills/textcore/internal/engine/projection"
	"github.com/dshills/textcore/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Document is an editable text with tracked positions.
	Document = document.Document

	// ChildDocument is a live projection of a range of a parent document.
	ChildDocument = projection.ChildDocument

	// Position is a tracked range that follows edits.
	Position = position.Position

	// Category groups positions under one updater.
	Category = position.Category

	// TypedRegion is one partition of a document.
	TypedRegion = document.TypedRegion

	// Event describes one document change.
	Event = document.Event

	// Listener observes document changes.
	Listener = document.Listener

	// Strategy formats the text of one partition.
	Strategy = format.Strategy

	// Rule describes one delimited content type.
	Rule = partition.Rule
)

// DefaultContentType is the type of text no partition rule claims.
const DefaultContentType = document.DefaultContentType

// DefaultCategory is the category positions are added to by AddPosition.
var DefaultCategory = position.Default

// Engine ties a document to its configured partitioner, reformatter and
// child documents behind a thread-safe API.
type Engine struct {
	mu sync.RWMutex

	doc         *document.Document
	reformatter *format.Reformatter
	strategies  map[string]*ConfiguredStrategy
	children    *projection.Manager

	cfg    *config.Config
	logger *logging.Logger
	closed bool

	initContent string
}

// New creates an Engine with the given options.
// The configuration is validated before anything is built.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    config.Default(),
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("engine")

	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := partitionerFromConfig(e.cfg)
	if err != nil {
		return nil, err
	}

	docOpts := []document.Option{
		document.WithText(e.initContent),
		document.WithWatermarks(e.cfg.Store.LowWatermark, e.cfg.Store.HighWatermark),
		document.WithFullOverlapPolicy(e.cfg.Positions.Policy()),
		document.WithLogger(e.logger.WithComponent("document")),
	}
	if p != nil {
		docOpts = append(docOpts, document.WithPartitioner(p))
	}
	e.doc, err = document.New(docOpts...)
	if err != nil {
		return nil, err
	}
	e.initContent = ""

	e.reformatter = format.New(format.WithLogger(e.logger.WithComponent("format")))
	if err := e.installStrategies(e.cfg); err != nil {
		return nil, err
	}

	e.children = projection.NewManager(projection.WithLogger(e.logger))

	e.logger.Debug("engine ready: %d bytes, %d partition rules, %d formatters",
		e.doc.Len(), len(e.cfg.Partitions), len(e.strategies))
	return e, nil
}

// NewFromReader creates an Engine holding everything read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append(opts, WithContent(string(data)))...)
}

// partitionerFromConfig builds the rule partitioner, or nil when no
// rules are configured.
func partitionerFromConfig(cfg *config.Config) (*partition.Partitioner, error) {
	if len(cfg.Partitions) == 0 {
		return nil, nil
	}
	rules := make([]partition.Rule, len(cfg.Partitions))
	for i, r := range cfg.Partitions {
		rules[i] = partition.Rule{
			ContentType: r.ContentType,
			Start:       r.Start,
			End:         r.End,
			SingleLine:  r.SingleLine,
		}
		if r.Escape != "" {
			rules[i].Escape = r.Escape[0]
		}
	}
	return partition.New(rules...)
}

// installStrategies builds every configured strategy before replacing the
// current ones, so a failure leaves the engine unchanged.
func (e *Engine) installStrategies(cfg *config.Config) error {
	built := make(map[string]*ConfiguredStrategy, len(cfg.Formatting))
	for _, contentType := range cfg.FormattedTypes() {
		s, err := StrategyFromConfig(cfg.Formatting[contentType], e.logger)
		if err != nil {
			for _, b := range built {
				b.Close()
			}
			return fmt.Errorf("formatting.%s: %w", contentType, err)
		}
		built[contentType] = s
	}

	for contentType, old := range e.strategies {
		e.reformatter.SetStrategy(contentType, nil)
		old.Close()
	}
	for contentType, s := range built {
		e.reformatter.SetStrategy(contentType, s)
	}
	e.strategies = built
	return nil
}

// Reconfigure applies a new configuration to a running engine.
// Partition rules, strategies and the full-overlap policy take effect
// immediately; store watermarks only apply to new engines.
func (e *Engine) Reconfigure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	p, err := partitionerFromConfig(cfg)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if err := e.installStrategies(cfg); err != nil {
		return err
	}
	if p == nil {
		e.doc.SetPartitioner(nil)
	} else {
		e.doc.SetPartitioner(p)
	}
	for _, u := range e.doc.Updaters() {
		if du, ok := u.(*position.DefaultUpdater); ok && du.Category == position.Default {
			du.OnFullOverlap = cfg.Positions.Policy()
		}
	}
	e.cfg = cfg
	e.logger.Info("configuration reloaded")
	return nil
}

// Config returns the configuration in effect.
func (e *Engine) Config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Document returns the underlying document. Calls on it bypass the
// engine's lock.
func (e *Engine) Document() *document.Document {
	return e.doc
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Get()
}

// TextRange returns length bytes starting at offset.
func (e *Engine) TextRange(offset, length int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.GetRange(offset, length)
}

// Len returns the total byte length of the document.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.LineCount()
}

// LineOfOffset returns the 0-based line containing offset.
func (e *Engine) LineOfOffset(offset int) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.LineOfOffset(offset)
}

// Partitioning returns the partitions of the whole document.
func (e *Engine) Partitioning() ([]TypedRegion, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.ComputePartitioning(0, e.doc.Len())
}

// ContentType returns the content type at offset.
func (e *Engine) ContentType(offset int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.ContentType(offset)
}

// ============================================================================
// Write Operations
// ============================================================================

// Replace removes length bytes at offset and inserts text.
func (e *Engine) Replace(offset, length int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.doc.Replace(offset, length, text)
}

// Insert inserts text at offset.
func (e *Engine) Insert(offset int, text string) error {
	return e.Replace(offset, 0, text)
}

// Delete removes length bytes at offset.
func (e *Engine) Delete(offset, length int) error {
	return e.Replace(offset, length, "")
}

// Set replaces the whole content.
func (e *Engine) Set(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.doc.Set(text)
}

// ============================================================================
// Positions
// ============================================================================

// AddPosition starts tracking [offset, offset+length) in DefaultCategory.
func (e *Engine) AddPosition(offset, length int) (*Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := position.New(offset, length)
	if err := e.doc.AddPosition(position.Default, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemovePosition stops tracking p.
func (e *Engine) RemovePosition(p *Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.RemovePosition(position.Default, p)
}

// Positions returns the positions tracked in DefaultCategory.
func (e *Engine) Positions() []*Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ps, _ := e.doc.Positions(position.Default)
	return ps
}

// ============================================================================
// Formatting
// ============================================================================

// Format reformats the partitions overlapping [offset, offset+length).
func (e *Engine) Format(offset, length int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.reformatter.Format(e.doc, offset, length)
}

// FormatAll reformats the whole document.
func (e *Engine) FormatAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.reformatter.FormatAll(e.doc)
}

// ============================================================================
// Child Documents
// ============================================================================

// CreateChild creates a child document showing [offset, offset+length).
func (e *Engine) CreateChild(offset, length int) (*Child, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	doc, err := e.children.CreateChild(e.doc, offset, length)
	if err != nil {
		return nil, err
	}
	return &Child{e: e, doc: doc}, nil
}

// FreeChild detaches a child created by CreateChild.
func (e *Engine) FreeChild(child *Child) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.children.FreeChild(child.doc)
}

// Children returns the attached children.
func (e *Engine) Children() []*Child {
	e.mu.RLock()
	defer e.mu.RUnlock()
	docs := e.children.Children(e.doc)
	out := make([]*Child, len(docs))
	for i, doc := range docs {
		out[i] = &Child{e: e, doc: doc}
	}
	return out
}

// Close detaches every child and releases script states.
// The document stays readable.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	errs := []error{e.children.Close()}
	for contentType, s := range e.strategies {
		e.reformatter.SetStrategy(contentType, nil)
		errs = append(errs, s.Close())
	}
	e.strategies = nil
	return errors.Join(errs...)
}
