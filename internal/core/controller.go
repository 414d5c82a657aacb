package core

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrTooManyRows is returned when a file has more data rows than allowed.
var ErrTooManyRows = errors.New("too many rows")

// DefaultMaxRows keeps worst-case sorts short. Already-sorted input and
// columns of equal keys make the quicksort quadratic.
const DefaultMaxRows = 5000

// ControllerOptions configures a page controller.
type ControllerOptions struct {
	// SortColumn is the column sorted when a request does not name one.
	SortColumn int

	// ReapplyFilter keeps the active query after a sort or load. When false,
	// sorting and loading clear it so every row is shown again.
	ReapplyFilter bool

	// Loader parses uploaded text. Defaults to NaiveLoader.
	Loader Loader

	// MaxRows rejects tables with more data rows; 0 means no limit.
	MaxRows int
}

// LoadResult summarizes a completed load.
type LoadResult struct {
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
	Seq      uint64 `json:"seq"`
}

// Controller owns the state of one page: its table, the active filter query
// and the last sort. All methods are safe for concurrent use.
type Controller struct {
	id   string
	opts ControllerOptions
	now  func() time.Time

	mu       sync.Mutex
	store    *TableStore
	query    string
	lastSort *SortKey
	fileName string
	loadSeq  uint64
	lastUsed time.Time
}

// NewController returns a controller with an empty table.
func NewController(id string, opts ControllerOptions) *Controller {
	if opts.Loader == nil {
		opts.Loader = NaiveLoader{}
	}
	c := &Controller{
		id:    id,
		opts:  opts,
		now:   time.Now,
		store: NewTableStore(),
	}
	c.lastUsed = c.now()
	return c
}

// ID returns the controller's session ID.
func (c *Controller) ID() string {
	return c.id
}

// Load parses raw and replaces the current table. Parsing happens outside
// the lock; when two loads overlap, whichever finishes last wins. A table
// over MaxRows is rejected with ErrTooManyRows and the old one is kept.
func (c *Controller) Load(fileName, raw string) (LoadResult, error) {
	t := c.opts.Loader.Load(raw)
	if c.opts.MaxRows > 0 && len(t.Rows) > c.opts.MaxRows {
		return LoadResult{}, fmt.Errorf("%w: %d data rows, limit is %d", ErrTooManyRows, len(t.Rows), c.opts.MaxRows)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Replace(t)
	c.fileName = fileName
	c.lastSort = nil
	if !c.opts.ReapplyFilter {
		c.query = ""
	}
	c.loadSeq++
	c.touch()

	cols := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}

	return LoadResult{
		FileName: fileName,
		Rows:     len(t.Rows),
		Columns:  cols,
		Seq:      c.loadSeq,
	}, nil
}

// Sort reorders the data rows. A negative column selects the configured one.
func (c *Controller) Sort(column int, dir Direction) SortKey {
	if column < 0 {
		column = c.opts.SortColumn
	}
	key := SortKey{Column: column, Direction: dir}

	c.mu.Lock()
	defer c.mu.Unlock()

	SortRows(c.store.DataRows(), key.Column, key.Direction)
	c.lastSort = &key
	if !c.opts.ReapplyFilter {
		c.query = ""
	}
	c.touch()

	return key
}

// SetFilter records the query used for visibility. Row order is untouched.
func (c *Controller) SetFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.touch()
}

// Query returns the active filter query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Table returns a copy of the current table.
func (c *Controller) Table() Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// View builds the render model for the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := NewView(c.store.Snapshot(), c.query)
	v.FileName = c.fileName
	v.SortColumn = c.opts.SortColumn
	if c.lastSort != nil {
		k := *c.lastSort
		v.Sort = &k
	}
	c.touch()
	return v
}

// LastUsed returns when the controller was last accessed.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// touch must be called with mu held.
func (c *Controller) touch() {
	c.lastUsed = c.now()
}
