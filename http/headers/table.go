package headers

import (
	"github.com/indigo-web/utils/strcomp"
	"github.com/pkg/errors"
)

// ErrTableFull is returned when more names are subscribed than the table was sized for.
var ErrTableFull = errors.New("header subscription table is full")

type entry struct {
	Key, Value string
}

// Table holds values of a fixed set of header names a handler is interested in. Names
// are matched case-insensitively, and every match overwrites the previously stored value.
// The set of names outlives a request, whereas the values must be reset before each parse.
type Table struct {
	entries []entry
}

// NewTable returns a table able to hold at most capacity subscribed names.
func NewTable(capacity int) *Table {
	return &Table{
		entries: make([]entry, 0, capacity),
	}
}

// Subscribe adds names to the table. Names already present are ignored.
func (t *Table) Subscribe(names ...string) error {
	for _, name := range names {
		if t.index(name) != -1 {
			continue
		}

		if len(t.entries) == cap(t.entries) {
			return errors.Wrapf(ErrTableFull, "subscribing %q", name)
		}

		t.entries = append(t.entries, entry{Key: name})
	}

	return nil
}

// Collect stores the value if the name is subscribed. It returns whether it was.
func (t *Table) Collect(name, value string) bool {
	i := t.index(name)
	if i == -1 {
		return false
	}

	t.entries[i].Value = value
	return true
}

// Value returns the collected value of the name. Unsubscribed or not presented
// headers have an empty value.
func (t *Table) Value(name string) string {
	if i := t.index(name); i != -1 {
		return t.entries[i].Value
	}

	return ""
}

// Has reports whether a non-empty value was collected for the name.
func (t *Table) Has(name string) bool {
	return len(t.Value(name)) > 0
}

// Len returns the number of subscribed names.
func (t *Table) Len() int {
	return len(t.entries)
}

// Reset empties every collected value, but keeps the subscriptions.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i].Value = ""
	}
}

func (t *Table) index(name string) int {
	for i, e := range t.entries {
		if strcomp.EqualFold(e.Key, name) {
			return i
		}
	}

	return -1
}
