package filestate

import (
	"tracefiled.dev/tracefiled/internal/ordermap"
	"tracefiled.dev/tracefiled/linux"
)

// Record is a single file's state within one thread group's table. A
// Record exists in exactly one Table.
type Record struct {
	Name   string
	State  State
	Health Health

	// NrOpen counts successful open/creat observations. It is
	// maintained by the dispatcher, not by Observe.
	NrOpen int64

	// FdErr is the last error code observed for this file, 0 if none.
	// Reserved: nothing in this core currently sets it.
	FdErr int

	// Stat is the kernel-verified snapshot taken on first observation
	// and overwritten by a TEST in Update or Retire and by a CLOSE in
	// Retire; every other transition keeps it.
	Stat linux.FileHeader

	// Dir is reserved for future path/directory verification (see
	// STATE_DIR_OK / STATE_DIR_ERR in the original design); always nil
	// here.
	Dir *Record
}

func (r *Record) raise(h Health) {
	if h > r.Health {
		r.Health = h
	}
}

// same compares the fields that identify a filesystem object,
// ignoring time fields, per the spec's definition of a matching
// snapshot.
func same(a, b linux.FileHeader) bool {
	return a.Device == b.Device &&
		a.IndexNode == b.IndexNode &&
		a.Permissions == b.Permissions &&
		a.User == b.User &&
		a.Group == b.Group
}

func healthFromSame(a, b linux.FileHeader) Health {
	if same(a, b) {
		return OK
	}
	return Bad
}

// advance applies one transition to an already-existing record,
// implementing the table in the design's §4.4 verbatim.
func (r *Record) advance(transition Transition, snapshot linux.FileHeader) {
	switch r.State {
	case Update:
		switch transition {
		case Test:
			r.Stat = snapshot
			r.raise(OK)
			r.State = Update
		case Use:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Enforce
		case Close:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Retire
		}
	case Enforce:
		switch transition {
		case Test:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Enforce
		case Use:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Enforce
		case Close:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Retire
		}
	case Retire:
		switch transition {
		case Test:
			r.Stat = snapshot
			r.raise(OK)
			r.State = Update
		case Use:
			r.raise(healthFromSame(r.Stat, snapshot))
			r.State = Enforce
		case Close:
			r.Stat = snapshot
			r.raise(OK)
			r.State = Retire
		}
	}
}

// firstObservation builds the record created the first time a filename
// is seen in a table.
func firstObservation(name string, snapshot linux.FileHeader, transition Transition) *Record {
	r := &Record{Name: name, Stat: snapshot}
	switch transition {
	case Test:
		r.State = Update
		r.Health = OK
	case Use:
		r.State = Enforce
		r.Health = Unchecked
	case Close:
		r.State = Retire
		r.Health = Unchecked
	}
	return r
}

// Table is the per-thread-group mapping from filename to file record.
// It is shared by reference among every thread of one thread group.
type Table struct {
	files *ordermap.Map[string, *Record]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{files: ordermap.New[string, *Record](func(a, b string) bool { return a < b })}
}

// Observe records one (filename, snapshot, transition) triple and
// returns the resulting record. It creates the record on first
// observation of name and advances it on every subsequent one.
//
// Panics with a NameTooLongError if name exceeds MaxNameLen — this is a
// programming error in the interceptor, not a result this core can
// recover from safely.
func (t *Table) Observe(name string, snapshot linux.FileHeader, transition Transition) *Record {
	if len(name) > MaxNameLen {
		panic(NameTooLongError{Name: name})
	}
	if r, ok := t.files.Find(name); ok {
		r.advance(transition, snapshot)
		return r
	}
	r := firstObservation(name, snapshot, transition)
	t.files.Insert(name, r)
	return r
}

// Get returns the record for name without observing a transition.
func (t *Table) Get(name string) (*Record, bool) {
	return t.files.Find(name)
}

// Len reports how many files are currently tracked.
func (t *Table) Len() int {
	return t.files.Len()
}

// Destroy tears the table down, invoking dispose on every remaining
// record. Called exactly once, when the last thread of a group is
// destroyed.
func (t *Table) Destroy(dispose func(*Record)) {
	t.files.Destroy(func(_ string, r *Record) {
		if dispose != nil {
			dispose(r)
		}
	})
}
