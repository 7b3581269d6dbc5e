// Package registry implements the thread/process registry: two indexes
// over thread records (by thread id, by thread-group id) plus the
// intrusive per-group sibling list, and ownership of the file tables
// shared within a group.
package registry

import (
	"errors"

	"tracefiled.dev/tracefiled/internal/filestate"
	"tracefiled.dev/tracefiled/internal/ordermap"
)

// ErrUnknownThread is returned by ProcessDestroy when tid names no
// tracked thread.
var ErrUnknownThread = errors.New("registry: unknown thread id")

// Thread is a single tracked thread. Threads of one thread group share
// the same Files table by reference.
type Thread struct {
	TID, PID, PPID uint64
	Files          *filestate.Table

	// next links to the following sibling in this thread group's
	// intrusive list; nil for the last (or only) sibling.
	next *Thread
}

// Registry holds the by-tid and by-pid indexes described in the design.
// The zero value is not usable; construct one with New so tests can
// always start from a fresh registry instead of ambient global state.
type Registry struct {
	byTID *ordermap.Map[uint64, *Thread]
	byPID *ordermap.Map[uint64, *Thread] // value is the head of the sibling list
}

func New() *Registry {
	less := func(a, b uint64) bool { return a < b }
	return &Registry{
		byTID: ordermap.New[uint64, *Thread](less),
		byPID: ordermap.New[uint64, *Thread](less),
	}
}

// ProcessCreate announces a new thread. If pid already has a thread
// group in the registry, the new thread is linked in right after the
// current head and shares its file table; otherwise a fresh table is
// allocated and this thread becomes the head.
func (r *Registry) ProcessCreate(pid, tid, ppid uint64) *Thread {
	t := &Thread{TID: tid, PID: pid, PPID: ppid}

	if head, ok := r.byPID.Find(pid); ok {
		t.Files = head.Files
		t.next = head.next
		head.next = t
	} else {
		t.Files = filestate.NewTable()
		r.byPID.Insert(pid, t)
	}

	r.byTID.Insert(tid, t)
	return t
}

// FindProcess looks a thread up by thread id.
func (r *Registry) FindProcess(tid uint64) (*Thread, bool) {
	return r.byTID.Find(tid)
}

// FindProcessByPID returns the current head of the sibling list for
// the given thread-group id.
func (r *Registry) FindProcessByPID(pid uint64) (*Thread, bool) {
	return r.byPID.Find(pid)
}

// ProcessDestroy tears a thread down. When the destroyed thread is the
// last member of its group, its shared file table is destroyed too,
// invoking dispose on every file record it still held.
func (r *Registry) ProcessDestroy(tid uint64, dispose func(*filestate.Record)) error {
	t, ok := r.byTID.Find(tid)
	if !ok {
		return ErrUnknownThread
	}
	r.byTID.Delete(tid)

	head, _ := r.byPID.Find(t.PID)
	switch {
	case head == t && t.next == nil:
		// sole member of the group: drop the head and free the table.
		r.byPID.Delete(t.PID)
		t.Files.Destroy(dispose)
	case head == t:
		// head with surviving siblings: promote the next sibling.
		r.byPID.Delete(t.PID)
		r.byPID.Insert(t.PID, t.next)
	default:
		// non-head sibling: unlink it by walking from the head.
		prev := head
		for prev.next != t {
			prev = prev.next
		}
		prev.next = t.next
	}
	return nil
}
