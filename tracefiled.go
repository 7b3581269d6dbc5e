// Package tracefiled is the public facade over the TOCTTOU race-detection
// core: a thread/process registry wired to the file state machine via
// the syscall dispatcher.
package tracefiled

import (
	"sync"

	"tracefiled.dev/tracefiled/internal/dispatch"
	"tracefiled.dev/tracefiled/internal/registry"
	"tracefiled.dev/tracefiled/internal/syscallcode"
	"tracefiled.dev/tracefiled/linux"
)

// Re-exported vocabulary so callers only need to import this package.
type (
	Result  = dispatch.Result
	Syscall = syscallcode.Syscall
)

const (
	Pass      = dispatch.Pass
	Unchecked = dispatch.Unchecked
	Race      = dispatch.Race
	PIDErr    = dispatch.PIDErr
)

const (
	Access = syscallcode.Access
	Stat   = syscallcode.Stat
	Creat  = syscallcode.Creat
	Open   = syscallcode.Open
	Close  = syscallcode.Close
)

// Daemon owns one registry's worth of tracked threads. The core is
// single-threaded cooperative by design (see Safe for the
// one concession to multi-threaded interceptors).
type Daemon struct {
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
}

// New returns an empty daemon, ready to track threads.
func New() *Daemon {
	reg := registry.New()
	return &Daemon{registry: reg, dispatcher: dispatch.New(reg)}
}

// ProcessCreate announces a new thread to the daemon.
func (d *Daemon) ProcessCreate(pid, tid, ppid uint64) {
	d.registry.ProcessCreate(pid, tid, ppid)
}

// ProcessDestroy retires a thread. Returns registry.ErrUnknownThread if
// tid was never created (or was already destroyed).
func (d *Daemon) ProcessDestroy(tid uint64) error {
	return d.registry.ProcessDestroy(tid, nil)
}

// FindProcess reports whether tid is currently tracked.
func (d *Daemon) FindProcess(tid uint64) (pid, ppid uint64, ok bool) {
	t, found := d.registry.FindProcess(tid)
	if !found {
		return 0, 0, false
	}
	return t.PID, t.PPID, true
}

// FindProcessByPID reports the thread-group head currently tracked for
// pid.
func (d *Daemon) FindProcessByPID(pid uint64) (tid uint64, ok bool) {
	t, found := d.registry.FindProcessByPID(pid)
	if !found {
		return 0, false
	}
	return t.TID, true
}

// HandleSyscall dispatches one observed syscall and returns the
// resulting verdict, plus a human-readable diagnostic when the verdict
// is Unchecked or Race.
func (d *Daemon) HandleSyscall(tid uint64, call Syscall, filename, path string, stat linux.FileHeader) (Result, string) {
	result, diagnostic := d.dispatcher.HandleSyscall(tid, call, filename, path, stat)
	if diagnostic == nil {
		return result, ""
	}
	return result, diagnostic.String()
}

// Safe wraps a Daemon with a mutex, for interceptors that dispatch from
// more than one OS thread. The state machine itself still assumes
// events on a given (group, filename) arrive in order; Safe only
// serializes entry, it does not reorder anything.
type Safe struct {
	mu sync.Mutex
	d  *Daemon
}

// NewSafe wraps d for concurrent use. Pass nil to create a fresh Daemon.
func NewSafe(d *Daemon) *Safe {
	if d == nil {
		d = New()
	}
	return &Safe{d: d}
}

func (s *Safe) ProcessCreate(pid, tid, ppid uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.ProcessCreate(pid, tid, ppid)
}

func (s *Safe) ProcessDestroy(tid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.ProcessDestroy(tid)
}

func (s *Safe) HandleSyscall(tid uint64, call Syscall, filename, path string, stat linux.FileHeader) (Result, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.HandleSyscall(tid, call, filename, path, stat)
}
