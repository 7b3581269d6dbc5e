// Package dispatch translates a syscall event into a filestate
// transition, applies it to the issuing thread's file table, and
// translates the resulting health into a caller-facing result.
package dispatch

import (
	"tracefiled.dev/tracefiled/internal/diag"
	"tracefiled.dev/tracefiled/internal/filestate"
	"tracefiled.dev/tracefiled/internal/registry"
	"tracefiled.dev/tracefiled/internal/syscallcode"
	"tracefiled.dev/tracefiled/linux"
)

// Result is the verdict returned to the interceptor for one dispatched
// syscall.
type Result int

const (
	Pass      Result = iota // all is fine
	Unchecked               // possible program hygiene error: unchecked file usage
	Race                    // race condition detected
	PIDErr                  // no information about the given thread id
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Unchecked:
		return "UNCHECKED"
	case Race:
		return "RACE"
	case PIDErr:
		return "PIDERR"
	default:
		return "UNKNOWN_RESULT"
	}
}

func resultFromHealth(h filestate.Health) Result {
	switch h {
	case filestate.OK:
		return Pass
	case filestate.Unchecked:
		return Unchecked
	case filestate.Bad:
		return Race
	default:
		panic("dispatch: file state machine reached an unknown health")
	}
}

// Dispatcher is the entry point §4.5 describes: handle_syscall applied
// against a specific registry.
type Dispatcher struct {
	registry *registry.Registry
}

// New wraps reg as a dispatcher. reg is not owned exclusively — callers
// may still create/destroy threads on it directly.
func New(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// HandleSyscall is handle_syscall(tid, syscall_code, filename, path, stat)
// from the design. path is reserved for directory verification and
// otherwise only flows into the diagnostic.
func (d *Dispatcher) HandleSyscall(tid uint64, call syscallcode.Syscall, filename, path string, stat linux.FileHeader) (Result, *diag.Diagnostic) {
	thread, ok := d.registry.FindProcess(tid)
	if !ok {
		return PIDErr, nil
	}

	transition, ok := call.Transition()
	if !ok {
		// Unrecognized syscall code: explicitly pass rather than leave
		// the result unwritten.
		return Pass, nil
	}

	rec := thread.Files.Observe(filename, stat, transition)
	if call.CountsAsOpen() {
		rec.NrOpen++
	}

	result := resultFromHealth(rec.Health)
	switch result {
	case Unchecked:
		return result, diag.Unchecked(filename, path)
	case Race:
		return result, diag.Race(filename, path)
	default:
		return result, nil
	}
}
