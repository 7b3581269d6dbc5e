// Package diag builds the human-readable diagnostics the dispatcher
// emits alongside an UNCHECKED or RACE result, naming the file and path
// involved.
package diag

import "fmt"

// Diagnostic names the file and path a verdict is about.
type Diagnostic struct {
	Filename string
	Path     string
	Message  string
}

func (d *Diagnostic) String() string {
	return d.Message
}

// Unchecked describes a file that was used without ever being checked.
func Unchecked(filename, path string) *Diagnostic {
	return &Diagnostic{
		Filename: filename,
		Path:     path,
		Message:  fmt.Sprintf("%s (in %s): used without a prior check", filename, path),
	}
}

// Race describes a file whose checked metadata no longer matches the
// metadata observed at use time.
func Race(filename, path string) *Diagnostic {
	return &Diagnostic{
		Filename: filename,
		Path:     path,
		Message:  fmt.Sprintf("%s (in %s): metadata changed between check and use", filename, path),
	}
}
