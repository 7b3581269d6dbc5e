// Package linux provides a VerboseStyle Linux system call API.
package linux

import "structs"

// API specification. Trimmed to the metadata query this repo's
// dispatcher actually needs: a kernel-verified snapshot of a file's
// identity, to compare across TEST/USE/CLOSE observations.
type API struct {
	// Stat returns metadata for the file located at the given path.
	Stat func(name Path) (FileHeader, error)
}

type Path string

type DeviceID uint64 //cc:dev_t

type IndexNode uint64 //cc:ino_t

type UserID uint32  //cc:uid_t
type GroupID uint32 //cc:gid_t

type Bytes = int64

type Time struct { //cc:timespec
	_ structs.HostLayout

	Seconds int64
	Nanos   int64
}
