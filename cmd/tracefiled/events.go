package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"tracefiled.dev/tracefiled"
	"tracefiled.dev/tracefiled/linux"
)

// event mirrors one line of the feed. Op selects which daemon call it
// drives; the other fields are only meaningful for the matching op.
type event struct {
	Op       string `json:"op"` // "create", "destroy", or "syscall"
	TID      uint64 `json:"tid"`
	PID      uint64 `json:"pid"`
	PPID     uint64 `json:"ppid"`
	Syscall  string `json:"syscall"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Stat     stat   `json:"stat"`
}

// stat is the subset of kernel-verified metadata the dispatcher
// compares; time fields are intentionally absent, matching the state
// machine's same() semantics.
type stat struct {
	Device uint64 `json:"device"`
	Inode  uint64 `json:"inode"`
	Mode   uint32 `json:"mode"`
	UID    uint32 `json:"uid"`
	GID    uint32 `json:"gid"`
}

func (s stat) header() linux.FileHeader {
	return linux.FileHeader{
		Device:      linux.DeviceID(s.Device),
		IndexNode:   linux.IndexNode(s.Inode),
		Permissions: linux.FilePermissions(s.Mode),
		User:        linux.UserID(s.UID),
		Group:       linux.GroupID(s.GID),
	}
}

var syscallsByName = map[string]tracefiled.Syscall{
	"ACCESS": tracefiled.Access,
	"STAT":   tracefiled.Stat,
	"CREAT":  tracefiled.Creat,
	"OPEN":   tracefiled.Open,
	"CLOSE":  tracefiled.Close,
}

// statFunc resolves the metadata snapshot to feed into the dispatcher for
// a "syscall" event. The feed's own stat field is always the fallback.
type statFunc func(e event) (linux.FileHeader, error)

func fromFeed(e event) (linux.FileHeader, error) {
	return e.Stat.header(), nil
}

// liveStat re-stats the path through the real kernel instead of trusting
// whatever the feed recorded, so a feed racing against its own subject
// can't feed the dispatcher a stale snapshot.
func liveStat(api *linux.API) statFunc {
	return func(e event) (linux.FileHeader, error) {
		return api.Stat(linux.Path(e.Path + "/" + e.Filename))
	}
}

func run(r io.Reader, logger *logrus.Logger, stat statFunc) error {
	d := tracefiled.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e event
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := handle(d, e, logger, stat); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func handle(d *tracefiled.Daemon, e event, logger *logrus.Logger, stat statFunc) error {
	switch e.Op {
	case "create":
		d.ProcessCreate(e.PID, e.TID, e.PPID)
		logger.WithFields(logrus.Fields{"tid": e.TID, "pid": e.PID, "ppid": e.PPID}).Debug("process_create")
		return nil
	case "destroy":
		if err := d.ProcessDestroy(e.TID); err != nil {
			logger.WithField("tid", e.TID).Warn(err)
		}
		return nil
	case "syscall":
		call, ok := syscallsByName[e.Syscall]
		if !ok {
			return fmt.Errorf("unrecognized syscall %q", e.Syscall)
		}
		header, err := stat(e)
		if err != nil {
			logger.WithFields(logrus.Fields{"tid": e.TID, "filename": e.Filename}).WithError(err).Warn("live stat failed, falling back to feed snapshot")
			header = e.Stat.header()
		}
		result, diagnostic := d.HandleSyscall(e.TID, call, e.Filename, e.Path, header)
		logEntry := logger.WithFields(logrus.Fields{
			"tid":      e.TID,
			"syscall":  e.Syscall,
			"filename": e.Filename,
			"result":   result,
		})
		switch result {
		case tracefiled.Pass:
			logEntry.Info("dispatched")
		case tracefiled.Unchecked:
			logEntry.WithField("diagnostic", diagnostic).Warn("dispatched")
		case tracefiled.Race, tracefiled.PIDErr:
			logEntry.WithField("diagnostic", diagnostic).Error("dispatched")
		}
		return nil
	default:
		return fmt.Errorf("unrecognized op %q", e.Op)
	}
}
