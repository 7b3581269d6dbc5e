package linux

import (
	"syscall"
	"unsafe"
)

func Native() *API {
	return &API{
		Stat: func(path Path) (FileHeader, error) {
			var header FileHeader
			err := syscall.Stat(string(path), (*syscall.Stat_t)(unsafe.Pointer(&header)))
			return header, new(StatError).parse(err)
		},
	}
}
