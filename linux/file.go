package linux

import "structs"

// FileHeader returned by [API.Stat] provides a representation of the metadata that
// the filesystem records on the file.
type FileHeader struct { //cc:stat
	_ structs.HostLayout

	Device      DeviceID
	IndexNode   IndexNode
	HardLinks   uint64
	Permissions FilePermissions
	User        UserID
	Group       GroupID
	_           int32
	Special     DeviceID
	Size        Bytes
	BlockSize   Bytes
	BlockCount  int64

	AccessedAt         Time
	ModifiedAt         Time
	ModifiedMetadataAt Time
	_                  [3]int64
}
