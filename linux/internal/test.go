package internal

import (
	"fmt"
	"reflect"
	"testing"

	"tracefiled.dev/tracefiled/linux"
)

// #include <sys/stat.h>
// #include <linux/time.h>
import "C"

func assert[T comparable](t *testing.T, a, b T) {
	t.Helper()
	if a != b {
		t.Fatal(fmt.Sprintf("%v != %v", a, b))
	}
}

func assertTypes(t *testing.T, atype, btype reflect.Type) {
	t.Helper()
	if atype.Size() != btype.Size() {
		t.Fatal(fmt.Sprintf("%v != %v", atype.Size(), btype.Size()))
	}
	if atype.Align() != btype.Align() {
		t.Fatal(fmt.Sprintf("%v != %v", atype.Align(), btype.Align()))
	}
	if atype.Kind() != btype.Kind() {
		t.Fatal(fmt.Sprintf("%v != %v", atype.Kind(), btype.Kind()))
	}
	switch atype.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if atype.Bits() != btype.Bits() {
			t.Fatal(fmt.Sprintf("%v != %v", atype, btype))
		}
	}
	if atype.Kind() == reflect.Struct {
		var j int
		for i := 0; i < atype.NumField(); i++ {
			afield := atype.Field(i)
			if afield.Type.Size() == 0 {
				continue
			}
			assertTypes(t, afield.Type, btype.Field(j).Type)
			j++
		}
	}
}

func assertLayout[A, B any](t *testing.T) {
	t.Helper()
	assertTypes(t, reflect.TypeFor[A](), reflect.TypeFor[B]())
}

func Test(t *testing.T) {
	var _ linux.FilePermissions
	assert(t, linux.FileReadableByGroup, C.S_IRGRP)
	assert(t, linux.FileReadableByOthers, C.S_IROTH)
	assert(t, linux.FileWritableByUser, C.S_IWUSR)
	assert(t, linux.FileWritableByGroup, C.S_IWGRP)
	assert(t, linux.FileWritableByOthers, C.S_IWOTH)
	assert(t, linux.FileExecutableByUser, C.S_IXUSR)
	assert(t, linux.FileExecutableByGroup, C.S_IXGRP)
	assert(t, linux.FileExecutableByOthers, C.S_IXOTH)
	assert(t, linux.FileExecutesAsOwner, C.S_ISUID)
	assert(t, linux.FileExecutesAsGroup, C.S_ISGID)
	assert(t, linux.FilesInheritGroup, C.S_ISGID)
	assert(t, linux.FilesLockedToOwner, C.S_ISVTX)
	assert(t, linux.DirectorySearchableByUser, C.S_IXUSR)
	assert(t, linux.DirectorySearchableByGroup, C.S_IXGRP)
	assert(t, linux.DirectorySearchableByOthers, C.S_IXOTH)

	assertLayout[linux.Time, C.struct_timespec](t)
	assertLayout[linux.FileHeader, C.struct_stat](t)
}
