package linux

import "reflect"

type Error[T any] struct{ ErrMethods[T] }

type ErrMethods[T any] byte

func (n ErrMethods[T]) Error() string {
	field := reflect.TypeFor[T]().Field(int(n))
	if field.Tag != "" {
		return string(field.Tag)
	}
	return field.Name
}

func (n ErrMethods[T]) parse(err error) error {
	if err == nil {
		return nil
	}
	var msg = err.Error()
	var types T
	var value = reflect.ValueOf(&types).Elem()
	var rtype = reflect.TypeFor[T]()
	for i := range rtype.NumField() {
		field := rtype.Field(i)
		if string(field.Tag) == msg {
			value.Field(i).Field(0).SetUint(uint64(i))
			return value.Field(i).Interface().(error)
		}
	}
	return err
}

func (n ErrMethods[T]) Types() T {
	var types T
	var value = reflect.ValueOf(&types).Elem()
	for i := range value.NumField() {
		value.Field(i).Field(0).SetUint(uint64(i))
	}
	return types
}

// StatError returned by [API.Stat] operations.
type StatError Error[struct {
	DoesNotExist     StatError `no such file or directory`             // an element in the path does not exist.
	AccessDenied     StatError `permission denied`                     // one of the directories is missing the search/execute permission bit.
	BadFile          StatError `bad file descriptor`                   // file is not valid.
	Fault            StatError `bad address`                           // path string is corrupted.
	Invalid          StatError `invalid argument`                      // invalid flags
	Loop             StatError `too many levels of symbolic links`     // recursion limit reached.
	NameTooLong      StatError `file name too long`                    // unsupported file name
	OutOfMemory      StatError `cannot allocate memory`                // kernel is out of memory
	NotDirectory     StatError `not a directory`                       // a component of the path prefix is not a directory.
	StatFileTooLarge StatError `value too large for defined data type` // file size is 64 bits and the system is 32 bits.
}]
