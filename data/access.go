package data

import "strings"

// AccessMode represents file access modes for opening files.
type AccessMode int

// File access mode constants.
// These can be combined using bitwise OR.
const (
	AccessModeRead   AccessMode = 1 << iota // O_RDONLY: open for reading
	AccessModeWrite                         // O_WRONLY: open for writing
	AccessModeAppend                        // O_APPEND: append to file
	AccessModeCreate                        // O_CREATE: create if not exists
	AccessModeTrunc                         // O_TRUNC:  truncate on open
)

// ParseAccess converts an fopen-style access string ("r", "rb", "w", "r+", "a")
// into an AccessMode.
func ParseAccess(access string) AccessMode {
	var mode AccessMode

	if strings.ContainsRune(access, 'r') {
		mode |= AccessModeRead
	}
	if strings.ContainsRune(access, 'w') {
		mode |= AccessModeWrite | AccessModeCreate | AccessModeTrunc
	}
	if strings.ContainsRune(access, 'a') {
		mode |= AccessModeWrite | AccessModeAppend | AccessModeCreate
	}
	if strings.ContainsRune(access, '+') {
		mode |= AccessModeRead | AccessModeWrite
	}

	return mode
}

// IsReadOnly checks if the mode only allows reading.
func (m AccessMode) IsReadOnly() bool {
	return m&AccessModeRead != 0 && m&AccessModeWrite == 0
}

// IsWriteOnly checks if the mode only allows writing.
func (m AccessMode) IsWriteOnly() bool {
	return m&AccessModeWrite != 0 && m&AccessModeRead == 0
}

// IsReadWrite checks if the mode allows both reading and writing.
func (m AccessMode) IsReadWrite() bool {
	return m&AccessModeRead != 0 && m&AccessModeWrite != 0
}

// RequestsUpdate reports whether the mode asks for any kind of modification.
func (m AccessMode) RequestsUpdate() bool {
	return m&(AccessModeWrite|AccessModeAppend|AccessModeCreate|AccessModeTrunc) != 0
}
