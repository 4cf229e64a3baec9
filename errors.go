package assetpipe

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindRead      ErrorKind = "READ"
	KindCodec     ErrorKind = "CODEC"
	KindDirCreate ErrorKind = "DIR_CREATE"
	KindWrite     ErrorKind = "WRITE"
)

// Error is a failure tied to one asset. Other assets are unaffected by it.
type Error struct {
	Kind    ErrorKind
	Path    string // source path for read/codec, output path for emission
	Backend string // set for codec errors
	Err     error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindRead:
		msg = fmt.Sprintf("couldn't read asset from disk %s", e.Path)
	case KindCodec:
		msg = fmt.Sprintf("couldn't optimize image %s with %s", e.Path, e.Backend)
	case KindDirCreate:
		msg = fmt.Sprintf("couldn't create directory for %s", e.Path)
	case KindWrite:
		msg = fmt.Sprintf("couldn't write optimized buffer for %s", e.Path)
	default:
		msg = fmt.Sprintf("%s %s", e.Kind, e.Path)
	}
	if e.Err != nil {
		return "assetpipe: " + msg + ": " + e.Err.Error()
	}
	return "assetpipe: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrCodec) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrRead      = &Error{Kind: KindRead}
	ErrCodec     = &Error{Kind: KindCodec}
	ErrDirCreate = &Error{Kind: KindDirCreate}
	ErrWrite     = &Error{Kind: KindWrite}

	ErrFinalized     = errors.New("assetpipe: build already finalized")
	ErrInvalidConfig = errors.New("assetpipe: invalid configuration")
)
