package multiindex

import (
	"errors"
	"fmt"
)

// ErrEmptyHandle is returned by operations that require a non-empty
// NodeHandle, such as reinserting a handle that was already consumed.
var ErrEmptyHandle = errors.New("multiindex: node handle is empty")

// ErrKeyConflict indicates an insert or handle reinsert (InsertErr,
// InsertHandleErr) was rejected by a unique index because the key already
// belongs to another element.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrKeyConflict struct {
	// Tag is the tag of the index view the insert was made through. The
	// unique index that rejected it may be a different configured index.
	Tag   any
	cause error
}

func (e *ErrKeyConflict) Error() string {
	return fmt.Sprintf("multiindex: key conflict under index %v", e.Tag)
}

func (e *ErrKeyConflict) Unwrap() error { return e.cause }

// ErrNoSuchIndex indicates a tag passed to Ordered/Hashed matches no
// configured index. Ordered/Hashed panic with this as the recovered value
// rather than returning an error, since an unknown tag is a programming
// mistake the original would have caught at compile time.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrNoSuchIndex struct {
	Tag   any
	cause error
}

func (e *ErrNoSuchIndex) Error() string {
	return fmt.Sprintf("multiindex: no index registered under tag %v", e.Tag)
}

func (e *ErrNoSuchIndex) Unwrap() error { return e.cause }

// ErrWrongIndexKind indicates a tag resolved to a configured index, but not
// one of the kind (ordered/hashed) or key type the caller asked for.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrWrongIndexKind struct {
	Tag   any
	Want  string
	cause error
}

func (e *ErrWrongIndexKind) Error() string {
	return fmt.Sprintf("multiindex: index under tag %v is not a %s", e.Tag, e.Want)
}

func (e *ErrWrongIndexKind) Unwrap() error { return e.cause }

// translateError normalizes an internal error into one of the package's
// exported error types where possible, preserving the original as the
// cause for errors.Unwrap/errors.Is chains.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var kc *ErrKeyConflict
	if errors.As(err, &kc) {
		return kc
	}
	var nsi *ErrNoSuchIndex
	if errors.As(err, &nsi) {
		return nsi
	}
	var wik *ErrWrongIndexKind
	if errors.As(err, &wik) {
		return wik
	}
	return err
}
