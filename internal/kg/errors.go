package kg

import (
	"errors"
	"fmt"
)

// NotFoundError reports a Get for a signature that is absent, or present
// but structurally incomplete (no linked explanation record).
type NotFoundError struct {
	Token  string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("signature %s: %s", e.Token, e.Reason)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// PersistenceError reports a failure reading or writing a persisted
// document. A missing instance document is NOT a persistence error; the
// store starts empty in that case.
type PersistenceError struct {
	Op   string // "load ontology", "load instances", "persist instances"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// EncodingError reports a stored nested field that failed to decode back
// into its structured type. Surfaced rather than silently nulled: the
// embedded violation and justification tree are audit data, and silent
// loss would corrupt them.
type EncodingError struct {
	Token string
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("signature %s: decode %s: %v", e.Token, e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IsEncoding reports whether err is (or wraps) an EncodingError.
func IsEncoding(err error) bool {
	var ee *EncodingError
	return errors.As(err, &ee)
}
