package toml

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure is reported as an *Error wrapping one of these.
var (
	ErrEmptyKey        = errors.New("empty key")
	ErrBareKey         = errors.New("table segment is not a bare key")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrDuplicateTable  = errors.New("duplicate table")
	ErrKindConflict    = errors.New("table and array of tables share a name")
	ErrKeyConflict     = errors.New("header descends into a value key")
	ErrMixedArray      = errors.New("mixed-type array")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrInvalidEscape   = errors.New("invalid escape sequence")
	ErrInvalidValue    = errors.New("value not representable in TOML")
)

// Error is the single error kind returned by the builder.
type Error struct {
	Op  string // addValue, addTable, addArrayOfTable, encode
	Key string
	Err error
	msg string
}

func (e *Error) Error() string {
	text := e.Err.Error()
	if e.msg != "" {
		text = fmt.Sprintf("%s: %s", text, e.msg)
	}
	if e.Key == "" {
		return fmt.Sprintf("toml: %s: %s", e.Op, text)
	}
	return fmt.Sprintf("toml: %s %q: %s", e.Op, e.Key, text)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, key string, err error, format string, args ...any) *Error {
	e := &Error{Op: op, Key: key, Err: err}
	if format != "" {
		e.msg = fmt.Sprintf(format, args...)
	}
	return e
}

// withKey attaches the offending key to an encoder error.
func withKey(err error, op, key string) error {
	var te *Error
	if errors.As(err, &te) {
		return &Error{Op: op, Key: key, Err: te.Err, msg: te.msg}
	}
	return &Error{Op: op, Key: key, Err: err}
}
