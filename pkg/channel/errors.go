package channel

import (
	"errors"
	"strconv"
)

// Code is a channel error code. Failed operations report negative codes;
// the numbers are also the exit status of the fpio command, negated.
type Code int

// Error codes.
const (
	CodeOK       Code = 0
	CodeIO       Code = -1
	CodeTimeout  Code = -2
	CodeCreate   Code = -3
	CodeNotReady Code = -4
	CodeInput    Code = -5
	CodeAborted  Code = -6
	CodeConfig   Code = -7
)

// Sentinel errors, one per code. Every *Error matches the sentinel of its
// code with errors.Is.
var (
	ErrIO       = errors.New("i/o error")
	ErrTimeout  = errors.New("timeout")
	ErrCreate   = errors.New("cannot create region")
	ErrNotReady = errors.New("channel not ready")
	ErrInput    = errors.New("input stream failed")
	ErrAborted  = errors.New("transfer aborted by remote")
	ErrConfig   = errors.New("invalid configuration")
)

// String returns the error kind name.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeIO:
		return "IOError"
	case CodeTimeout:
		return "TimeoutError"
	case CodeCreate:
		return "CreateError"
	case CodeNotReady:
		return "NotReadyError"
	case CodeInput:
		return "InputError"
	case CodeAborted:
		return "AbortedError"
	case CodeConfig:
		return "ConfigError"
	default:
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}
}

func (c Code) sentinel() error {
	switch c {
	case CodeIO:
		return ErrIO
	case CodeTimeout:
		return ErrTimeout
	case CodeCreate:
		return ErrCreate
	case CodeNotReady:
		return ErrNotReady
	case CodeInput:
		return ErrInput
	case CodeAborted:
		return ErrAborted
	case CodeConfig:
		return ErrConfig
	default:
		return nil
	}
}

// Error is a reported channel failure. Message holds the full chain of
// messages recorded since the last Clear, newest first.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel error of e's code.
func (e *Error) Is(target error) bool {
	s := e.Code.sentinel()
	return s != nil && target == s
}

// CodeOf returns the code carried by err. It returns CodeOK for nil and
// CodeIO for errors that did not come from a channel.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeIO
}

// Recover converts a panic raised by a channel configured with RaiseOnError
// back into an error. It must be called directly by a deferred statement:
//
//	defer channel.Recover(&err)
//
// Panics with any other value are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	panic(r)
}
