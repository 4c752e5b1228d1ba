package channel

import (
	"fmt"
	"sync"
)

// reporter records the error state of a channel.
type reporter struct {
	mu      sync.Mutex
	code    Code
	message string
	last    *Error
}

// report records a failure and returns it as a new *Error. The message is
// prefixed to the previous one: "<new> (<previous>)".
func (r *reporter) report(code Code, msg string, cause error) *Error {
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.message != "" {
		msg = msg + " (" + r.message + ")"
	}
	r.code = code
	r.message = msg
	r.last = &Error{Code: code, Message: msg, Err: cause}
	return r.last
}

// clear resets the error state.
func (r *reporter) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code = CodeOK
	r.message = ""
	r.last = nil
}

// ok reports whether no error is recorded.
func (r *reporter) ok() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.code == CodeOK
}

// err returns the last reported error, or nil.
func (r *reporter) err() *Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
