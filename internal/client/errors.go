package client

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a failed call.
type Kind int

const (
	KindTransport Kind = iota + 1 // The request never got a response
	KindStatus                    // The backend answered with an unexpected status
	KindDecode                    // The response body could not be decoded
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error is the single error type returned by Client calls. Error() is the
// message shown to the user; Err keeps the cause with a stack trace.
type Error struct {
	Kind   Kind
	Op     string // e.g. "simulate"
	Status int    // HTTP status for KindStatus
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return statusLine(e.Status)
	}
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return errors.Cause(e.Err).Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Format prints the cause with its stack for %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Err != nil {
		fmt.Fprintf(s, "%s %s: %+v", e.Op, e.Kind, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// statusLine renders a status the way fetch reports it, e.g. "503 Service Unavailable".
func statusLine(code int) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", code, http.StatusText(code)))
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: errors.WithStack(err)}
}

func statusError(op string, status int) *Error {
	return &Error{Kind: KindStatus, Op: op, Status: status, Err: errors.New(statusLine(status))}
}

func decodeError(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: errors.WithStack(err)}
}

// IsKind reports whether err is a client error of kind k.
func IsKind(err error, k Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == k
}
