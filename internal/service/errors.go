package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a catalog failure for the transport layer.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindBadRequest
)

// Error is a terminal failure of a catalog operation. Anything that is not an
// *Error is an infrastructure fault.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool   { return hasKind(err, KindNotFound) }
func IsBadRequest(err error) bool { return hasKind(err, KindBadRequest) }

func hasKind(err error, k ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
