package domain

import "errors"

// ErrorKind classifies failures surfaced to callers.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindUnsupported  ErrorKind = "unsupported"
	KindNotFound     ErrorKind = "not_found"
	KindUpstream     ErrorKind = "upstream_unavailable"
)

var (
	ErrInvalidInput = errors.New(string(KindInvalidInput))
	ErrUnsupported  = errors.New(string(KindUnsupported))
	ErrNotFound     = errors.New(string(KindNotFound))
	ErrUpstream     = errors.New(string(KindUpstream))
)

// Error carries a kind plus a short user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind. Unsupported tokens are also invalid input.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput || e.Kind == KindUnsupported
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUpstream:
		return e.Kind == KindUpstream
	}
	return false
}

func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func Unsupported(msg string) error {
	return &Error{Kind: KindUnsupported, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Message extracts the user-facing message, falling back to err.Error().
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
