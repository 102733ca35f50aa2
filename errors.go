package serial

import (
	"errors"
	"fmt"
)

// Kind partitions every failure the codecs can produce.
type Kind int

const (
	// KindIO covers targets that cannot be opened, read, or written.
	KindIO Kind = iota + 1
	// KindStructure covers documents whose shape does not match the
	// reader's expected call sequence.
	KindStructure
	// KindFormat covers malformed leaf data: bad base64 input, an
	// unparsable scalar attribute.
	KindFormat
	// KindUnsupported covers Go types outside the value model.
	KindUnsupported
)

// Kind sentinels. Callers match with errors.Is; the concrete error is
// always *Error.
var (
	ErrIO          = errors.New("serial: i/o failure")
	ErrStructure   = errors.New("serial: structural failure")
	ErrFormat      = errors.New("serial: format failure")
	ErrUnsupported = errors.New("serial: unsupported type")
)

// Error is the single error type returned by this package.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("serial: %s: %v", e.Msg, e.Err)
	}
	return "serial: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel corresponding to the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrStructure:
		return e.Kind == KindStructure
	case ErrFormat:
		return e.Kind == KindFormat
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	}
	return false
}

func errIO(msg string, cause error) error {
	return &Error{Kind: KindIO, Msg: msg, Err: cause}
}

func errStructuref(format string, args ...any) error {
	return &Error{Kind: KindStructure, Msg: fmt.Sprintf(format, args...)}
}

func errFormat(msg string, cause error) error {
	return &Error{Kind: KindFormat, Msg: msg, Err: cause}
}

func errFormatf(format string, args ...any) error {
	return &Error{Kind: KindFormat, Msg: fmt.Sprintf(format, args...)}
}

func errUnsupportedf(format string, args ...any) error {
	return &Error{Kind: KindUnsupported, Msg: fmt.Sprintf(format, args...)}
}
