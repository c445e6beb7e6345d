package converter

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindIO Kind = iota + 1
	KindDecode
	KindEncode
	KindUnsupportedFormat
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindUnsupportedFormat:
		return "unsupported_format"
	default:
		return "unknown"
	}
}

// Error describes a failed per-file operation. Op names the step that failed
// ("open", "decode", "encode webp", "write", ...) and Path the file involved.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return 0
}

var ErrUnsupportedFormat = errors.New("unsupported output type")

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
