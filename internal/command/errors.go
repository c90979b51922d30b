package command

import (
	"errors"
	"fmt"
)

// ErrorKind tags why an action failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	InvalidArgumentCount
	NumericParseError
	ExternalCallFailure
	UnknownSelection
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgumentCount:
		return "invalid_argument_count"
	case NumericParseError:
		return "numeric_parse_error"
	case ExternalCallFailure:
		return "external_call_failure"
	case UnknownSelection:
		return "unknown_selection"
	default:
		return "none"
	}
}

// Error is the tagged failure returned by command handlers.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// External tags a collaborator failure.
func External(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ExternalCallFailure, Op: op, Err: err}
}

// KindOf reports the tag of err, KindNone when err is nil or untagged.
func KindOf(err error) ErrorKind {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Kind
	}
	return KindNone
}
