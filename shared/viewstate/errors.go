package viewstate

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindValidation means the draft had nothing to insert.
	KindValidation Kind = "validation"
	// KindTableNotFound means fetching the selected table failed.
	KindTableNotFound Kind = "table_not_found"
	// KindInsert means the data service rejected an insert.
	KindInsert Kind = "insert_failed"
	// KindDelete means the data service rejected a delete.
	KindDelete Kind = "delete_failed"
	// KindUnknownTable means the name is not in the registry.
	KindUnknownTable Kind = "unknown_table"
)

// Error wraps an error with kind and the message shown to the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Message: msg, Err: err} }
func newError(kind Kind, msg string) *Error        { return &Error{Kind: kind, Message: msg} }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage returns the text meant for the user, or err's text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
