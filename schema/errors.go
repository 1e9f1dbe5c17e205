package schema

import (
	"errors"
	"fmt"
)

// Schema errors.
var (
	ErrSchema        = errors.New("schema error")
	ErrUnknownType   = errors.New("unknown column type")
	ErrMalformedSpec = errors.New("malformed column spec")
	ErrDuplicateName = errors.New("duplicate column name")
)

// Comparison errors.
var (
	ErrValue               = errors.New("value error")
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// SchemaError reports a column declaration that could not be turned into a
// Column.
type SchemaError struct {
	Spec    string // offending spec or type name
	Message string
	Err     error // ErrUnknownType, ErrMalformedSpec, ErrDuplicateName
}

func (e *SchemaError) Error() string {
	return e.Message
}

func (e *SchemaError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchema}
	}
	return []error{ErrSchema, e.Err}
}

func newSchemaError(spec string, err error, msgFmt string, args ...any) *SchemaError {
	return &SchemaError{
		Spec:    spec,
		Message: fmt.Sprintf(msgFmt, args...),
		Err:     err,
	}
}

// ValueError reports text that does not parse as the declared column type.
type ValueError struct {
	Type  string // registry type name
	Value string // offending text, already trimmed
	Err   error  // parse failure from strconv, if any
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("could not make a %s from '%s'", e.Type, e.Value)
}

func (e *ValueError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValue}
	}
	return []error{ErrValue, e.Err}
}
