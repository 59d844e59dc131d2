package object

import "fmt"

// ErrorKind classifies an evaluation failure. Every failure carries a kind so
// a boundary (REPL, file runner, host loop) can report it precisely; nothing
// in the core substitutes nil for a failure.
type ErrorKind string

const (
	UnboundSymbol  ErrorKind = "UnboundSymbol"
	ArityError     ErrorKind = "ArityError"
	NotCallable    ErrorKind = "NotCallable"
	NotAReference  ErrorKind = "NotAReference"
	NoSuchMember   ErrorKind = "NoSuchMember"
	TypeMismatch   ErrorKind = "TypeMismatch"
	DivisionByZero ErrorKind = "DivisionByZero"
	NativeError    ErrorKind = "Native"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Expr    Object // offending expression, when known
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Expr != nil {
		return fmt.Sprintf("%s: %s in %s", e.Kind, e.Message, e.Expr.Inspect())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func IsError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
