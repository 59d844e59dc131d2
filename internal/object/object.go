package object

import (
	"bytes"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"
	SYMBOL_OBJ  = "SYMBOL"

	LIST_OBJ = "LIST"
	MAP_OBJ  = "MAP"

	FUNCTION_OBJ  = "FUNCTION"
	BUILTIN_OBJ   = "BUILTIN"
	REFERENCE_OBJ = "REFERENCE"
	ERROR_OBJ     = "ERROR"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// CallContext is the bridge handed to builtin functions so native Go code can
// re-enter the interpreter (apply callables, look at the global scope) without
// importing the evaluator package.
type CallContext interface {
	Apply(fn Object, args []Object) Object
	GlobalEnv() *Environment
	NextHandleID() int64
}

type BuiltinFunction func(ctx CallContext, args ...Object) Object

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Hashable interface {
	Object
	MapKey() MapKey
}

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Boolean) MapKey() MapKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return MapKey{Type: b.Type(), Value: value}
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
func (n *Number) MapKey() MapKey {
	return MapKey{Type: n.Type(), Value: math.Float64bits(n.Value)}
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) MapKey() MapKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return MapKey{Type: s.Type(), Value: h.Sum64()}
}

type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer

	elements := []string{}
	for _, e := range l.Elements {
		elements = append(elements, e.Inspect())
	}

	out.WriteString("(")
	out.WriteString(strings.Join(elements, " "))
	out.WriteString(")")

	return out.String()
}

// Function is a closure: parameter symbols, a body expression and the captured
// definition environment. The environment is shared, never copied, so
// assignments made through an inner frame remain visible to every holder.
type Function struct {
	Name   *Symbol // nil for anonymous functions
	Params []*Symbol
	Body   Object
	Env    *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Params {
		params = append(params, p.Name)
	}

	out.WriteString("fn")
	if f.Name != nil {
		out.WriteString(" ")
		out.WriteString(f.Name.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, " "))
	out.WriteString(")")

	return out.String()
}

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// Reference is a single mutable cell. Every copy of a Reference value aliases
// the same cell; identity (and therefore equality) is the cell address.
type Reference struct {
	value Object
}

func NewReference(v Object) *Reference {
	return &Reference{value: v}
}

// Get returns the cell's current contents without consuming the reference.
func (r *Reference) Get() Object { return r.value }

// Set replaces the cell's contents in place; every holder observes the new
// value on its next read.
func (r *Reference) Set(v Object) { r.value = v }

func (r *Reference) Type() ObjectType { return REFERENCE_OBJ }

// Inspect renders the live contents of the cell, not an opaque handle, so a
// mutated structure prints in its current state.
func (r *Reference) Inspect() string { return r.value.Inspect() }

// Truthy reports the language truth rule: nil and false are falsy, every
// other value (including 0) is truthy.
func Truthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}

func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Equals implements structural equality for data values and identity equality
// for references, symbols and callables.
func Equals(a, b Object) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch a := a.(type) {
	case *Nil:
		return true

	case *Boolean:
		return a.Value == b.(*Boolean).Value

	case *Number:
		return a.Value == b.(*Number).Value

	case *String:
		return a.Value == b.(*String).Value

	case *Symbol:
		return a == b.(*Symbol)

	case *List:
		other := b.(*List)
		if len(a.Elements) != len(other.Elements) {
			return false
		}
		for i, elem := range a.Elements {
			if !Equals(elem, other.Elements[i]) {
				return false
			}
		}
		return true

	case *Map:
		other := b.(*Map)
		if a.Len() != other.Len() {
			return false
		}
		for _, key := range a.order {
			pair := a.Pairs[key]
			otherPair, ok := other.Pairs[key]
			if !ok || !Equals(pair.Value, otherPair.Value) {
				return false
			}
		}
		return true

	case *Reference:
		return a == b.(*Reference)
	}

	return a == b
}
