// Package stdlib provides the native library modules. Each module is a
// reference to a map of builtins and constants bound under the module name,
// so scripts reach members through the ordinary dot form: (Math.floor 2.7),
// (String.trim s). Nothing here is known to the evaluator.
package stdlib

import (
	"fern/internal/object"
)

func Install(env *object.Environment) {
	installMath(env)
	installString(env)
	installCollections(env)
	installTime(env)
	installOS(env)
	installIO(env)
	installType(env)
	installDB(env)
}

type moduleMap struct {
	m *object.Map
}

func defineModule(env *object.Environment, name string, build func(m *moduleMap)) {
	mod := &moduleMap{m: &object.Map{}}
	build(mod)
	env.Define(object.InternSymbol(name), object.NewReference(mod.m))
}

func (m *moduleMap) fn(name string, fn object.BuiltinFunction) {
	m.m.Put(object.InternSymbol(name), &object.Builtin{Name: name, Fn: fn})
}

func (m *moduleMap) val(name string, v object.Object) {
	m.m.Put(object.InternSymbol(name), v)
}

// arity returns a non-nil error object when the argument count is off.
func arity(name string, want int, args []object.Object) object.Object {
	if len(args) != want {
		return object.NewError(object.ArityError, "%s expects %d arguments, got %d", name, want, len(args))
	}
	return nil
}

// deref unwraps a reference argument so library functions accept both a map
// and a reference to one.
func deref(arg object.Object) object.Object {
	if ref, ok := arg.(*object.Reference); ok {
		return ref.Get()
	}
	return arg
}

func unpackNumber(name string, arg object.Object) (float64, object.Object) {
	n, ok := arg.(*object.Number)
	if !ok {
		return 0, &object.Error{Kind: object.TypeMismatch, Message: name + " expects a number, got " + string(arg.Type()), Expr: arg}
	}
	return n.Value, nil
}

func unpackString(name string, arg object.Object) (string, object.Object) {
	s, ok := arg.(*object.String)
	if !ok {
		return "", &object.Error{Kind: object.TypeMismatch, Message: name + " expects a string, got " + string(arg.Type()), Expr: arg}
	}
	return s.Value, nil
}

func unpackList(name string, arg object.Object) (*object.List, object.Object) {
	l, ok := deref(arg).(*object.List)
	if !ok {
		return nil, &object.Error{Kind: object.TypeMismatch, Message: name + " expects a list, got " + string(arg.Type()), Expr: arg}
	}
	return l, nil
}

func unpackMap(name string, arg object.Object) (*object.Map, object.Object) {
	m, ok := deref(arg).(*object.Map)
	if !ok {
		return nil, &object.Error{Kind: object.TypeMismatch, Message: name + " expects a map, got " + string(arg.Type()), Expr: arg}
	}
	return m, nil
}

func unpackHashable(name string, arg object.Object) (object.Hashable, object.Object) {
	h, ok := arg.(object.Hashable)
	if !ok {
		return nil, &object.Error{Kind: object.TypeMismatch, Message: name + " expects a hashable key, got " + string(arg.Type()), Expr: arg}
	}
	return h, nil
}
