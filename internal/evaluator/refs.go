package evaluator

import (
	"fern/internal/object"
)

// Reference cells are ordinary values made by ordinary builtins. The
// evaluator never mutates through them itself; only the builtins below and
// the member write path touch cell contents.

func builtinNew(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "new expects 1 argument, got %d", len(args))
	}
	return object.NewReference(args[0])
}

func builtinDeref(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "deref expects 1 argument, got %d", len(args))
	}
	ref, ok := args[0].(*object.Reference)
	if !ok {
		return &object.Error{Kind: object.NotAReference, Message: "deref expects a reference, got " + string(args[0].Type()), Expr: args[0]}
	}
	return ref.Get()
}

func builtinSetRef(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "set expects 2 arguments, got %d", len(args))
	}
	ref, ok := args[0].(*object.Reference)
	if !ok {
		return &object.Error{Kind: object.NotAReference, Message: "set expects a reference, got " + string(args[0].Type()), Expr: args[0]}
	}
	ref.Set(args[1])
	return args[1]
}

// evalAssign handles both plain rebinding and member writes. A member access
// on the left side is routed to the member write path with the value
// expression appended, so (= (. p x) 5) and (. p x 5) are the same operation.
func (e *Evaluator) evalAssign(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "= expects 2 arguments, got %d", len(args))
	}

	switch lhs := args[0].(type) {
	case *object.Symbol:
		val := e.Eval(args[1], env)
		if object.IsError(val) {
			return val
		}
		return env.Assign(lhs, val)

	case *object.List:
		if len(lhs.Elements) == 3 {
			if head, ok := lhs.Elements[0].(*object.Symbol); ok && head == symDot {
				write := append(append([]object.Object{}, lhs.Elements[1:]...), args[1])
				return e.evalMemberAccess(write, env)
			}
		}
	}

	return &object.Error{Kind: object.TypeMismatch, Message: "cannot assign to " + args[0].Inspect(), Expr: args[0]}
}

// evalMemberAccess is the dot form. Two arguments read a member, three write
// one. The receiver expression always evaluates first and must produce a
// reference holding a map.
func (e *Evaluator) evalMemberAccess(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 2 && len(args) != 3 {
		return object.NewError(object.ArityError, ". expects 2 or 3 arguments, got %d", len(args))
	}

	recv := e.Eval(args[0], env)
	if object.IsError(recv) {
		return recv
	}
	ref, ok := recv.(*object.Reference)
	if !ok {
		return &object.Error{Kind: object.NotAReference, Message: "member access on " + string(recv.Type()), Expr: args[0]}
	}
	fields, ok := ref.Get().(*object.Map)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "member access on reference to " + string(ref.Get().Type()), Expr: args[0]}
	}

	key, found, keyErr := e.resolveMemberKey(fields, args[1], env)
	if keyErr != nil {
		return keyErr
	}

	if len(args) == 3 {
		val := e.Eval(args[2], env)
		if object.IsError(val) {
			return val
		}
		fields.Put(key, val)
		return val
	}

	if !found {
		return &object.Error{Kind: object.NoSuchMember, Message: "no member " + key.Inspect(), Expr: args[1]}
	}
	val, _ := fields.Get(key)
	return e.bindMember(val, ref)
}

// resolveMemberKey applies the two-phase lookup rule. A bare symbol names the
// member literally first; when the map has no such entry the symbol is
// resolved as a variable and its value retried as the key. Any other field
// expression is simply evaluated. The returned key is always usable for a
// write even when found is false.
func (e *Evaluator) resolveMemberKey(fields *object.Map, fieldExpr object.Object, env *object.Environment) (object.Hashable, bool, object.Object) {
	if sym, ok := fieldExpr.(*object.Symbol); ok {
		if _, exists := fields.Get(sym); exists {
			return sym, true, nil
		}
		if val, bound := env.Get(sym); bound {
			if key, hashable := val.(object.Hashable); hashable {
				if _, exists := fields.Get(key); exists {
					return key, true, nil
				}
			}
		}
		return sym, false, nil
	}

	val := e.Eval(fieldExpr, env)
	if object.IsError(val) {
		return nil, false, val
	}
	key, ok := val.(object.Hashable)
	if !ok {
		return nil, false, &object.Error{Kind: object.TypeMismatch, Message: "unusable as member key: " + string(val.Type()), Expr: fieldExpr}
	}
	_, exists := fields.Get(key)
	return key, exists, nil
}

// bindMember turns a callable member into a method bound to its receiver.
// Functions get a fresh frame between their captured environment and the call
// frame with self bound to the receiving reference; the binding is rebuilt on
// every access, never cached, so the member can be reassigned freely.
func (e *Evaluator) bindMember(val object.Object, recv *object.Reference) object.Object {
	switch val := val.(type) {
	case *object.Function:
		frame := object.NewEnclosedEnvironment(val.Env)
		frame.Define(symSelf, recv)
		return &object.Function{Name: val.Name, Params: val.Params, Body: val.Body, Env: frame}

	case *object.Builtin:
		// Native members have no frame to bind self into; a copy keeps the
		// bound value distinct from the stored one.
		return &object.Builtin{Name: val.Name, Fn: val.Fn}
	}
	return val
}
