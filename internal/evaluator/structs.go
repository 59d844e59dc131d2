package evaluator

import (
	"sort"

	"fern/internal/object"
)

// evalStruct defines a constructor:
//
//	(struct point (x y)
//	  (shift (dx dy) (do (= (. self x) (+ (. self x) dx))
//	                     (= (. self y) (+ (. self y) dy)))))
//
// Calling (point 1 2) builds a fresh map pairing field names to arguments,
// adds the method closures, wraps it in a new reference and returns it.
// Methods are plain function members; self appears only when one is accessed
// through the dot form.
func (e *Evaluator) evalStruct(args []object.Object, env *object.Environment) object.Object {
	if len(args) < 2 {
		return object.NewError(object.ArityError, "struct expects a name and a field list, got %d arguments", len(args))
	}
	name, ok := args[0].(*object.Symbol)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "struct name must be a symbol", Expr: args[0]}
	}
	fields, perr := paramList(args[1])
	if perr != nil {
		return perr
	}

	type method struct {
		name *object.Symbol
		fn   *object.Function
	}
	methods := make([]method, 0, len(args)-2)
	for _, entry := range args[2:] {
		list, ok := entry.(*object.List)
		if !ok || len(list.Elements) < 3 {
			return &object.Error{Kind: object.TypeMismatch, Message: "struct method must be (name (params) body)", Expr: entry}
		}
		mname, ok := list.Elements[0].(*object.Symbol)
		if !ok {
			return &object.Error{Kind: object.TypeMismatch, Message: "struct method name must be a symbol", Expr: list.Elements[0]}
		}
		params, perr := paramList(list.Elements[1])
		if perr != nil {
			return perr
		}
		body := blockBody(list.Elements[2:])
		methods = append(methods, method{mname, &object.Function{Name: mname, Params: params, Body: body, Env: env}})
	}

	ctor := &object.Builtin{
		Name: name.Name,
		Fn: func(ctx object.CallContext, ctorArgs ...object.Object) object.Object {
			if len(ctorArgs) != len(fields) {
				return object.NewError(object.ArityError,
					"%s expects %d arguments, got %d", name.Name, len(fields), len(ctorArgs))
			}
			instance := &object.Map{}
			for i, field := range fields {
				instance.Put(field, ctorArgs[i])
			}
			for _, m := range methods {
				instance.Put(m.name, m.fn)
			}
			return object.NewReference(instance)
		},
	}
	return env.Define(name, ctor)
}

// evalModule evaluates its body in a private frame and publishes the frame's
// bindings as a reference to a map, bound under the module name. Symbols
// intern in source order, so sorting by intern id recovers definition order
// for the map.
func (e *Evaluator) evalModule(args []object.Object, env *object.Environment) object.Object {
	if len(args) < 1 {
		return object.NewError(object.ArityError, "module expects a name, got %d arguments", len(args))
	}
	name, ok := args[0].(*object.Symbol)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "module name must be a symbol", Expr: args[0]}
	}

	frame := object.NewEnclosedEnvironment(env)
	for _, expr := range args[1:] {
		result := e.Eval(expr, frame)
		if object.IsError(result) {
			return result
		}
	}

	exported := make([]*object.Symbol, 0, len(frame.Bindings))
	for sym := range frame.Bindings {
		exported = append(exported, sym)
	}
	sort.Slice(exported, func(i, j int) bool {
		return exported[i].MapKey().Value < exported[j].MapKey().Value
	})

	contents := &object.Map{}
	for _, sym := range exported {
		contents.Put(sym, frame.Bindings[sym])
	}
	return env.Define(name, object.NewReference(contents))
}

// blockBody wraps multi-expression bodies in a do form so a method body can
// hold a statement sequence without the caller writing do itself.
func blockBody(exprs []object.Object) object.Object {
	if len(exprs) == 1 {
		return exprs[0]
	}
	body := make([]object.Object, 0, len(exprs)+1)
	body = append(body, symDo)
	body = append(body, exprs...)
	return &object.List{Elements: body}
}
