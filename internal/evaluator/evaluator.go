package evaluator

import (
	"fern/internal/object"
	"log/slog"
	"sync/atomic"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Special form keywords. The set is closed: list heads are compared against
// these interned symbols before any argument is evaluated, and each handler
// decides for itself which sub-expressions to evaluate and in what order.
var (
	symQuote  = object.InternSymbol("quote")
	symIf     = object.InternSymbol("if")
	symDo     = object.InternSymbol("do")
	symDef    = object.InternSymbol("def")
	symDefun  = object.InternSymbol("defun")
	symFn     = object.InternSymbol("fn")
	symAssign = object.InternSymbol("=")
	symDot    = object.InternSymbol(".")
	symStruct = object.InternSymbol("struct")
	symModule = object.InternSymbol("module")
	symAnd    = object.InternSymbol("and")
	symOr     = object.InternSymbol("or")
	symSelf   = object.InternSymbol("self")
)

const DefaultMaxDepth = 10000

// Evaluator is a recursive-descent interpreter over canonical prefix
// expression trees. It carries no state across Eval calls beyond the
// environment chain and the applied-function depth guard.
type Evaluator struct {
	Global   *object.Environment
	MaxDepth int

	depth    int
	handleID atomic.Int64
}

func New() *Evaluator {
	e := &Evaluator{
		Global:   object.NewEnvironment(),
		MaxDepth: DefaultMaxDepth,
	}
	registerBuiltins(e.Global)
	return e
}

// GlobalEnv implements object.CallContext.
func (e *Evaluator) GlobalEnv() *object.Environment { return e.Global }

// NextHandleID implements object.CallContext; it hands out process-unique
// handles for builtins that track native resources.
func (e *Evaluator) NextHandleID() int64 { return e.handleID.Add(1) }

func (e *Evaluator) Eval(expr object.Object, env *object.Environment) object.Object {
	switch expr := expr.(type) {

	case *object.Nil, *object.Boolean, *object.Number, *object.String:
		return expr

	case *object.Symbol:
		if val, ok := env.Get(expr); ok {
			return val
		}
		return &object.Error{Kind: object.UnboundSymbol, Message: "identifier not found: " + expr.Name, Expr: expr}

	case *object.Map:
		return e.evalMapLiteral(expr, env)

	case *object.List:
		if len(expr.Elements) == 0 {
			return NIL
		}
		if head, ok := expr.Elements[0].(*object.Symbol); ok {
			if handler := e.specialForm(head); handler != nil {
				return handler(expr.Elements[1:], env)
			}
		}
		return e.evalApplication(expr, env)
	}

	// Evaluated values (functions, references, builtins) re-entering eval,
	// e.g. via a quote of a previously computed result, are themselves.
	return expr
}

type formHandler func(args []object.Object, env *object.Environment) object.Object

func (e *Evaluator) specialForm(head *object.Symbol) formHandler {
	switch head {
	case symQuote:
		return e.evalQuote
	case symIf:
		return e.evalIf
	case symDo:
		return e.evalDo
	case symDef:
		return e.evalDef
	case symDefun:
		return e.evalDefun
	case symFn:
		return e.evalFn
	case symAssign:
		return e.evalAssign
	case symDot:
		return e.evalMemberAccess
	case symStruct:
		return e.evalStruct
	case symModule:
		return e.evalModule
	case symAnd:
		return e.evalAnd
	case symOr:
		return e.evalOr
	}
	return nil
}

func (e *Evaluator) evalApplication(expr *object.List, env *object.Environment) object.Object {
	callee := e.Eval(expr.Elements[0], env)
	if object.IsError(callee) {
		return callee
	}

	args := make([]object.Object, 0, len(expr.Elements)-1)
	for _, arg := range expr.Elements[1:] {
		evaluated := e.Eval(arg, env)
		if object.IsError(evaluated) {
			return evaluated
		}
		args = append(args, evaluated)
	}

	// A singleton list around a non-callable is grouping, not a call: (x)
	// is the value of x. Only applying arguments to a non-callable fails.
	if len(args) == 0 {
		switch callee.(type) {
		case *object.Function, *object.Builtin:
		default:
			return callee
		}
	}

	return e.Apply(callee, args)
}

// Apply invokes a callable with already-evaluated arguments. It is exported
// (and re-entrant) so hosts can drive closures repeatedly, e.g. a frame loop
// calling an update hook each tick; it also implements object.CallContext
// for builtins.
func (e *Evaluator) Apply(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		return e.applyFunction(fn, args)

	case *object.Builtin:
		// Arity and type validation is the builtin's own responsibility.
		return fn.Fn(e, args...)

	default:
		return &object.Error{Kind: object.NotCallable, Message: "not a function: " + string(fn.Type()), Expr: fn}
	}
}

func (e *Evaluator) applyFunction(fn *object.Function, args []object.Object) object.Object {
	if len(args) != len(fn.Params) {
		name := "<anonymous>"
		if fn.Name != nil {
			name = fn.Name.Name
		}
		return object.NewError(object.ArityError,
			"function %s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}

	if e.depth >= e.MaxDepth {
		slog.Warn("recursion depth limit reached", slog.Int("max-depth", e.MaxDepth))
		return object.NewError(object.NativeError, "maximum recursion depth %d exceeded", e.MaxDepth)
	}
	e.depth++
	defer func() { e.depth-- }()

	frame := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Params {
		frame.Define(param, args[i])
	}

	return e.Eval(fn.Body, frame)
}

func (e *Evaluator) evalQuote(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "quote expects 1 argument, got %d", len(args))
	}
	return args[0]
}

func (e *Evaluator) evalIf(args []object.Object, env *object.Environment) object.Object {
	if len(args) < 2 || len(args) > 3 {
		return object.NewError(object.ArityError, "if expects 2 or 3 arguments, got %d", len(args))
	}

	condition := e.Eval(args[0], env)
	if object.IsError(condition) {
		return condition
	}

	if object.Truthy(condition) {
		return e.Eval(args[1], env)
	}
	if len(args) == 3 {
		return e.Eval(args[2], env)
	}
	return NIL
}

func (e *Evaluator) evalDo(args []object.Object, env *object.Environment) object.Object {
	blockEnv := object.NewEnclosedEnvironment(env)

	var result object.Object = NIL
	for _, expr := range args {
		result = e.Eval(expr, blockEnv)
		if object.IsError(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) evalDef(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "def expects 2 arguments, got %d", len(args))
	}
	sym, ok := args[0].(*object.Symbol)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "def target must be a symbol", Expr: args[0]}
	}

	val := e.Eval(args[1], env)
	if object.IsError(val) {
		return val
	}
	return env.Define(sym, val)
}

func (e *Evaluator) evalDefun(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 3 {
		return object.NewError(object.ArityError, "defun expects 3 arguments, got %d", len(args))
	}
	name, ok := args[0].(*object.Symbol)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "defun name must be a symbol", Expr: args[0]}
	}

	params, err := paramList(args[1])
	if err != nil {
		return err
	}

	fn := &object.Function{Name: name, Params: params, Body: args[2], Env: env}
	// Defined into the frame the closure captured, so the body can resolve
	// its own name recursively.
	return env.Define(name, fn)
}

func (e *Evaluator) evalFn(args []object.Object, env *object.Environment) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "fn expects 2 arguments, got %d", len(args))
	}
	params, err := paramList(args[0])
	if err != nil {
		return err
	}
	return &object.Function{Params: params, Body: args[1], Env: env}
}

func (e *Evaluator) evalAnd(args []object.Object, env *object.Environment) object.Object {
	var last object.Object = TRUE
	for _, arg := range args {
		last = e.Eval(arg, env)
		if object.IsError(last) {
			return last
		}
		if !object.Truthy(last) {
			return last
		}
	}
	return last
}

func (e *Evaluator) evalOr(args []object.Object, env *object.Environment) object.Object {
	for _, arg := range args {
		val := e.Eval(arg, env)
		if object.IsError(val) {
			return val
		}
		if object.Truthy(val) {
			return val
		}
	}
	return NIL
}

func (e *Evaluator) evalMapLiteral(node *object.Map, env *object.Environment) object.Object {
	result := &object.Map{}

	var failure object.Object
	node.Each(func(keyExpr, valueExpr object.Object) bool {
		// Symbol keys name the entry literally, matching the member access
		// rule; other keys are self-evaluating literals.
		hashable, ok := keyExpr.(object.Hashable)
		if !ok {
			failure = &object.Error{Kind: object.TypeMismatch, Message: "unusable as map key: " + string(keyExpr.Type()), Expr: keyExpr}
			return false
		}

		value := e.Eval(valueExpr, env)
		if object.IsError(value) {
			failure = value
			return false
		}

		result.Put(hashable, value)
		return true
	})

	if failure != nil {
		return failure
	}
	return result
}

func paramList(expr object.Object) ([]*object.Symbol, *object.Error) {
	switch expr := expr.(type) {
	case *object.Nil:
		return nil, nil
	case *object.Symbol:
		return []*object.Symbol{expr}, nil
	case *object.List:
		params := make([]*object.Symbol, 0, len(expr.Elements))
		for _, item := range expr.Elements {
			sym, ok := item.(*object.Symbol)
			if !ok {
				return nil, &object.Error{Kind: object.TypeMismatch, Message: "parameter must be a symbol", Expr: item}
			}
			params = append(params, sym)
		}
		return params, nil
	}
	return nil, &object.Error{Kind: object.TypeMismatch, Message: "parameter list must be a list of symbols", Expr: expr}
}
