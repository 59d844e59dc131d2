package evaluator

import (
	"fmt"
	"math"
	"os"
	"strings"

	"fern/internal/object"
)

func registerBuiltins(env *object.Environment) {
	define := func(name string, fn object.BuiltinFunction) {
		env.Define(object.InternSymbol(name), &object.Builtin{Name: name, Fn: fn})
	}

	define("new", builtinNew)
	define("deref", builtinDeref)
	define("set", builtinSetRef)

	define("+", builtinAdd)
	define("-", builtinSub)
	define("*", builtinMul)
	define("/", builtinDiv)
	define("%", builtinMod)

	define("==", builtinEq)
	define("!=", builtinNeq)
	define("<", numericCompare("<", func(a, b float64) bool { return a < b }))
	define(">", numericCompare(">", func(a, b float64) bool { return a > b }))
	define("<=", numericCompare("<=", func(a, b float64) bool { return a <= b }))
	define(">=", numericCompare(">=", func(a, b float64) bool { return a >= b }))

	define("!", builtinNot)
	define("not", builtinNot)

	define("print", builtinPrint)
	define("println", builtinPrintln)

	define("list", builtinList)
	define("len", builtinLen)
	define("first", builtinFirst)
	define("rest", builtinRest)
	define("cons", builtinCons)
	define("nth", builtinNth)
	define("take", builtinTake)
	define("drop", builtinDrop)

	define("type", builtinType)
}

func numberArgs(name string, args []object.Object) ([]float64, object.Object) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		n, ok := arg.(*object.Number)
		if !ok {
			return nil, &object.Error{Kind: object.TypeMismatch, Message: name + " expects numbers, got " + string(arg.Type()), Expr: arg}
		}
		nums[i] = n.Value
	}
	return nums, nil
}

// builtinAdd sums numbers, or concatenates when every argument is a string
// or every argument is a list. Mixed argument types are a mismatch.
func builtinAdd(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) == 0 {
		return &object.Number{Value: 0}
	}

	switch args[0].(type) {
	case *object.String:
		var out strings.Builder
		for _, arg := range args {
			s, ok := arg.(*object.String)
			if !ok {
				return &object.Error{Kind: object.TypeMismatch, Message: "+ expects strings, got " + string(arg.Type()), Expr: arg}
			}
			out.WriteString(s.Value)
		}
		return &object.String{Value: out.String()}

	case *object.List:
		var out []object.Object
		for _, arg := range args {
			l, ok := arg.(*object.List)
			if !ok {
				return &object.Error{Kind: object.TypeMismatch, Message: "+ expects lists, got " + string(arg.Type()), Expr: arg}
			}
			out = append(out, l.Elements...)
		}
		return &object.List{Elements: out}
	}

	nums, err := numberArgs("+", args)
	if err != nil {
		return err
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return &object.Number{Value: sum}
}

func builtinSub(ctx object.CallContext, args ...object.Object) object.Object {
	nums, err := numberArgs("-", args)
	if err != nil {
		return err
	}
	switch len(nums) {
	case 0:
		return object.NewError(object.ArityError, "- expects at least 1 argument")
	case 1:
		return &object.Number{Value: -nums[0]}
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		acc -= n
	}
	return &object.Number{Value: acc}
}

func builtinMul(ctx object.CallContext, args ...object.Object) object.Object {
	nums, err := numberArgs("*", args)
	if err != nil {
		return err
	}
	acc := 1.0
	for _, n := range nums {
		acc *= n
	}
	return &object.Number{Value: acc}
}

func builtinDiv(ctx object.CallContext, args ...object.Object) object.Object {
	nums, err := numberArgs("/", args)
	if err != nil {
		return err
	}
	if len(nums) < 2 {
		return object.NewError(object.ArityError, "/ expects at least 2 arguments, got %d", len(nums))
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		if n == 0 {
			return object.NewError(object.DivisionByZero, "division by zero")
		}
		acc /= n
	}
	return &object.Number{Value: acc}
}

func builtinMod(ctx object.CallContext, args ...object.Object) object.Object {
	nums, err := numberArgs("%", args)
	if err != nil {
		return err
	}
	if len(nums) != 2 {
		return object.NewError(object.ArityError, "%% expects 2 arguments, got %d", len(nums))
	}
	if nums[1] == 0 {
		return object.NewError(object.DivisionByZero, "division by zero")
	}
	return &object.Number{Value: math.Mod(nums[0], nums[1])}
}

func builtinEq(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "== expects 2 arguments, got %d", len(args))
	}
	return object.NativeBoolToBooleanObject(object.Equals(args[0], args[1]))
}

func builtinNeq(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 2 {
		return object.NewError(object.ArityError, "!= expects 2 arguments, got %d", len(args))
	}
	return object.NativeBoolToBooleanObject(!object.Equals(args[0], args[1]))
}

func numericCompare(name string, cmp func(a, b float64) bool) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.ArityError, "%s expects 2 arguments, got %d", name, len(args))
		}
		nums, err := numberArgs(name, args)
		if err != nil {
			return err
		}
		return object.NativeBoolToBooleanObject(cmp(nums[0], nums[1]))
	}
}

func builtinNot(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "! expects 1 argument, got %d", len(args))
	}
	return object.NativeBoolToBooleanObject(!object.Truthy(args[0]))
}

func builtinPrint(ctx object.CallContext, args ...object.Object) object.Object {
	fmt.Fprint(os.Stdout, inspectAll(args))
	return NIL
}

func builtinPrintln(ctx object.CallContext, args ...object.Object) object.Object {
	fmt.Fprintln(os.Stdout, inspectAll(args))
	return NIL
}

func inspectAll(args []object.Object) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Inspect()
	}
	return strings.Join(parts, " ")
}

func builtinList(ctx object.CallContext, args ...object.Object) object.Object {
	return &object.List{Elements: args}
}

func builtinLen(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "len expects 1 argument, got %d", len(args))
	}
	switch arg := args[0].(type) {
	case *object.String:
		return &object.Number{Value: float64(len(arg.Value))}
	case *object.List:
		return &object.Number{Value: float64(len(arg.Elements))}
	case *object.Map:
		return &object.Number{Value: float64(arg.Len())}
	case *object.Reference:
		return builtinLen(ctx, arg.Get())
	}
	return &object.Error{Kind: object.TypeMismatch, Message: "len expects a string, list or map, got " + string(args[0].Type()), Expr: args[0]}
}

func listArg(name string, args []object.Object, want int) (*object.List, object.Object) {
	if len(args) != want {
		return nil, object.NewError(object.ArityError, "%s expects %d arguments, got %d", name, want, len(args))
	}
	list, ok := args[len(args)-1].(*object.List)
	if !ok {
		return nil, &object.Error{Kind: object.TypeMismatch, Message: name + " expects a list, got " + string(args[len(args)-1].Type()), Expr: args[len(args)-1]}
	}
	return list, nil
}

func builtinFirst(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("first", args, 1)
	if err != nil {
		return err
	}
	if len(list.Elements) == 0 {
		return NIL
	}
	return list.Elements[0]
}

func builtinRest(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("rest", args, 1)
	if err != nil {
		return err
	}
	if len(list.Elements) == 0 {
		return &object.List{}
	}
	rest := make([]object.Object, len(list.Elements)-1)
	copy(rest, list.Elements[1:])
	return &object.List{Elements: rest}
}

func builtinCons(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("cons", args, 2)
	if err != nil {
		return err
	}
	elements := make([]object.Object, 0, len(list.Elements)+1)
	elements = append(elements, args[0])
	elements = append(elements, list.Elements...)
	return &object.List{Elements: elements}
}

func builtinNth(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("nth", args, 2)
	if err != nil {
		return err
	}
	idx, ok := args[0].(*object.Number)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "nth expects a number index, got " + string(args[0].Type()), Expr: args[0]}
	}
	i := int(idx.Value)
	if i < 0 || i >= len(list.Elements) {
		return NIL
	}
	return list.Elements[i]
}

func builtinTake(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("take", args, 2)
	if err != nil {
		return err
	}
	n, ok := args[0].(*object.Number)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "take expects a number, got " + string(args[0].Type()), Expr: args[0]}
	}
	count := int(n.Value)
	if count < 0 {
		count = 0
	}
	if count > len(list.Elements) {
		count = len(list.Elements)
	}
	taken := make([]object.Object, count)
	copy(taken, list.Elements[:count])
	return &object.List{Elements: taken}
}

func builtinDrop(ctx object.CallContext, args ...object.Object) object.Object {
	list, err := listArg("drop", args, 2)
	if err != nil {
		return err
	}
	n, ok := args[0].(*object.Number)
	if !ok {
		return &object.Error{Kind: object.TypeMismatch, Message: "drop expects a number, got " + string(args[0].Type()), Expr: args[0]}
	}
	count := int(n.Value)
	if count < 0 {
		count = 0
	}
	if count > len(list.Elements) {
		count = len(list.Elements)
	}
	rest := make([]object.Object, len(list.Elements)-count)
	copy(rest, list.Elements[count:])
	return &object.List{Elements: rest}
}

func builtinType(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 {
		return object.NewError(object.ArityError, "type expects 1 argument, got %d", len(args))
	}
	return &object.String{Value: string(args[0].Type())}
}
