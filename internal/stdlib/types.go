package stdlib

import (
	"strconv"
	"strings"

	"fern/internal/object"
)

func installType(env *object.Environment) {
	defineModule(env, "Type", func(m *moduleMap) {
		m.fn("of", typeOf)

		m.fn("is_nil", typePred("is_nil", object.NIL_OBJ))
		m.fn("is_bool", typePred("is_bool", object.BOOLEAN_OBJ))
		m.fn("is_number", typePred("is_number", object.NUMBER_OBJ))
		m.fn("is_string", typePred("is_string", object.STRING_OBJ))
		m.fn("is_symbol", typePred("is_symbol", object.SYMBOL_OBJ))
		m.fn("is_list", typePred("is_list", object.LIST_OBJ))
		m.fn("is_map", typePred("is_map", object.MAP_OBJ))
		m.fn("is_ref", typePred("is_ref", object.REFERENCE_OBJ))
		m.fn("is_fn", typeIsFn)

		m.fn("to_string", typeToString)
		m.fn("to_number", typeToNumber)
		m.fn("to_bool", typeToBool)
	})
}

func typeOf(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("of", 1, args); err != nil {
		return err
	}
	return &object.String{Value: strings.ToLower(string(args[0].Type()))}
}

func typePred(name string, want object.ObjectType) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 1, args); err != nil {
			return err
		}
		return object.NativeBoolToBooleanObject(args[0].Type() == want)
	}
}

func typeIsFn(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("is_fn", 1, args); err != nil {
		return err
	}
	t := args[0].Type()
	return object.NativeBoolToBooleanObject(t == object.FUNCTION_OBJ || t == object.BUILTIN_OBJ)
}

func typeToString(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("to_string", 1, args); err != nil {
		return err
	}
	return &object.String{Value: args[0].Inspect()}
}

// to_number parses strings, passes numbers through and maps booleans to 1
// and 0. Anything unparsable is nil rather than an error so scripts can
// probe user input.
func typeToNumber(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("to_number", 1, args); err != nil {
		return err
	}
	switch arg := args[0].(type) {
	case *object.Number:
		return arg
	case *object.Boolean:
		if arg.Value {
			return &object.Number{Value: 1}
		}
		return &object.Number{Value: 0}
	case *object.String:
		val, perr := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
		if perr != nil {
			return object.NIL
		}
		return &object.Number{Value: val}
	}
	return object.NIL
}

func typeToBool(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("to_bool", 1, args); err != nil {
		return err
	}
	return object.NativeBoolToBooleanObject(object.Truthy(args[0]))
}
