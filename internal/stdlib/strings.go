package stdlib

import (
	"strings"

	"fern/internal/object"
)

func installString(env *object.Environment) {
	defineModule(env, "String", func(m *moduleMap) {
		m.fn("len", stringLen)
		m.fn("is_empty", stringIsEmpty)
		m.fn("trim", unaryString("trim", strings.TrimSpace))
		m.fn("to_upper", unaryString("to_upper", strings.ToUpper))
		m.fn("to_lower", unaryString("to_lower", strings.ToLower))
		m.fn("split", stringSplit)
		m.fn("join", stringJoin)
		m.fn("replace", stringReplace)
		m.fn("substring", stringSubstring)
		m.fn("chars", stringChars)
		m.fn("lines", stringLines)
		m.fn("repeat", stringRepeat)
		m.fn("pad_left", stringPad(true))
		m.fn("pad_right", stringPad(false))
		m.fn("starts_with", binaryStringPred("starts_with", strings.HasPrefix))
		m.fn("ends_with", binaryStringPred("ends_with", strings.HasSuffix))
		m.fn("contains", binaryStringPred("contains", strings.Contains))
		m.fn("fmt", stringFmt)
	})
}

func unaryString(name string, fn func(string) string) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 1, args); err != nil {
			return err
		}
		s, err := unpackString(name, args[0])
		if err != nil {
			return err
		}
		return &object.String{Value: fn(s)}
	}
}

func binaryStringPred(name string, fn func(s, t string) bool) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 2, args); err != nil {
			return err
		}
		s, err := unpackString(name, args[0])
		if err != nil {
			return err
		}
		t, err := unpackString(name, args[1])
		if err != nil {
			return err
		}
		return object.NativeBoolToBooleanObject(fn(s, t))
	}
}

func stringLen(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("len", 1, args); err != nil {
		return err
	}
	s, err := unpackString("len", args[0])
	if err != nil {
		return err
	}
	return &object.Number{Value: float64(len([]rune(s)))}
}

func stringIsEmpty(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("is_empty", 1, args); err != nil {
		return err
	}
	s, err := unpackString("is_empty", args[0])
	if err != nil {
		return err
	}
	return object.NativeBoolToBooleanObject(s == "")
}

func stringSplit(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("split", 2, args); err != nil {
		return err
	}
	s, err := unpackString("split", args[0])
	if err != nil {
		return err
	}
	sep, err := unpackString("split", args[1])
	if err != nil {
		return err
	}
	parts := strings.Split(s, sep)
	elements := make([]object.Object, len(parts))
	for i, part := range parts {
		elements[i] = &object.String{Value: part}
	}
	return &object.List{Elements: elements}
}

func stringJoin(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("join", 2, args); err != nil {
		return err
	}
	list, err := unpackList("join", args[0])
	if err != nil {
		return err
	}
	sep, err := unpackString("join", args[1])
	if err != nil {
		return err
	}
	parts := make([]string, len(list.Elements))
	for i, elem := range list.Elements {
		parts[i] = elem.Inspect()
	}
	return &object.String{Value: strings.Join(parts, sep)}
}

func stringReplace(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("replace", 3, args); err != nil {
		return err
	}
	s, err := unpackString("replace", args[0])
	if err != nil {
		return err
	}
	from, err := unpackString("replace", args[1])
	if err != nil {
		return err
	}
	to, err := unpackString("replace", args[2])
	if err != nil {
		return err
	}
	return &object.String{Value: strings.ReplaceAll(s, from, to)}
}

// substring s start end indexes by rune and clamps out-of-range bounds.
func stringSubstring(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("substring", 3, args); err != nil {
		return err
	}
	s, err := unpackString("substring", args[0])
	if err != nil {
		return err
	}
	start, err := unpackNumber("substring", args[1])
	if err != nil {
		return err
	}
	end, err := unpackNumber("substring", args[2])
	if err != nil {
		return err
	}

	runes := []rune(s)
	lo, hi := int(start), int(end)
	if lo < 0 {
		lo = 0
	}
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo >= hi {
		return &object.String{Value: ""}
	}
	return &object.String{Value: string(runes[lo:hi])}
}

func stringChars(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("chars", 1, args); err != nil {
		return err
	}
	s, err := unpackString("chars", args[0])
	if err != nil {
		return err
	}
	var elements []object.Object
	for _, r := range s {
		elements = append(elements, &object.String{Value: string(r)})
	}
	return &object.List{Elements: elements}
}

func stringLines(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("lines", 1, args); err != nil {
		return err
	}
	s, err := unpackString("lines", args[0])
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	elements := make([]object.Object, len(lines))
	for i, line := range lines {
		elements[i] = &object.String{Value: line}
	}
	return &object.List{Elements: elements}
}

func stringRepeat(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("repeat", 2, args); err != nil {
		return err
	}
	s, err := unpackString("repeat", args[0])
	if err != nil {
		return err
	}
	n, err := unpackNumber("repeat", args[1])
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	return &object.String{Value: strings.Repeat(s, int(n))}
}

func stringPad(left bool) object.BuiltinFunction {
	name := "pad_right"
	if left {
		name = "pad_left"
	}
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 3, args); err != nil {
			return err
		}
		s, err := unpackString(name, args[0])
		if err != nil {
			return err
		}
		width, err := unpackNumber(name, args[1])
		if err != nil {
			return err
		}
		pad, err := unpackString(name, args[2])
		if err != nil {
			return err
		}
		if pad == "" {
			return &object.String{Value: s}
		}
		out := s
		for len([]rune(out)) < int(width) {
			if left {
				out = pad + out
			} else {
				out = out + pad
			}
		}
		return &object.String{Value: out}
	}
}

// fmt substitutes each {} in the format string with the next argument.
func stringFmt(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) < 1 {
		return object.NewError(object.ArityError, "fmt expects at least 1 argument")
	}
	format, err := unpackString("fmt", args[0])
	if err != nil {
		return err
	}

	var out strings.Builder
	rest := args[1:]
	for {
		idx := strings.Index(format, "{}")
		if idx < 0 || len(rest) == 0 {
			out.WriteString(format)
			break
		}
		out.WriteString(format[:idx])
		out.WriteString(rest[0].Inspect())
		rest = rest[1:]
		format = format[idx+2:]
	}
	return &object.String{Value: out.String()}
}
