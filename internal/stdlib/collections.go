package stdlib

import (
	"sort"

	"fern/internal/object"
)

func installCollections(env *object.Environment) {
	defineModule(env, "Collections", func(m *moduleMap) {
		m.fn("push", collPush)
		m.fn("pop", collPop)
		m.fn("peek", collPeek)
		m.fn("reverse", collReverse)
		m.fn("sort", collSort)
		m.fn("range", collRange)
		m.fn("zip", collZip)
		m.fn("flatten", collFlatten)
		m.fn("dedup", collDedup)
		m.fn("enumerate", collEnumerate)
		m.fn("get", collGet)

		m.fn("keys", collKeys)
		m.fn("values", collValues)
		m.fn("contains_key", collContainsKey)
		m.fn("merge", collMerge)

		m.fn("map", collMap)
		m.fn("filter", collFilter)
		m.fn("fold", collFold)
		m.fn("find", collFind)
		m.fn("any", collAny)
		m.fn("all", collAll)
	})
}

func collPush(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("push", 2, args); err != nil {
		return err
	}
	list, err := unpackList("push", args[0])
	if err != nil {
		return err
	}
	elements := make([]object.Object, 0, len(list.Elements)+1)
	elements = append(elements, list.Elements...)
	elements = append(elements, args[1])
	return &object.List{Elements: elements}
}

func collPop(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("pop", 1, args); err != nil {
		return err
	}
	list, err := unpackList("pop", args[0])
	if err != nil {
		return err
	}
	if len(list.Elements) == 0 {
		return &object.List{}
	}
	out := make([]object.Object, len(list.Elements)-1)
	copy(out, list.Elements[:len(list.Elements)-1])
	return &object.List{Elements: out}
}

func collPeek(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("peek", 1, args); err != nil {
		return err
	}
	list, err := unpackList("peek", args[0])
	if err != nil {
		return err
	}
	if len(list.Elements) == 0 {
		return object.NIL
	}
	return list.Elements[len(list.Elements)-1]
}

func collReverse(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("reverse", 1, args); err != nil {
		return err
	}
	list, err := unpackList("reverse", args[0])
	if err != nil {
		return err
	}
	out := make([]object.Object, len(list.Elements))
	for i, elem := range list.Elements {
		out[len(out)-1-i] = elem
	}
	return &object.List{Elements: out}
}

// sort orders numbers numerically and everything else by its printed form.
func collSort(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("sort", 1, args); err != nil {
		return err
	}
	list, err := unpackList("sort", args[0])
	if err != nil {
		return err
	}
	out := make([]object.Object, len(list.Elements))
	copy(out, list.Elements)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := out[i].(*object.Number)
		b, bok := out[j].(*object.Number)
		if aok && bok {
			return a.Value < b.Value
		}
		return out[i].Inspect() < out[j].Inspect()
	})
	return &object.List{Elements: out}
}

// range n counts 0..n-1; range a b counts a..b-1.
func collRange(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 1 && len(args) != 2 {
		return object.NewError(object.ArityError, "range expects 1 or 2 arguments, got %d", len(args))
	}
	var lo, hi float64
	var err object.Object
	if len(args) == 1 {
		hi, err = unpackNumber("range", args[0])
	} else {
		lo, err = unpackNumber("range", args[0])
		if err == nil {
			hi, err = unpackNumber("range", args[1])
		}
	}
	if err != nil {
		return err
	}

	var elements []object.Object
	for i := int(lo); i < int(hi); i++ {
		elements = append(elements, &object.Number{Value: float64(i)})
	}
	return &object.List{Elements: elements}
}

func collZip(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("zip", 2, args); err != nil {
		return err
	}
	a, err := unpackList("zip", args[0])
	if err != nil {
		return err
	}
	b, err := unpackList("zip", args[1])
	if err != nil {
		return err
	}
	n := len(a.Elements)
	if len(b.Elements) < n {
		n = len(b.Elements)
	}
	pairs := make([]object.Object, n)
	for i := 0; i < n; i++ {
		pairs[i] = &object.List{Elements: []object.Object{a.Elements[i], b.Elements[i]}}
	}
	return &object.List{Elements: pairs}
}

func collFlatten(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("flatten", 1, args); err != nil {
		return err
	}
	list, err := unpackList("flatten", args[0])
	if err != nil {
		return err
	}
	var out []object.Object
	for _, elem := range list.Elements {
		if inner, ok := elem.(*object.List); ok {
			out = append(out, inner.Elements...)
			continue
		}
		out = append(out, elem)
	}
	return &object.List{Elements: out}
}

func collDedup(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("dedup", 1, args); err != nil {
		return err
	}
	list, err := unpackList("dedup", args[0])
	if err != nil {
		return err
	}
	var out []object.Object
	for _, elem := range list.Elements {
		seen := false
		for _, kept := range out {
			if object.Equals(elem, kept) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, elem)
		}
	}
	return &object.List{Elements: out}
}

func collEnumerate(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("enumerate", 1, args); err != nil {
		return err
	}
	list, err := unpackList("enumerate", args[0])
	if err != nil {
		return err
	}
	pairs := make([]object.Object, len(list.Elements))
	for i, elem := range list.Elements {
		pairs[i] = &object.List{Elements: []object.Object{&object.Number{Value: float64(i)}, elem}}
	}
	return &object.List{Elements: pairs}
}

// get works on both shapes: a list with a numeric index, a map with any
// hashable key. A third argument is the default for a miss; otherwise a miss
// is nil.
func collGet(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) != 2 && len(args) != 3 {
		return object.NewError(object.ArityError, "get expects 2 or 3 arguments, got %d", len(args))
	}
	miss := object.Object(object.NIL)
	if len(args) == 3 {
		miss = args[2]
	}

	switch target := deref(args[0]).(type) {
	case *object.List:
		idx, err := unpackNumber("get", args[1])
		if err != nil {
			return err
		}
		i := int(idx)
		if i < 0 || i >= len(target.Elements) {
			return miss
		}
		return target.Elements[i]

	case *object.Map:
		key, err := unpackHashable("get", args[1])
		if err != nil {
			return err
		}
		if val, ok := target.Get(key); ok {
			return val
		}
		return miss
	}
	return &object.Error{Kind: object.TypeMismatch, Message: "get expects a list or map, got " + string(args[0].Type()), Expr: args[0]}
}

func collKeys(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("keys", 1, args); err != nil {
		return err
	}
	m, err := unpackMap("keys", args[0])
	if err != nil {
		return err
	}
	return &object.List{Elements: m.Keys()}
}

func collValues(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("values", 1, args); err != nil {
		return err
	}
	m, err := unpackMap("values", args[0])
	if err != nil {
		return err
	}
	return &object.List{Elements: m.Values()}
}

func collContainsKey(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("contains_key", 2, args); err != nil {
		return err
	}
	m, err := unpackMap("contains_key", args[0])
	if err != nil {
		return err
	}
	key, err := unpackHashable("contains_key", args[1])
	if err != nil {
		return err
	}
	_, ok := m.Get(key)
	return object.NativeBoolToBooleanObject(ok)
}

// merge builds a fresh map; entries from the second argument win.
func collMerge(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("merge", 2, args); err != nil {
		return err
	}
	a, err := unpackMap("merge", args[0])
	if err != nil {
		return err
	}
	b, err := unpackMap("merge", args[1])
	if err != nil {
		return err
	}

	out := &object.Map{}
	a.Each(func(key, value object.Object) bool {
		out.Put(key.(object.Hashable), value)
		return true
	})
	b.Each(func(key, value object.Object) bool {
		out.Put(key.(object.Hashable), value)
		return true
	})
	return out
}

func collMap(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("map", 2, args); err != nil {
		return err
	}
	list, err := unpackList("map", args[1])
	if err != nil {
		return err
	}
	out := make([]object.Object, len(list.Elements))
	for i, elem := range list.Elements {
		val := ctx.Apply(args[0], []object.Object{elem})
		if object.IsError(val) {
			return val
		}
		out[i] = val
	}
	return &object.List{Elements: out}
}

func collFilter(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("filter", 2, args); err != nil {
		return err
	}
	list, err := unpackList("filter", args[1])
	if err != nil {
		return err
	}
	var out []object.Object
	for _, elem := range list.Elements {
		val := ctx.Apply(args[0], []object.Object{elem})
		if object.IsError(val) {
			return val
		}
		if object.Truthy(val) {
			out = append(out, elem)
		}
	}
	return &object.List{Elements: out}
}

// fold fn init list threads the accumulator left to right.
func collFold(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("fold", 3, args); err != nil {
		return err
	}
	list, err := unpackList("fold", args[2])
	if err != nil {
		return err
	}
	acc := args[1]
	for _, elem := range list.Elements {
		acc = ctx.Apply(args[0], []object.Object{acc, elem})
		if object.IsError(acc) {
			return acc
		}
	}
	return acc
}

func collFind(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("find", 2, args); err != nil {
		return err
	}
	list, err := unpackList("find", args[1])
	if err != nil {
		return err
	}
	for _, elem := range list.Elements {
		val := ctx.Apply(args[0], []object.Object{elem})
		if object.IsError(val) {
			return val
		}
		if object.Truthy(val) {
			return elem
		}
	}
	return object.NIL
}

func collAny(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("any", 2, args); err != nil {
		return err
	}
	list, err := unpackList("any", args[1])
	if err != nil {
		return err
	}
	for _, elem := range list.Elements {
		val := ctx.Apply(args[0], []object.Object{elem})
		if object.IsError(val) {
			return val
		}
		if object.Truthy(val) {
			return object.TRUE
		}
	}
	return object.FALSE
}

func collAll(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("all", 2, args); err != nil {
		return err
	}
	list, err := unpackList("all", args[1])
	if err != nil {
		return err
	}
	for _, elem := range list.Elements {
		val := ctx.Apply(args[0], []object.Object{elem})
		if object.IsError(val) {
			return val
		}
		if !object.Truthy(val) {
			return object.FALSE
		}
	}
	return object.TRUE
}
