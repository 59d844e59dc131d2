package object

// Environment is one frame of the lexical scope chain. Frames hold their
// bindings by interned symbol and a shared link to the parent frame, never a
// copy of it: writes to an outer binding are visible to every holder of that
// outer frame, which is what gives closures their shared mutable state.
type Environment struct {
	Bindings map[*Symbol]Object
	Outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{Bindings: make(map[*Symbol]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	return env
}

// Get resolves a symbol through the frame chain, innermost first.
func (e *Environment) Get(sym *Symbol) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Bindings[sym]; ok {
			return val, true
		}
	}
	return nil, false
}

// Define inserts or overwrites a binding in this frame only.
func (e *Environment) Define(sym *Symbol, val Object) Object {
	e.Bindings[sym] = val
	return val
}

// Assign mutates the nearest frame that already binds sym. When no frame in
// the chain binds it, the symbol is declared in the current frame, same as
// Define.
func (e *Environment) Assign(sym *Symbol, val Object) Object {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Bindings[sym]; ok {
			env.Bindings[sym] = val
			return val
		}
	}
	return e.Define(sym, val)
}
