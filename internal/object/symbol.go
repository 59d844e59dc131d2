package object

import "sync"

// Symbol is an interned name. Interning guarantees that two occurrences of
// the same name share one representation, so equality is pointer identity.
type Symbol struct {
	Name string
	id   uint64
}

func (s *Symbol) Type() ObjectType { return SYMBOL_OBJ }
func (s *Symbol) Inspect() string  { return s.Name }
func (s *Symbol) MapKey() MapKey   { return MapKey{Type: s.Type(), Value: s.id} }

var (
	symbolMu    sync.Mutex
	symbolTable = map[string]*Symbol{}
	nextSymbol  uint64
)

func InternSymbol(name string) *Symbol {
	symbolMu.Lock()
	defer symbolMu.Unlock()

	if sym, ok := symbolTable[name]; ok {
		return sym
	}
	nextSymbol++
	sym := &Symbol{Name: name, id: nextSymbol}
	symbolTable[name] = sym
	return sym
}
