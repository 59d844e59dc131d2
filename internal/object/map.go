package object

import (
	"bytes"
	"strings"
)

type MapKey struct {
	Type  ObjectType
	Value uint64
}

type MapPair struct {
	Key   Object
	Value Object
}

// Map is an insertion-ordered mapping. Hashed storage gives O(1) lookup, the
// order slice preserves first-insertion order for printing and iteration.
type Map struct {
	Pairs map[MapKey]MapPair
	order []MapKey
}

func (m *Map) Type() ObjectType { return MAP_OBJ }
func (m *Map) Inspect() string {
	var out bytes.Buffer

	pairs := []string{}
	for _, key := range m.order {
		pair := m.Pairs[key]
		pairs = append(pairs, pair.Key.Inspect()+" "+pair.Value.Inspect())
	}

	out.WriteString("#[")
	out.WriteString(strings.Join(pairs, " "))
	out.WriteString("]")

	return out.String()
}

// Put inserts or overwrites an entry. An overwrite keeps the key's original
// position in insertion order.
func (m *Map) Put(k Hashable, v Object) *Map {
	if m.Pairs == nil {
		m.Pairs = map[MapKey]MapPair{}
	}
	key := k.MapKey()
	if _, exists := m.Pairs[key]; !exists {
		m.order = append(m.order, key)
	}
	m.Pairs[key] = MapPair{Key: k, Value: v}
	return m
}

func (m *Map) Get(k Hashable) (Object, bool) {
	pair, ok := m.Pairs[k.MapKey()]
	return pair.Value, ok
}

func (m *Map) Delete(k Hashable) {
	key := k.MapKey()
	if _, exists := m.Pairs[key]; !exists {
		return
	}
	delete(m.Pairs, key)
	for i, existing := range m.order {
		if existing == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Map) Len() int { return len(m.order) }

// Each visits entries in insertion order; returning false stops the walk.
func (m *Map) Each(visit func(key, value Object) bool) {
	for _, k := range m.order {
		pair := m.Pairs[k]
		if !visit(pair.Key, pair.Value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Object {
	keys := make([]Object, 0, len(m.order))
	for _, k := range m.order {
		keys = append(keys, m.Pairs[k].Key)
	}
	return keys
}

// Values returns the values in insertion order.
func (m *Map) Values() []Object {
	values := make([]Object, 0, len(m.order))
	for _, k := range m.order {
		values = append(values, m.Pairs[k].Value)
	}
	return values
}
