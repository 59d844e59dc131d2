package object

import "testing"

func TestStringMapKey(t *testing.T) {
	hello1 := &String{Value: "Hello World"}
	hello2 := &String{Value: "Hello World"}
	diff1 := &String{Value: "My name is johnny"}

	if hello1.MapKey() != hello2.MapKey() {
		t.Errorf("strings with same content have different map keys")
	}

	if hello1.MapKey() == diff1.MapKey() {
		t.Errorf("strings with different content have same map keys")
	}
}

func TestNumberMapKey(t *testing.T) {
	one1 := &Number{Value: 1}
	one2 := &Number{Value: 1}
	two := &Number{Value: 2}

	if one1.MapKey() != one2.MapKey() {
		t.Errorf("numbers with same value have different map keys")
	}

	if one1.MapKey() == two.MapKey() {
		t.Errorf("numbers with different values have same map keys")
	}
}

func TestSymbolInterning(t *testing.T) {
	a1 := InternSymbol("alpha")
	a2 := InternSymbol("alpha")
	b := InternSymbol("beta")

	if a1 != a2 {
		t.Errorf("same name interned to different symbols")
	}
	if a1 == b {
		t.Errorf("different names interned to same symbol")
	}
	if a1.MapKey() == b.MapKey() {
		t.Errorf("different symbols have same map key")
	}
}

func TestMapInsertionOrder(t *testing.T) {
	m := &Map{}
	m.Put(InternSymbol("x"), &Number{Value: 10})
	m.Put(InternSymbol("y"), &Number{Value: 10})

	if got := m.Inspect(); got != "#[x 10 y 10]" {
		t.Errorf("wrong inspect output, got %q", got)
	}

	// Overwrite keeps the key's original position.
	m.Put(InternSymbol("x"), &Number{Value: 5})
	if got := m.Inspect(); got != "#[x 5 y 10]" {
		t.Errorf("wrong inspect output after overwrite, got %q", got)
	}

	m.Delete(InternSymbol("x"))
	if got := m.Inspect(); got != "#[y 10]" {
		t.Errorf("wrong inspect output after delete, got %q", got)
	}
}

func TestReferenceAliasing(t *testing.T) {
	ref := NewReference(&Number{Value: 1})
	alias := ref

	alias.Set(&Number{Value: 2})

	got, ok := ref.Get().(*Number)
	if !ok || got.Value != 2 {
		t.Errorf("mutation through alias not visible through original")
	}
}

func TestReferenceInspectShowsContents(t *testing.T) {
	m := &Map{}
	m.Put(InternSymbol("x"), &Number{Value: 10})
	ref := NewReference(m)

	if got := ref.Inspect(); got != "#[x 10]" {
		t.Errorf("reference inspect should render contents, got %q", got)
	}

	m.Put(InternSymbol("x"), &Number{Value: 99})
	if got := ref.Inspect(); got != "#[x 99]" {
		t.Errorf("reference inspect should track mutation, got %q", got)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		obj  Object
		want bool
	}{
		{NIL, false},
		{FALSE, false},
		{TRUE, true},
		{&Number{Value: 0}, true},
		{&Number{Value: 1}, true},
		{&String{Value: ""}, true},
		{&List{}, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.obj); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.obj.Inspect(), got, tt.want)
		}
	}
}

func TestEquals(t *testing.T) {
	listA := &List{Elements: []Object{&Number{Value: 1}, &String{Value: "a"}}}
	listB := &List{Elements: []Object{&Number{Value: 1}, &String{Value: "a"}}}
	listC := &List{Elements: []Object{&Number{Value: 2}}}

	if !Equals(listA, listB) {
		t.Errorf("structurally equal lists compared unequal")
	}
	if Equals(listA, listC) {
		t.Errorf("different lists compared equal")
	}

	mapA := (&Map{}).Put(InternSymbol("k"), &Number{Value: 1})
	mapB := (&Map{}).Put(InternSymbol("k"), &Number{Value: 1})
	if !Equals(mapA, mapB) {
		t.Errorf("structurally equal maps compared unequal")
	}

	// References compare by cell identity, never by contents.
	refA := NewReference(&Number{Value: 1})
	refB := NewReference(&Number{Value: 1})
	if Equals(refA, refB) {
		t.Errorf("distinct cells compared equal")
	}
	if !Equals(refA, refA) {
		t.Errorf("cell not equal to itself")
	}
}

func TestEnvironmentChain(t *testing.T) {
	x := InternSymbol("env_test_x")

	outer := NewEnvironment()
	outer.Define(x, &Number{Value: 1})
	inner := NewEnclosedEnvironment(outer)

	if val, ok := inner.Get(x); !ok || val.(*Number).Value != 1 {
		t.Fatalf("inner frame cannot see outer binding")
	}

	// Assign mutates the frame that holds the binding.
	inner.Assign(x, &Number{Value: 2})
	if val, _ := outer.Get(x); val.(*Number).Value != 2 {
		t.Errorf("assign did not reach the defining frame")
	}
	if _, shadowed := inner.Bindings[x]; shadowed {
		t.Errorf("assign created a shadow binding in the inner frame")
	}

	// Define shadows instead.
	inner.Define(x, &Number{Value: 3})
	if val, _ := outer.Get(x); val.(*Number).Value != 2 {
		t.Errorf("define leaked into the outer frame")
	}

	// Assign with no binding anywhere declares in the current frame.
	y := InternSymbol("env_test_y")
	inner.Assign(y, &Number{Value: 7})
	if _, ok := outer.Get(y); ok {
		t.Errorf("fallback declaration landed in the outer frame")
	}
	if val, ok := inner.Get(y); !ok || val.(*Number).Value != 7 {
		t.Errorf("fallback declaration missing from the current frame")
	}
}
