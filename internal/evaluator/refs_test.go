package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fern/internal/evaluator"
	"fern/internal/object"
)

func TestNewDerefSet(t *testing.T) {
	ev := evaluator.New()

	ref := run(t, ev, "(def r (new 1)) r")
	require.IsType(t, &object.Reference{}, ref)

	requireNumber(t, run(t, ev, "(deref r)"), 1)
	requireNumber(t, run(t, ev, "(set r 5)"), 5)
	requireNumber(t, run(t, ev, "(deref r)"), 5)
}

func TestDerefSetRequireReference(t *testing.T) {
	requireErrorKind(t, evalOne(t, "(deref 1)"), object.NotAReference)
	requireErrorKind(t, evalOne(t, "(set 1 2)"), object.NotAReference)
}

// The aliasing law: every binding initialized from the same cell observes
// mutations made through any other.
func TestReferenceAliasing(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "p1 = new #[x 10 y 10]")
	run(t, ev, "p1.x = 5")
	assert.Equal(t, "#[x 5 y 10]", run(t, ev, "p1").Inspect())

	run(t, ev, "p2 = p1")
	run(t, ev, "p1.y = 99")
	requireNumber(t, run(t, ev, "p2.y"), 99)
}

func TestAssignmentCopiesTheHandleNotTheCell(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "a = new 1")
	run(t, ev, "b = a")
	run(t, ev, "(set b 2)")
	requireNumber(t, run(t, ev, "(deref a)"), 2)

	// Rebinding a name never touches the cell the other name holds.
	run(t, ev, "b = new 3")
	requireNumber(t, run(t, ev, "(deref a)"), 2)
}

func TestMemberAccessRequiresReferenceToMap(t *testing.T) {
	requireErrorKind(t, evalOne(t, "(. 1 x)"), object.NotAReference)
	requireErrorKind(t, evalOne(t, "(def r (new 5)) r.x"), object.TypeMismatch)
}

func TestNoSuchMember(t *testing.T) {
	result := evalOne(t, "(def p (new #[x 1])) p.missing")
	requireErrorKind(t, result, object.NoSuchMember)
	assert.Contains(t, result.Inspect(), "missing")
}

func TestMemberWriteAddsEntryInOrder(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "p = new #[x 1]")
	requireNumber(t, run(t, ev, "p.z = 3"), 3)
	assert.Equal(t, "#[x 1 z 3]", run(t, ev, "p").Inspect())
}

// Field resolution tries the literal symbol first, then the symbol's value.
func TestHybridFieldLookup(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "(def p (new #[y 42]))")
	run(t, ev, "(def key 'y)")
	requireNumber(t, run(t, ev, "p.key"), 42)

	// A literal entry named key shadows the variable fallback.
	run(t, ev, "(def q (new #[key 1 y 2]))")
	requireNumber(t, run(t, ev, "q.key"), 1)
}

func TestBoundMethodMutatesReceiver(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "p = new #[x 1 inc (fn () (= (. self x) ((. self x) + 1)))]")

	requireNumber(t, run(t, ev, "(p.inc)"), 2)
	requireNumber(t, run(t, ev, "p.x"), 2)

	// A bound method extracted once keeps its receiver.
	run(t, ev, "m = p.inc")
	run(t, ev, "(m) (m)")
	requireNumber(t, run(t, ev, "p.x"), 4)
}

// Binding happens per access, nothing is cached on the map: replacing the
// member does not disturb an already-extracted bound method.
func TestSelfBindingIsPerAccess(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "p = new #[x 1 inc (fn () (= (. self x) ((. self x) + 1)))]")
	run(t, ev, "m = p.inc")
	run(t, ev, "p.inc = (fn () 0)")

	requireNumber(t, run(t, ev, "(m)"), 2)
	requireNumber(t, run(t, ev, "(p.inc)"), 0)
	requireNumber(t, run(t, ev, "p.x"), 2)
}

func TestAssignFormAndDotFormWriteAgree(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "p = new #[x 1]")
	run(t, ev, "(. p x 7)")
	requireNumber(t, run(t, ev, "p.x"), 7)
	run(t, ev, "(= (. p x) 8)")
	requireNumber(t, run(t, ev, "p.x"), 8)
}

func TestNestedMemberAccess(t *testing.T) {
	ev := evaluator.New()
	run(t, ev, "inner = new #[v 1]")
	run(t, ev, "outer = new #[child inner]")
	requireNumber(t, run(t, ev, "outer.child.v"), 1)

	run(t, ev, "outer.child.v = 9")
	requireNumber(t, run(t, ev, "inner.v"), 9)
}
