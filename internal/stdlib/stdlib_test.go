package stdlib_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fern/internal/evaluator"
	"fern/internal/object"
	"fern/internal/reader"
	"fern/internal/stdlib"
)

func newEvaluator() *evaluator.Evaluator {
	ev := evaluator.New()
	stdlib.Install(ev.Global)
	return ev
}

func run(t *testing.T, ev *evaluator.Evaluator, src string) object.Object {
	t.Helper()
	forms, err := reader.Parse(src)
	require.NoError(t, err)

	var result object.Object = object.NIL
	for _, form := range forms {
		result = ev.Eval(form, ev.Global)
		if object.IsError(result) {
			return result
		}
	}
	return result
}

func evalOne(t *testing.T, src string) object.Object {
	return run(t, newEvaluator(), src)
}

func assertResult(t *testing.T, src, want string) {
	t.Helper()
	result := evalOne(t, src)
	require.Falsef(t, object.IsError(result), "source %s failed: %s", src, result.Inspect())
	assert.Equal(t, want, result.Inspect(), "source: %s", src)
}

func TestModulesAreReferences(t *testing.T) {
	for _, name := range []string{"Math", "String", "Collections", "Time", "OS", "IO", "Type", "DB"} {
		result := evalOne(t, name)
		assert.IsTypef(t, &object.Reference{}, result, "module %s", name)
	}
}

func TestMath(t *testing.T) {
	assertResult(t, "(Math.floor 2.7)", "2")
	assertResult(t, "(Math.ceil 2.1)", "3")
	assertResult(t, "(Math.abs (- 5))", "5")
	assertResult(t, "(Math.pow 2 10)", "1024")
	assertResult(t, "(Math.max 3 7)", "7")
	assertResult(t, "(Math.sqrt 49)", "7")
	assertResult(t, "(Math.sign (- 3))", "-1")
	assertResult(t, "(Math.clamp 15 0 10)", "10")

	log, ok := evalOne(t, "(Math.log 8 2)").(*object.Number)
	require.True(t, ok)
	assert.InDelta(t, 3, log.Value, 1e-9)

	pi := evalOne(t, "Math.PI")
	num, ok := pi.(*object.Number)
	require.True(t, ok)
	assert.InDelta(t, 3.14159, num.Value, 0.0001)
}

func TestMathRand(t *testing.T) {
	ev := newEvaluator()
	for i := 0; i < 20; i++ {
		n, ok := run(t, ev, "(Math.rand_int 5 10)").(*object.Number)
		require.True(t, ok)
		assert.GreaterOrEqual(t, n.Value, 5.0)
		assert.Less(t, n.Value, 10.0)
	}
	r, ok := run(t, ev, "(Math.rand)").(*object.Number)
	require.True(t, ok)
	assert.GreaterOrEqual(t, r.Value, 0.0)
	assert.Less(t, r.Value, 1.0)
}

func TestString(t *testing.T) {
	assertResult(t, `(String.to_upper "abc")`, "ABC")
	assertResult(t, `(String.trim "  x  ")`, "x")
	assertResult(t, `(String.split "a,b,c" ",")`, "(a b c)")
	assertResult(t, `(String.join ["a" "b"] "-")`, "a-b")
	assertResult(t, `(String.replace "aaa" "a" "b")`, "bbb")
	assertResult(t, `(String.substring "hello" 1 3)`, "el")
	assertResult(t, `(String.chars "ab")`, "(a b)")
	assertResult(t, `(String.repeat "ab" 3)`, "ababab")
	assertResult(t, `(String.pad_left "7" 3 "0")`, "007")
	assertResult(t, `(String.starts_with "fern" "fe")`, "true")
	assertResult(t, `(String.contains "fern" "er")`, "true")
	assertResult(t, `(String.is_empty "")`, "true")
	assertResult(t, `(String.len "héllo")`, "5")
	assertResult(t, `(String.fmt "{} + {} = {}" 1 2 3)`, "1 + 2 = 3")
}

func TestCollections(t *testing.T) {
	assertResult(t, "(Collections.push [1 2] 3)", "(1 2 3)")
	assertResult(t, "(Collections.pop [1 2 3])", "(1 2)")
	assertResult(t, "(Collections.peek [1 2 3])", "3")
	assertResult(t, "(Collections.reverse [1 2 3])", "(3 2 1)")
	assertResult(t, "(Collections.sort [3 1 2])", "(1 2 3)")
	assertResult(t, "(Collections.range 4)", "(0 1 2 3)")
	assertResult(t, "(Collections.range 2 5)", "(2 3 4)")
	assertResult(t, "(Collections.zip [1 2] [3 4 5])", "((1 3) (2 4))")
	assertResult(t, "(Collections.flatten [[1 2] 3 [4]])", "(1 2 3 4)")
	assertResult(t, "(Collections.dedup [1 2 1 3 2])", "(1 2 3)")
	assertResult(t, "(Collections.enumerate [7 8])", "((0 7) (1 8))")
}

func TestCollectionsOnMaps(t *testing.T) {
	assertResult(t, "(Collections.keys #[a 1 b 2])", "(a b)")
	assertResult(t, "(Collections.values #[a 1 b 2])", "(1 2)")
	assertResult(t, "(Collections.contains_key #[a 1] 'a)", "true")
	assertResult(t, "(Collections.contains_key #[a 1] 'b)", "false")
	assertResult(t, "(Collections.merge #[a 1 b 2] #[b 9 c 3])", "#[a 1 b 9 c 3]")
	assertResult(t, "(Collections.get #[a 1] 'a)", "1")
	assertResult(t, "(Collections.get #[a 1] 'z 0)", "0")
	assertResult(t, "(Collections.get [4 5 6] 1)", "5")

	// Map functions accept references too, so struct instances work.
	assertResult(t, "(Collections.keys (new #[x 1 y 2]))", "(x y)")
}

func TestCollectionsHigherOrder(t *testing.T) {
	assertResult(t, "(Collections.map (fn (x) (* x 2)) [1 2 3])", "(2 4 6)")
	assertResult(t, "(Collections.filter (fn (x) (x > 1)) [1 2 3])", "(2 3)")
	assertResult(t, "(Collections.fold (fn (acc x) (acc + x)) 0 [1 2 3 4])", "10")
	assertResult(t, "(Collections.find (fn (x) (x > 1)) [1 2 3])", "2")
	assertResult(t, "(Collections.any (fn (x) (x > 2)) [1 2 3])", "true")
	assertResult(t, "(Collections.all (fn (x) (x > 2)) [1 2 3])", "false")
}

func TestHigherOrderPropagatesErrors(t *testing.T) {
	result := evalOne(t, "(Collections.map (fn (x) missing) [1])")
	require.True(t, object.IsError(result))
	assert.Equal(t, object.UnboundSymbol, result.(*object.Error).Kind)
}

func TestType(t *testing.T) {
	assertResult(t, "(Type.of 1)", "number")
	assertResult(t, `(Type.of "s")`, "string")
	assertResult(t, "(Type.is_number 1)", "true")
	assertResult(t, "(Type.is_list [1])", "true")
	assertResult(t, "(Type.is_ref (new 1))", "true")
	assertResult(t, "(Type.is_fn (fn (x) x))", "true")
	assertResult(t, "(Type.is_fn deref)", "true")
	assertResult(t, `(Type.to_number "42")`, "42")
	assertResult(t, `(Type.to_number "nope")`, "nil")
	assertResult(t, "(Type.to_string 1.5)", "1.5")
	assertResult(t, "(Type.to_bool 0)", "true")
	assertResult(t, "(Type.to_bool nil)", "false")
}

func TestIORoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	ev := newEvaluator()
	ev.Global.Define(object.InternSymbol("path"), &object.String{Value: path})

	result := run(t, ev, `(IO.write_file path "hello")`)
	require.False(t, object.IsError(result), result.Inspect())
	run(t, ev, `(IO.append_file path " world")`)

	assert.Equal(t, "hello world", run(t, ev, "(IO.read_file path)").Inspect())
	assert.Equal(t, "true", run(t, ev, "(IO.exists path)").Inspect())
	assert.Equal(t, "true", run(t, ev, "(IO.is_file path)").Inspect())
	assert.Equal(t, "false", run(t, ev, "(IO.is_dir path)").Inspect())

	run(t, ev, "(IO.remove_file path)")
	assert.Equal(t, "false", run(t, ev, "(IO.exists path)").Inspect())

	data, err := os.ReadFile(path)
	assert.Error(t, err)
	assert.Empty(t, data)
}

func TestOSEnv(t *testing.T) {
	t.Setenv("FERN_TEST_VALUE", "abc")
	assertResult(t, `(OS.env "FERN_TEST_VALUE")`, "abc")
	assertResult(t, `(OS.env "FERN_TEST_MISSING_VALUE")`, "nil")
}

func TestTimeNow(t *testing.T) {
	now, ok := evalOne(t, "(Time.now)").(*object.Number)
	require.True(t, ok)
	// Sanity window: after 2020, before 2100.
	assert.Greater(t, now.Value, 1.5e9)
	assert.Less(t, now.Value, 4.1e9)
}

func TestDBSQLite(t *testing.T) {
	ev := newEvaluator()

	handle := run(t, ev, `(def db (DB.connect "sqlite3" ":memory:")) db`)
	require.IsTypef(t, &object.Number{}, handle, "connect failed: %s", handle.Inspect())

	result := run(t, ev, `(DB.exec db "CREATE TABLE plants (id INTEGER PRIMARY KEY, name TEXT)")`)
	require.False(t, object.IsError(result), result.Inspect())

	result = run(t, ev, `(DB.exec db "INSERT INTO plants (name) VALUES (?)" "maidenhair")`)
	require.False(t, object.IsError(result), result.Inspect())
	m, ok := result.(*object.Map)
	require.True(t, ok)
	affected, _ := m.Get(object.InternSymbol("rows_affected"))
	assert.Equal(t, "1", affected.Inspect())

	rows := run(t, ev, `(DB.query db "SELECT name FROM plants ORDER BY id")`)
	require.False(t, object.IsError(rows), rows.Inspect())
	assert.Equal(t, "(#[name maidenhair])", rows.Inspect())

	run(t, ev, "(DB.close db)")
	closed := run(t, ev, `(DB.query db "SELECT 1")`)
	require.True(t, object.IsError(closed))
}

func TestDBTransactions(t *testing.T) {
	ev := newEvaluator()
	run(t, ev, `(def db (DB.connect "sqlite3" ":memory:"))`)
	run(t, ev, `(DB.exec db "CREATE TABLE t (v TEXT)")`)

	run(t, ev, "(DB.begin db)")
	run(t, ev, `(DB.exec db "INSERT INTO t (v) VALUES ('a')")`)
	run(t, ev, "(DB.rollback db)")
	assert.Equal(t, "()", run(t, ev, `(DB.query db "SELECT v FROM t")`).Inspect())

	run(t, ev, "(DB.begin db)")
	run(t, ev, `(DB.exec db "INSERT INTO t (v) VALUES ('b')")`)
	run(t, ev, "(DB.commit db)")
	assert.Equal(t, "(#[v b])", run(t, ev, `(DB.query db "SELECT v FROM t")`).Inspect())

	run(t, ev, "(DB.close db)")
}

func TestInvalidHandle(t *testing.T) {
	result := evalOne(t, `(DB.exec 999 "SELECT 1")`)
	require.True(t, object.IsError(result))
	assert.Equal(t, object.NativeError, result.(*object.Error).Kind)
}
