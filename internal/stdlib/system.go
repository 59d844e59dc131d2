package stdlib

import (
	"os"
	"time"

	"fern/internal/object"
)

func installTime(env *object.Environment) {
	defineModule(env, "Time", func(m *moduleMap) {
		m.fn("now", timeNow)
		m.fn("sleep", timeSleep)
	})
}

// now returns seconds since the Unix epoch with sub-second precision.
func timeNow(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("now", 0, args); err != nil {
		return err
	}
	return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
}

func timeSleep(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("sleep", 1, args); err != nil {
		return err
	}
	secs, err := unpackNumber("sleep", args[0])
	if err != nil {
		return err
	}
	if secs > 0 {
		time.Sleep(time.Duration(secs * float64(time.Second)))
	}
	return object.NIL
}

func installOS(env *object.Environment) {
	defineModule(env, "OS", func(m *moduleMap) {
		m.fn("args", osArgs)
		m.fn("env", osEnv)
		m.fn("exit", osExit)
	})
}

func osArgs(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("args", 0, args); err != nil {
		return err
	}
	elements := make([]object.Object, len(os.Args))
	for i, arg := range os.Args {
		elements[i] = &object.String{Value: arg}
	}
	return &object.List{Elements: elements}
}

func osEnv(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("env", 1, args); err != nil {
		return err
	}
	name, err := unpackString("env", args[0])
	if err != nil {
		return err
	}
	val, ok := os.LookupEnv(name)
	if !ok {
		return object.NIL
	}
	return &object.String{Value: val}
}

func osExit(ctx object.CallContext, args ...object.Object) object.Object {
	code := 0
	if len(args) == 1 {
		n, err := unpackNumber("exit", args[0])
		if err != nil {
			return err
		}
		code = int(n)
	} else if len(args) > 1 {
		return object.NewError(object.ArityError, "exit expects at most 1 argument, got %d", len(args))
	}
	os.Exit(code)
	return object.NIL
}
