package stdlib

import (
	"math"
	"math/rand"

	"fern/internal/object"
)

func installMath(env *object.Environment) {
	defineModule(env, "Math", func(m *moduleMap) {
		m.val("PI", &object.Number{Value: math.Pi})
		m.val("E", &object.Number{Value: math.E})
		m.val("TAU", &object.Number{Value: 2 * math.Pi})
		m.val("INF", &object.Number{Value: math.Inf(1)})
		m.val("NAN", &object.Number{Value: math.NaN()})

		m.fn("abs", unaryMath("abs", math.Abs))
		m.fn("ceil", unaryMath("ceil", math.Ceil))
		m.fn("floor", unaryMath("floor", math.Floor))
		m.fn("round", unaryMath("round", math.Round))
		m.fn("sin", unaryMath("sin", math.Sin))
		m.fn("cos", unaryMath("cos", math.Cos))
		m.fn("tan", unaryMath("tan", math.Tan))
		m.fn("sqrt", unaryMath("sqrt", math.Sqrt))
		m.fn("ln", unaryMath("ln", math.Log))
		m.fn("log10", unaryMath("log10", math.Log10))
		m.fn("exp", unaryMath("exp", math.Exp))
		m.fn("to_radians", unaryMath("to_radians", func(deg float64) float64 { return deg * math.Pi / 180 }))
		m.fn("to_degrees", unaryMath("to_degrees", func(rad float64) float64 { return rad * 180 / math.Pi }))
		m.fn("sign", unaryMath("sign", func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return 0
		}))

		m.fn("pow", binaryMath("pow", math.Pow))
		m.fn("min", binaryMath("min", math.Min))
		m.fn("max", binaryMath("max", math.Max))

		// log x base
		m.fn("log", binaryMath("log", func(x, base float64) float64 {
			return math.Log(x) / math.Log(base)
		}))

		m.fn("clamp", mathClamp)
		m.fn("rand", mathRand)
		m.fn("rand_int", mathRandInt)
	})
}

func unaryMath(name string, fn func(float64) float64) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 1, args); err != nil {
			return err
		}
		x, err := unpackNumber(name, args[0])
		if err != nil {
			return err
		}
		return &object.Number{Value: fn(x)}
	}
}

func binaryMath(name string, fn func(a, b float64) float64) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 2, args); err != nil {
			return err
		}
		a, err := unpackNumber(name, args[0])
		if err != nil {
			return err
		}
		b, err := unpackNumber(name, args[1])
		if err != nil {
			return err
		}
		return &object.Number{Value: fn(a, b)}
	}
}

func mathClamp(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("clamp", 3, args); err != nil {
		return err
	}
	nums := make([]float64, 3)
	for i, arg := range args {
		n, err := unpackNumber("clamp", arg)
		if err != nil {
			return err
		}
		nums[i] = n
	}
	return &object.Number{Value: math.Min(math.Max(nums[0], nums[1]), nums[2])}
}

func mathRand(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("rand", 0, args); err != nil {
		return err
	}
	return &object.Number{Value: rand.Float64()}
}

// rand_int lo hi picks uniformly from [lo, hi).
func mathRandInt(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("rand_int", 2, args); err != nil {
		return err
	}
	lo, err := unpackNumber("rand_int", args[0])
	if err != nil {
		return err
	}
	hi, err := unpackNumber("rand_int", args[1])
	if err != nil {
		return err
	}
	if hi <= lo {
		return object.NewError(object.NativeError, "rand_int needs an ascending range, got %g..%g", lo, hi)
	}
	return &object.Number{Value: float64(int64(lo) + rand.Int63n(int64(hi)-int64(lo)))}
}
