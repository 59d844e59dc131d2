package stdlib

import (
	"bufio"
	"os"
	"strings"

	"fern/internal/object"
)

var stdinReader = bufio.NewReader(os.Stdin)

func installIO(env *object.Environment) {
	defineModule(env, "IO", func(m *moduleMap) {
		m.fn("read_file", ioReadFile)
		m.fn("write_file", ioWriteFile)
		m.fn("append_file", ioAppendFile)
		m.fn("read_line", ioReadLine)
		m.fn("exists", ioExists)
		m.fn("remove_file", ioRemoveFile)
		m.fn("is_dir", ioStatPred("is_dir", func(info os.FileInfo) bool { return info.IsDir() }))
		m.fn("is_file", ioStatPred("is_file", func(info os.FileInfo) bool { return info.Mode().IsRegular() }))
	})
}

func ioReadFile(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("read_file", 1, args); err != nil {
		return err
	}
	path, err := unpackString("read_file", args[0])
	if err != nil {
		return err
	}
	data, ferr := os.ReadFile(path)
	if ferr != nil {
		return object.NewError(object.NativeError, "read_file: %v", ferr)
	}
	return &object.String{Value: string(data)}
}

func ioWriteFile(ctx object.CallContext, args ...object.Object) object.Object {
	return writeFile("write_file", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, args)
}

func ioAppendFile(ctx object.CallContext, args ...object.Object) object.Object {
	return writeFile("append_file", os.O_WRONLY|os.O_CREATE|os.O_APPEND, args)
}

func writeFile(name string, flags int, args []object.Object) object.Object {
	if err := arity(name, 2, args); err != nil {
		return err
	}
	path, err := unpackString(name, args[0])
	if err != nil {
		return err
	}
	content, err := unpackString(name, args[1])
	if err != nil {
		return err
	}

	f, ferr := os.OpenFile(path, flags, 0o644)
	if ferr != nil {
		return object.NewError(object.NativeError, "%s: %v", name, ferr)
	}
	defer f.Close()
	if _, ferr := f.WriteString(content); ferr != nil {
		return object.NewError(object.NativeError, "%s: %v", name, ferr)
	}
	return object.NIL
}

// read_line blocks on stdin and returns the line without its terminator,
// or nil at end of input.
func ioReadLine(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("read_line", 0, args); err != nil {
		return err
	}
	line, ferr := stdinReader.ReadString('\n')
	if ferr != nil && line == "" {
		return object.NIL
	}
	return &object.String{Value: strings.TrimRight(line, "\r\n")}
}

func ioExists(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("exists", 1, args); err != nil {
		return err
	}
	path, err := unpackString("exists", args[0])
	if err != nil {
		return err
	}
	_, ferr := os.Stat(path)
	return object.NativeBoolToBooleanObject(ferr == nil)
}

func ioRemoveFile(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("remove_file", 1, args); err != nil {
		return err
	}
	path, err := unpackString("remove_file", args[0])
	if err != nil {
		return err
	}
	if ferr := os.Remove(path); ferr != nil {
		return object.NewError(object.NativeError, "remove_file: %v", ferr)
	}
	return object.NIL
}

func ioStatPred(name string, pred func(os.FileInfo) bool) object.BuiltinFunction {
	return func(ctx object.CallContext, args ...object.Object) object.Object {
		if err := arity(name, 1, args); err != nil {
			return err
		}
		path, err := unpackString(name, args[0])
		if err != nil {
			return err
		}
		info, ferr := os.Stat(path)
		if ferr != nil {
			return object.FALSE
		}
		return object.NativeBoolToBooleanObject(pred(info))
	}
}
