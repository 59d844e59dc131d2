package stdlib

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"fern/internal/object"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Connection and transaction registries keyed by handle. Evaluation is
// single threaded, so plain maps suffice.
var (
	dbConnections  = map[int64]*sql.DB{}
	dbTransactions = map[int64]*sql.Tx{}
)

func installDB(env *object.Environment) {
	defineModule(env, "DB", func(m *moduleMap) {
		m.fn("connect", dbConnect)
		m.fn("query", dbQuery)
		m.fn("exec", dbExec)
		m.fn("close", dbClose)
		m.fn("begin", dbBegin)
		m.fn("commit", dbCommit)
		m.fn("rollback", dbRollback)
	})
}

// connect driver connStr returns a numeric connection handle.
func dbConnect(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("connect", 2, args); err != nil {
		return err
	}
	driver, err := unpackString("connect", args[0])
	if err != nil {
		return err
	}
	connStr, err := unpackString("connect", args[1])
	if err != nil {
		return err
	}

	db, derr := sql.Open(driver, connStr)
	if derr != nil {
		return object.NewError(object.NativeError, "failed to open connection: %v", derr)
	}
	if derr := db.Ping(); derr != nil {
		db.Close()
		return object.NewError(object.NativeError, "failed to ping database: %v", derr)
	}

	id := ctx.NextHandleID()
	dbConnections[id] = db
	slog.Debug("database connection opened", slog.String("driver", driver), slog.Int64("handle", id))
	return &object.Number{Value: float64(id)}
}

func dbQuery(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) < 2 {
		return object.NewError(object.ArityError, "query expects at least 2 arguments: connection, sql")
	}
	id, db, err := connectionArg("query", args[0])
	if err != nil {
		return err
	}
	query, err := unpackString("query", args[1])
	if err != nil {
		return err
	}
	params := queryParams(args[2:])

	var rows *sql.Rows
	var qerr error
	if tx, ok := dbTransactions[id]; ok {
		rows, qerr = tx.Query(query, params...)
	} else {
		rows, qerr = db.Query(query, params...)
	}
	if qerr != nil {
		return object.NewError(object.NativeError, "query failed: %v", qerr)
	}
	defer rows.Close()

	return renderRows(rows)
}

func dbExec(ctx object.CallContext, args ...object.Object) object.Object {
	if len(args) < 2 {
		return object.NewError(object.ArityError, "exec expects at least 2 arguments: connection, sql")
	}
	id, db, err := connectionArg("exec", args[0])
	if err != nil {
		return err
	}
	query, err := unpackString("exec", args[1])
	if err != nil {
		return err
	}
	params := queryParams(args[2:])

	var result sql.Result
	var xerr error
	if tx, ok := dbTransactions[id]; ok {
		result, xerr = tx.Exec(query, params...)
	} else {
		result, xerr = db.Exec(query, params...)
	}
	if xerr != nil {
		return object.NewError(object.NativeError, "exec failed: %v", xerr)
	}

	affected, _ := result.RowsAffected()
	lastID, _ := result.LastInsertId()

	out := &object.Map{}
	out.Put(object.InternSymbol("rows_affected"), &object.Number{Value: float64(affected)})
	out.Put(object.InternSymbol("last_insert_id"), &object.Number{Value: float64(lastID)})
	return out
}

func dbClose(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("close", 1, args); err != nil {
		return err
	}
	handle, err := unpackNumber("close", args[0])
	if err != nil {
		return err
	}
	id := int64(handle)
	if tx, ok := dbTransactions[id]; ok {
		tx.Rollback()
		delete(dbTransactions, id)
	}
	if db, ok := dbConnections[id]; ok {
		db.Close()
		delete(dbConnections, id)
	}
	return object.NIL
}

func dbBegin(ctx object.CallContext, args ...object.Object) object.Object {
	if err := arity("begin", 1, args); err != nil {
		return err
	}
	id, db, oerr := connectionArg("begin", args[0])
	if oerr != nil {
		return oerr
	}
	if _, open := dbTransactions[id]; open {
		return object.NewError(object.NativeError, "transaction already open on handle %d", id)
	}
	tx, terr := db.Begin()
	if terr != nil {
		return object.NewError(object.NativeError, "failed to begin transaction: %v", terr)
	}
	dbTransactions[id] = tx
	return args[0]
}

func dbCommit(ctx object.CallContext, args ...object.Object) object.Object {
	return endTransaction("commit", args, func(tx *sql.Tx) error { return tx.Commit() })
}

func dbRollback(ctx object.CallContext, args ...object.Object) object.Object {
	return endTransaction("rollback", args, func(tx *sql.Tx) error { return tx.Rollback() })
}

func endTransaction(name string, args []object.Object, finish func(*sql.Tx) error) object.Object {
	if err := arity(name, 1, args); err != nil {
		return err
	}
	handle, err := unpackNumber(name, args[0])
	if err != nil {
		return err
	}
	id := int64(handle)
	tx, ok := dbTransactions[id]
	if !ok {
		return object.NewError(object.NativeError, "no open transaction on handle %d", id)
	}
	if terr := finish(tx); terr != nil {
		return object.NewError(object.NativeError, "failed to %s transaction: %v", name, terr)
	}
	delete(dbTransactions, id)
	return args[0]
}

func connectionArg(name string, arg object.Object) (int64, *sql.DB, object.Object) {
	handle, err := unpackNumber(name, arg)
	if err != nil {
		return 0, nil, err
	}
	id := int64(handle)
	db, ok := dbConnections[id]
	if !ok {
		return 0, nil, object.NewError(object.NativeError, "invalid connection handle %d", id)
	}
	return id, db, nil
}

func queryParams(args []object.Object) []interface{} {
	params := make([]interface{}, len(args))
	for i, arg := range args {
		switch arg := arg.(type) {
		case *object.Number:
			params[i] = arg.Value
		case *object.Boolean:
			params[i] = arg.Value
		case *object.Nil:
			params[i] = nil
		default:
			params[i] = arg.Inspect()
		}
	}
	return params
}

func renderRows(rows *sql.Rows) object.Object {
	columns, _ := rows.Columns()
	types, _ := rows.ColumnTypes()

	var out []object.Object
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return object.NewError(object.NativeError, "scan failed: %v", err)
		}

		row := &object.Map{}
		for i, col := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			row.Put(&object.String{Value: col}, columnValue(values[i], typeName))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return object.NewError(object.NativeError, "row iteration failed: %v", err)
	}
	return &object.List{Elements: out}
}

func columnValue(v interface{}, dbType string) object.Object {
	if v == nil {
		return object.NIL
	}
	switch x := v.(type) {
	case int64:
		return &object.Number{Value: float64(x)}
	case float64:
		return &object.Number{Value: x}
	case []byte:
		// Drivers hand text columns back as byte slices.
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NativeBoolToBooleanObject(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	}
	return &object.String{Value: fmt.Sprintf("%v", v)}
}
