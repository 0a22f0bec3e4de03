// Package sqlexec executes deferred collection chains against a SQL table by
// translating the operation log into a single SELECT statement.
//
// Only operations with a direct SQL rendering are supported: filtering,
// sorting, shuffling, windowing (slice, paginate) and the aggregates count,
// sum, min and max. Everything else fails with [ErrUnsupportedOperation] —
// chains that need the full vocabulary belong on the inmemory executor.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/hasbyte1/go-collect/deferred"
	"github.com/hasbyte1/go-collect/query"
)

var (
	// ErrUnsupportedOperation is returned when the chain contains an
	// operation that has no SQL translation.
	ErrUnsupportedOperation = errors.New("sqlexec: unsupported operation")

	// ErrBadOperand is returned when an operation's arguments cannot be
	// rendered into SQL.
	ErrBadOperand = errors.New("sqlexec: bad operand")
)

// Querier is the subset of *sql.DB used by the executor. *sql.Tx and
// *sql.Conn satisfy it as well.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// New builds an executor that runs chains against table via db.
func New(db Querier, table string) deferred.Executor {
	return func(ctx context.Context, ec *deferred.Context) (any, error) {
		stmt, aggregate, err := Translate(table, ec.Operations)
		if err != nil {
			return nil, err
		}
		sqlStr, args, err := stmt.ToSql()
		if err != nil {
			return nil, err
		}
		rows, err := db.QueryContext(ctx, sqlStr, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		if aggregate {
			return scanAggregate(rows)
		}
		return scanRecords(rows)
	}
}

// Translate renders an operation log into a squirrel SELECT builder.
// aggregate reports whether the statement projects a single numeric value
// instead of rows.
func Translate(table string, ops []deferred.Operation) (stmt sq.SelectBuilder, aggregate bool, err error) {
	stmt = sq.Select("*").From(table)

	for i, op := range ops {
		if aggregate {
			return stmt, false, fmt.Errorf("%w: %q after an aggregate", ErrUnsupportedOperation, op.Name)
		}
		switch op.Name {
		case "where", "filter":
			pred, perr := predicate(op.Args)
			if perr != nil {
				return stmt, false, perr
			}
			stmt = stmt.Where(pred)
		case "whereNot", "not":
			pred, perr := predicate(op.Args)
			if perr != nil {
				return stmt, false, perr
			}
			stmt = stmt.Where(negate{pred})
		case "sort":
			column, desc, serr := sortArgs(op.Args)
			if serr != nil {
				return stmt, false, serr
			}
			direction := " ASC"
			if desc {
				direction = " DESC"
			}
			stmt = stmt.OrderBy(column + direction)
		case "shuffle":
			stmt = stmt.OrderBy("RANDOM()")
		case "slice":
			offset, length, serr := windowArgs(op.Name, op.Args)
			if serr != nil {
				return stmt, false, serr
			}
			if offset < 0 {
				offset = 0
			}
			stmt = stmt.Offset(uint64(offset))
			if length >= 0 {
				// A negative length means "to the end": no LIMIT at all.
				stmt = stmt.Limit(uint64(length))
			}
		case "paginate":
			page, perPage, serr := windowArgs(op.Name, op.Args)
			if serr != nil {
				return stmt, false, serr
			}
			if page < 1 {
				page = 1
			}
			if perPage < 0 {
				perPage = 0
			}
			stmt = stmt.Offset(uint64((page - 1) * perPage)).Limit(uint64(perPage))
		case "count":
			stmt = stmt.RemoveColumns().Column("COUNT(*)")
			aggregate = true
		case "sum", "min", "max":
			column, aerr := aggregateColumn(op.Name, op.Args)
			if aerr != nil {
				return stmt, false, aerr
			}
			fn := map[string]string{"sum": "SUM", "min": "MIN", "max": "MAX"}[op.Name]
			stmt = stmt.RemoveColumns().Column(fmt.Sprintf("%s(%s)", fn, column))
			aggregate = true
		case "collect":
			// No SQL effect.
		default:
			return stmt, false, fmt.Errorf("%w: %q at position %d", ErrUnsupportedOperation, op.Name, i)
		}
	}
	return stmt, aggregate, nil
}

// negate wraps a Sqlizer in NOT (...).
type negate struct {
	inner sq.Sqlizer
}

func (n negate) ToSql() (string, []any, error) {
	inner, args, err := n.inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + inner + ")", args, nil
}

// predicate converts where-style arguments into a squirrel conjunction.
func predicate(args []any) (sq.Sqlizer, error) {
	spec, err := whereSpec(args)
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(spec))
	for field := range spec {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conj := sq.And{}
	for _, field := range fields {
		clause, ok := spec[field].(map[string]any)
		if !ok {
			conj = append(conj, sq.Eq{field: spec[field]})
			continue
		}
		operators := make([]string, 0, len(clause))
		for op := range clause {
			operators = append(operators, op)
		}
		sort.Strings(operators)
		for _, op := range operators {
			part, err := clausePart(field, op, clause[op])
			if err != nil {
				return nil, err
			}
			conj = append(conj, part)
		}
	}
	return conj, nil
}

func clausePart(field, op string, operand any) (sq.Sqlizer, error) {
	switch op {
	case "$eq":
		return sq.Eq{field: operand}, nil
	case "$gt":
		return sq.Gt{field: operand}, nil
	case "$gte":
		return sq.GtOrEq{field: operand}, nil
	case "$lt":
		return sq.Lt{field: operand}, nil
	case "$lte":
		return sq.LtOrEq{field: operand}, nil
	case "$in":
		return sq.Eq{field: operand}, nil
	case "$contains", "$includes":
		return sq.Like{field: fmt.Sprintf("%%%v%%", operand)}, nil
	case "$not":
		sub, ok := operand.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: $not wants an operator object, got %T", ErrBadOperand, operand)
		}
		inner, err := predicate([]any{map[string]any{field: sub}})
		if err != nil {
			return nil, err
		}
		return negate{inner}, nil
	default:
		return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedOperation, op)
	}
}

// whereSpec turns where-style arguments into the canonical map form.
func whereSpec(args []any) (map[string]any, error) {
	if len(args) == 1 {
		if spec, ok := args[0].(map[string]any); ok {
			return spec, nil
		}
		return nil, fmt.Errorf("%w: want a spec map or (key, value), got %T", ErrBadOperand, args[0])
	}
	if len(args) >= 2 {
		key, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: key must be a string, got %T", ErrBadOperand, args[0])
		}
		return query.Normalize(key, args[1:]...)
	}
	return nil, fmt.Errorf("%w: empty where", ErrBadOperand)
}

func sortArgs(args []any) (string, bool, error) {
	if len(args) == 0 {
		return "", false, fmt.Errorf("%w: sort wants a column name", ErrBadOperand)
	}
	column, ok := args[0].(string)
	if !ok {
		return "", false, fmt.Errorf("%w: sort column must be a string, got %T", ErrBadOperand, args[0])
	}
	desc := false
	if len(args) > 1 {
		switch d := args[1].(type) {
		case bool:
			desc = d
		case string:
			desc = d == "desc"
		default:
			return "", false, fmt.Errorf("%w: sort direction must be bool or string, got %T", ErrBadOperand, args[1])
		}
	}
	return column, desc, nil
}

func windowArgs(name string, args []any) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: %s wants two arguments", ErrBadOperand, name)
	}
	a, aok := query.Number(args[0])
	b, bok := query.Number(args[1])
	if !aok || !bok {
		return 0, 0, fmt.Errorf("%w: %s wants numeric arguments", ErrBadOperand, name)
	}
	return int(a), int(b), nil
}

func aggregateColumn(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s wants a column name", ErrBadOperand, name)
	}
	column, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s column must be a string, got %T", ErrBadOperand, name, args[0])
	}
	return column, nil
}

func scanAggregate(rows *sql.Rows) (any, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}
	var v sql.NullFloat64
	if err := rows.Scan(&v); err != nil {
		return nil, err
	}
	if !v.Valid {
		return nil, rows.Err()
	}
	return v.Float64, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
