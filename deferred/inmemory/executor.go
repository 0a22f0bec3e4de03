// Package inmemory provides the reference executor for deferred collections:
// it interprets the recorded operation log directly over an in-memory slice
// of map-shaped records, honoring chain order.
//
// It doubles as the executable definition of the operation vocabulary — a
// backend-specific executor should agree with this one wherever it supports
// an operation at all.
package inmemory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hasbyte1/go-collect/collections"
	"github.com/hasbyte1/go-collect/deferred"
	"github.com/hasbyte1/go-collect/query"
)

// Record is the item shape this executor operates on.
type Record = map[string]any

var (
	// ErrUnknownOperation is returned for an operation name this executor
	// does not interpret.
	ErrUnknownOperation = errors.New("inmemory: unknown operation")

	// ErrTrailingOperations is returned when a terminal operation (sum,
	// groupBy, stringify, …) is followed by further chain calls.
	ErrTrailingOperations = errors.New("inmemory: operations after a terminal operation")
)

// New builds an executor over a snapshot of items. Records are cloned at
// construction and again per execution, so neither later mutation of the
// source nor a mutating operation in one chain (forget, sort, …) can leak
// into the caller's data or into other executions.
func New(items []Record) deferred.Executor {
	snapshot := cloneRecords(items)

	return func(ctx context.Context, ec *deferred.Context) (any, error) {
		run := &interpretation{
			c: collections.From(cloneRecords(snapshot)).WithValidators(ec.Validators),
		}
		for i, op := range ec.Operations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if run.done {
				return nil, fmt.Errorf("%w: %q at position %d", ErrTrailingOperations, op.Name, i)
			}
			if err := run.apply(op); err != nil {
				return nil, err
			}
		}
		if run.done {
			return run.result, nil
		}
		return run.c.All(), nil
	}
}

// cloneRecords copies records deeply enough that dot-path mutation (forget
// on "meta.secret") cannot reach the originals: nested maps and slices are
// cloned, leaf values are shared.
func cloneRecords(items []Record) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = cloneRecord(item)
	}
	return out
}

func cloneRecord(item Record) Record {
	if item == nil {
		return nil
	}
	out := make(Record, len(item))
	for k, v := range item {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return cloneRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// interpretation is the state threaded through one execution: the working
// collection, and — once a terminal operation ran — the final result.
type interpretation struct {
	c      *collections.Collection[Record]
	result any
	done   bool
}

func (r *interpretation) finish(result any) {
	r.result = result
	r.done = true
}

func (r *interpretation) apply(op deferred.Operation) error {
	switch op.Name {
	case "where", "filter":
		out, err := r.c.Where(op.Args...)
		if err != nil {
			return err
		}
		r.c = out
	case "whereNot", "not":
		out, err := r.c.WhereNot(op.Args...)
		if err != nil {
			return err
		}
		r.c = out
	case "sort":
		by, desc, err := sortArgs(op.Args)
		if err != nil {
			return err
		}
		r.c.Sort(by, desc)
	case "reverse":
		r.c = r.c.Reverse()
	case "shuffle":
		r.c.Shuffle()
	case "slice":
		offset, length, err := twoInts(op.Name, op.Args)
		if err != nil {
			return err
		}
		r.c = r.c.Slice(offset, length)
	case "paginate":
		page, perPage, err := twoInts(op.Name, op.Args)
		if err != nil {
			return err
		}
		if page < 1 {
			page = 1
		}
		r.c = r.c.Slice((page-1)*perPage, perPage)
	case "chunk":
		size, err := oneInt(op.Name, op.Args)
		if err != nil {
			return err
		}
		chunks := r.c.Chunk(size)
		out := make([][]Record, len(chunks))
		for i, chunk := range chunks {
			out[i] = chunk.All()
		}
		r.finish(out)
	case "unique":
		r.c = r.c.Unique(optionalKey(op.Args))
	case "forget":
		keys := make([]string, 0, len(op.Args))
		for _, a := range op.Args {
			if s, ok := a.(string); ok {
				keys = append(keys, s)
			}
		}
		r.c.Forget(keys...)
	case "map":
		return r.applyMap(op)
	case "each":
		if len(op.Args) != 1 {
			return fmt.Errorf("inmemory: each expects one argument")
		}
		fn, ok := op.Args[0].(func(Record, int))
		if !ok {
			return fmt.Errorf("inmemory: each expects func(Record, int), got %T", op.Args[0])
		}
		r.c.Each(fn)
	case "collect":
		// Materialisation point; the working collection already is one.
	case "dump":
		r.c.Dump()
	case "dd":
		r.c.Dump()
		r.finish(r.c.All())
	case "count":
		r.finish(r.c.Count())
	case "sum":
		r.finish(r.c.Sum(op.Args...))
	case "max":
		if v, ok := r.c.Max(op.Args...); ok {
			r.finish(v)
		} else {
			r.finish(nil)
		}
	case "min":
		if v, ok := r.c.Min(op.Args...); ok {
			r.finish(v)
		} else {
			r.finish(nil)
		}
	case "groupBy":
		key := optionalKey(op.Args)
		out := make(map[string][]Record)
		r.c.GroupBy(key).Each(func(k string, bucket *collections.Collection[Record]) {
			out[k] = bucket.All()
		})
		r.finish(out)
	case "countBy":
		out := make(map[string]int)
		r.c.CountBy(optionalKey(op.Args)).Each(func(k string, n int) {
			out[k] = n
		})
		r.finish(out)
	case "random":
		if item, ok := r.c.Random(); ok {
			r.finish(item)
		} else {
			r.finish(nil)
		}
	case "every":
		probe, err := r.c.Where(op.Args...)
		if err != nil {
			return err
		}
		r.finish(probe.Count() == r.c.Count())
	case "stringify":
		b, err := json.Marshal(r.c.All())
		if err != nil {
			return err
		}
		r.finish(string(b))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op.Name)
	}
	return nil
}

func (r *interpretation) applyMap(op deferred.Operation) error {
	if len(op.Args) != 1 {
		return fmt.Errorf("inmemory: map expects one argument")
	}
	fn, ok := op.Args[0].(func(Record, int) any)
	if !ok {
		return fmt.Errorf("inmemory: map expects func(Record, int) any, got %T", op.Args[0])
	}
	mapped := r.c.Map(fn)

	// When every transformed value is still a record, the chain continues;
	// otherwise the mapped values are the final result.
	records := make([]Record, 0, mapped.Count())
	allRecords := true
	mapped.Each(func(v any, _ int) {
		if rec, ok := v.(Record); ok {
			records = append(records, rec)
		} else {
			allRecords = false
		}
	})
	if allRecords {
		r.c = r.c.Collect(records)
		return nil
	}
	r.finish(mapped.All())
	return nil
}

// sortArgs extracts (key, desc) from a sort operation's arguments.
func sortArgs(args []any) (any, bool, error) {
	var by any
	desc := false
	if len(args) > 0 {
		by = args[0]
	}
	if len(args) > 1 {
		switch d := args[1].(type) {
		case bool:
			desc = d
		case string:
			desc = d == "desc"
		default:
			return nil, false, fmt.Errorf("inmemory: sort direction must be bool or string, got %T", args[1])
		}
	}
	return by, desc, nil
}

func optionalKey(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func oneInt(name string, args []any) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("inmemory: %s expects one argument", name)
	}
	return toInt(name, args[0])
}

func twoInts(name string, args []any) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("inmemory: %s expects two arguments", name)
	}
	a, err := toInt(name, args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := toInt(name, args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func toInt(name string, v any) (int, error) {
	f, ok := query.Number(v)
	if !ok {
		return 0, fmt.Errorf("inmemory: %s expects a numeric argument, got %T", name, v)
	}
	return int(f), nil
}
