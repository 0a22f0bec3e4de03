package deferred

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hasbyte1/go-collect/query"
)

// Collection is an immutable deferred-query builder. Chain methods append
// one [Operation] to a copy of the log and return a new instance; nothing
// happens against the backing store until [Collection.Run].
//
// A Collection with an empty log — as returned by [New] — is a reusable
// template: any number of independent chains may branch off it.
type Collection struct {
	executor   Executor
	validators query.Validators
	log        []Operation
	depth      int

	once   sync.Once
	result any
	err    error
}

// New creates the base builder around an executor. The optional validator
// map is passed through to the executor on every execution so that custom
// query operators survive the deferral.
func New(executor Executor, validators ...query.Validators) *Collection {
	c := &Collection{executor: executor}
	if len(validators) > 0 {
		c.validators = validators[0]
	}
	return c
}

// push returns a new Collection whose log is the receiver's log plus one
// operation. The receiver is never modified.
func (c *Collection) push(name string, args ...any) *Collection {
	log := make([]Operation, len(c.log), len(c.log)+1)
	copy(log, c.log)
	log = append(log, Operation{Name: name, Args: args})
	return &Collection{
		executor:   c.executor,
		validators: c.validators,
		log:        log,
		depth:      c.depth + 1,
	}
}

// Operations returns a copy of the recorded log, in chain order.
func (c *Collection) Operations() []Operation {
	out := make([]Operation, len(c.log))
	copy(out, c.log)
	return out
}

// Run executes the recorded log. The first call constructs a fresh [Context]
// and invokes the executor exactly once; the outcome — value or error — is
// memoized, and every later call on the same instance returns it unchanged
// without re-invoking the executor.
func (c *Collection) Run(ctx context.Context) (any, error) {
	c.once.Do(func() {
		ec := &Context{
			Operations: c.Operations(),
			Validators: c.validators,
			Metadata: Metadata{
				CreatedAt:      time.Now(),
				ExecutionID:    uuid.New(),
				OperationCount: len(c.log),
				ChainDepth:     c.depth,
			},
		}
		c.result, c.err = c.executor(ctx, ec)
	})
	return c.result, c.err
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain methods — each records one operation and returns a new builder.
// The builder attaches no semantics to them; names and arguments are logged
// verbatim for the executor to interpret.
// ─────────────────────────────────────────────────────────────────────────────

// Where records a filter: a specification map, a predicate, or the
// (key, value) / (key, operator, value) shorthand.
func (c *Collection) Where(args ...any) *Collection { return c.push("where", args...) }

// WhereNot records a negated filter.
func (c *Collection) WhereNot(args ...any) *Collection { return c.push("whereNot", args...) }

// Filter records a filter; interchangeable with [Collection.Where].
func (c *Collection) Filter(args ...any) *Collection { return c.push("filter", args...) }

// Not records a negated filter; interchangeable with [Collection.WhereNot].
func (c *Collection) Not(args ...any) *Collection { return c.push("not", args...) }

// Sort records an ordering by key; pass true as the second argument for
// descending order.
func (c *Collection) Sort(args ...any) *Collection { return c.push("sort", args...) }

// Reverse records an order reversal.
func (c *Collection) Reverse() *Collection { return c.push("reverse") }

// Shuffle records a request for random ordering.
func (c *Collection) Shuffle() *Collection { return c.push("shuffle") }

// Slice records an offset/length window over the result.
func (c *Collection) Slice(offset, length int) *Collection {
	return c.push("slice", offset, length)
}

// Chunk records a partition of the result into groups of size.
func (c *Collection) Chunk(size int) *Collection { return c.push("chunk", size) }

// Paginate records a page/perPage window over the result.
func (c *Collection) Paginate(page, perPage int) *Collection {
	return c.push("paginate", page, perPage)
}

// Sum records a numeric aggregation; the optional argument is a key path.
func (c *Collection) Sum(args ...any) *Collection { return c.push("sum", args...) }

// Max records a maximum aggregation; the optional argument is a key path.
func (c *Collection) Max(args ...any) *Collection { return c.push("max", args...) }

// Min records a minimum aggregation; the optional argument is a key path.
func (c *Collection) Min(args ...any) *Collection { return c.push("min", args...) }

// Count records a count of the remaining items.
func (c *Collection) Count() *Collection { return c.push("count") }

// GroupBy records a bucketing by key.
func (c *Collection) GroupBy(key string) *Collection { return c.push("groupBy", key) }

// CountBy records a count-per-key aggregation.
func (c *Collection) CountBy(key string) *Collection { return c.push("countBy", key) }

// Unique records de-duplication; the optional argument is a key path.
func (c *Collection) Unique(args ...any) *Collection { return c.push("unique", args...) }

// Random records selection of one random item.
func (c *Collection) Random() *Collection { return c.push("random") }

// Every records an all-items-match test over a specification.
func (c *Collection) Every(args ...any) *Collection { return c.push("every", args...) }

// Map records an element-wise transform; fn's type is executor-defined.
func (c *Collection) Map(fn any) *Collection { return c.push("map", fn) }

// Each records a side-effecting visit; fn's type is executor-defined.
func (c *Collection) Each(fn any) *Collection { return c.push("each", fn) }

// Forget records removal of the named fields from every item.
func (c *Collection) Forget(keys ...string) *Collection {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return c.push("forget", args...)
}

// Collect records materialisation of the current result set.
func (c *Collection) Collect() *Collection { return c.push("collect") }

// Dump records a debug print of the intermediate result.
func (c *Collection) Dump() *Collection { return c.push("dump") }

// DD records a debug print that stops the chain (dump-and-die).
func (c *Collection) DD() *Collection { return c.push("dd") }

// Stringify records serialisation of the result to a JSON string.
func (c *Collection) Stringify() *Collection { return c.push("stringify") }
