// Package deferred provides an immutable, chainable query builder that
// records method calls as an ordered operation log and hands the finished
// log to a caller-supplied executor.
//
// The same fluent surface can therefore target arbitrary backing stores —
// an in-memory slice, a SQL database, an ORM, or an HTTP API — because the
// builder imposes no semantics beyond faithful, order-preserving logging.
//
//	exec := inmemory.New(records)
//	base := deferred.New(exec)
//
//	active := base.Where("status", "active").Sort("age").Slice(0, 10)
//	result, err := active.Run(ctx)
//
// # Immutability and branching
//
// Every chain call copies the receiver's log, appends one operation, and
// returns a brand-new *Collection. Branching two chains off one base is
// therefore safe: their logs never cross-contaminate.
//
//	a := base.Where("x", 1) // log: [where x 1]
//	b := base.Where("y", 2) // log: [where y 2]
//
// # Execution
//
// [Collection.Run] is the await point. It constructs a fresh [Context] from
// the final log and invokes the executor exactly once per builder instance;
// the settled value — or error — is memoized, so running the same instance
// again returns the cached outcome without re-invoking the executor. The
// builder performs no retry and no fallback: executor errors propagate
// unmodified.
//
// See the inmemory and sqlexec sub-packages for two reference executors.
package deferred
