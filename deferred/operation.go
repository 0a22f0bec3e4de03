package deferred

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hasbyte1/go-collect/query"
)

// Operation is one recorded chain call: the method name plus its arguments,
// exactly as given.
type Operation struct {
	Name string
	Args []any
}

// Metadata describes one execution, constructed fresh at the moment Run is
// first called on a builder instance.
type Metadata struct {
	CreatedAt      time.Time
	ExecutionID    uuid.UUID
	OperationCount int
	ChainDepth     int
}

// Context is everything an executor receives: the final operation log in
// chain order, the validator map extending the operator vocabulary, and
// execution metadata.
type Context struct {
	Operations []Operation
	Validators query.Validators
	Metadata   Metadata
}

// Executor interprets a recorded operation log against some backing data
// source. It must honor the order of ctx.Operations to reproduce chain
// semantics (a where before a sort filters before ordering). Whatever it
// returns — rows, a scalar, anything — becomes the settled value of the
// builder that invoked it.
type Executor func(ctx context.Context, ec *Context) (any, error)
