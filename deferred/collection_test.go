package deferred_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hasbyte1/go-collect/deferred"
	"github.com/hasbyte1/go-collect/query"
)

// recordingExecutor captures every Context it receives and returns a fixed
// value.
func recordingExecutor(result any) (deferred.Executor, *[]*deferred.Context) {
	var mu sync.Mutex
	got := []*deferred.Context{}
	exec := func(_ context.Context, ec *deferred.Context) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ec)
		return result, nil
	}
	return exec, &got
}

func opNames(ops []deferred.Operation) []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

func TestChainRecordsOperationsInOrder(t *testing.T) {
	exec, calls := recordingExecutor(nil)
	c := deferred.New(exec).
		Where("status", "active").
		Sort("age", true).
		Slice(0, 10).
		Sum("salary")

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("executor invoked %d times; want 1", len(*calls))
	}
	want := []deferred.Operation{
		{Name: "where", Args: []any{"status", "active"}},
		{Name: "sort", Args: []any{"age", true}},
		{Name: "slice", Args: []any{0, 10}},
		{Name: "sum", Args: []any{"salary"}},
	}
	if diff := cmp.Diff(want, (*calls)[0].Operations); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestBranchIsolation(t *testing.T) {
	exec, calls := recordingExecutor(nil)
	base := deferred.New(exec)

	a := base.Where("x", 1)
	b := base.Where("y", 2)

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run a error: %v", err)
	}
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run b error: %v", err)
	}

	wantA := []deferred.Operation{{Name: "where", Args: []any{"x", 1}}}
	wantB := []deferred.Operation{{Name: "where", Args: []any{"y", 2}}}
	if diff := cmp.Diff(wantA, (*calls)[0].Operations); diff != "" {
		t.Fatalf("branch a operations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantB, (*calls)[1].Operations); diff != "" {
		t.Fatalf("branch b operations (-want +got):\n%s", diff)
	}
	if len(base.Operations()) != 0 {
		t.Fatal("base log was mutated by branching")
	}
}

func TestChainDoesNotMutateReceiver(t *testing.T) {
	exec, _ := recordingExecutor(nil)
	first := deferred.New(exec).Where("a", 1)
	second := first.Where("b", 2)

	if got := opNames(first.Operations()); len(got) != 1 || got[0] != "where" {
		t.Fatalf("first log = %v; want [where]", got)
	}
	if got := opNames(second.Operations()); len(got) != 2 {
		t.Fatalf("second log = %v; want two operations", got)
	}
}

func TestRunInvokesExecutorExactlyOnce(t *testing.T) {
	exec, calls := recordingExecutor("answer")
	c := deferred.New(exec).Where("x", 1)

	v1, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	v2, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if v1 != "answer" || v2 != "answer" {
		t.Fatalf("Run values = %v, %v; want answer, answer", v1, v2)
	}
	if len(*calls) != 1 {
		t.Fatalf("executor invoked %d times; want 1", len(*calls))
	}
}

func TestRunMemoizesRejection(t *testing.T) {
	boom := errors.New("backend exploded")
	invocations := 0
	exec := func(context.Context, *deferred.Context) (any, error) {
		invocations++
		return nil, boom
	}
	c := deferred.New(exec).Where("x", 1)

	if _, err := c.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("first Run err = %v; want original error", err)
	}
	if _, err := c.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("second Run err = %v; want original error", err)
	}
	if invocations != 1 {
		t.Fatalf("executor invoked %d times; want 1", invocations)
	}
}

func TestMetadata(t *testing.T) {
	exec, calls := recordingExecutor(nil)
	before := time.Now()
	c := deferred.New(exec).Where("x", 1).Sort("x").Slice(0, 5)
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	meta := (*calls)[0].Metadata
	if meta.OperationCount != 3 {
		t.Fatalf("OperationCount = %d; want 3", meta.OperationCount)
	}
	if meta.ChainDepth != 3 {
		t.Fatalf("ChainDepth = %d; want 3", meta.ChainDepth)
	}
	if meta.CreatedAt.Before(before) {
		t.Fatal("CreatedAt predates execution")
	}
	if meta.ExecutionID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("ExecutionID was not assigned")
	}
}

func TestValidatorsReachTheExecutor(t *testing.T) {
	exec, calls := recordingExecutor(nil)
	validators := query.Validators{
		"$even": func(resolved, _ any) bool {
			n, ok := resolved.(int)
			return ok && n%2 == 0
		},
	}
	c := deferred.New(exec, validators).Where("n", map[string]any{"$even": true})
	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, ok := (*calls)[0].Validators["$even"]; !ok {
		t.Fatal("validators were not forwarded to the executor")
	}
}

func TestConcurrentBranchesShareNoState(t *testing.T) {
	exec, calls := recordingExecutor(nil)
	base := deferred.New(exec)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			branch := base.Where("n", i)
			if _, err := branch.Run(context.Background()); err != nil {
				t.Errorf("branch %d Run error: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if len(*calls) != 16 {
		t.Fatalf("executor invoked %d times; want 16", len(*calls))
	}
	for _, ec := range *calls {
		if len(ec.Operations) != 1 {
			t.Fatalf("branch log length = %d; want 1", len(ec.Operations))
		}
	}
}
