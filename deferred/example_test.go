package deferred_test

import (
	"context"
	"fmt"

	"github.com/hasbyte1/go-collect/deferred"
	"github.com/hasbyte1/go-collect/deferred/inmemory"
)

func ExampleCollection_Run() {
	exec := inmemory.New([]inmemory.Record{
		{"id": 1, "status": "active"},
		{"id": 2, "status": "inactive"},
		{"id": 3, "status": "active"},
	})

	active := deferred.New(exec).Where("status", "active")
	out, _ := active.Run(context.Background())
	for _, r := range out.([]inmemory.Record) {
		fmt.Println(r["id"])
	}
	// Output:
	// 1
	// 3
}

func ExampleCollection_branching() {
	exec := inmemory.New([]inmemory.Record{
		{"id": 1, "score": 10},
		{"id": 2, "score": 30},
	})

	base := deferred.New(exec)
	high := base.Where("score", ">=", 20)
	total := base.Sum("score")

	fmt.Println(len(base.Operations()), len(high.Operations()), len(total.Operations()))
	// Output: 0 1 1
}
