package collections

// Grouped is the insertion-ordered result of [Collection.GroupBy]: buckets
// keyed by the first-seen order of their (string-coerced) group keys.
type Grouped[T any] struct {
	keys    []string
	buckets map[string]*Collection[T]
}

// Keys returns the group keys in first-seen order.
func (g *Grouped[T]) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the bucket for key and whether it exists.
func (g *Grouped[T]) Get(key string) (*Collection[T], bool) {
	b, ok := g.buckets[key]
	return b, ok
}

// Len returns the number of buckets.
func (g *Grouped[T]) Len() int { return len(g.keys) }

// Each calls fn for every bucket, in first-seen key order.
func (g *Grouped[T]) Each(fn func(key string, bucket *Collection[T])) {
	for _, k := range g.keys {
		fn(k, g.buckets[k])
	}
}

// Tally is the insertion-ordered result of [Collection.CountBy].
type Tally struct {
	keys   []string
	counts map[string]int
}

// Keys returns the counted keys in first-seen order.
func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the count for key (zero when absent).
func (t *Tally) Get(key string) int { return t.counts[key] }

// Len returns the number of distinct keys.
func (t *Tally) Len() int { return len(t.keys) }

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Each calls fn for every key, in first-seen order.
func (t *Tally) Each(fn func(key string, count int)) {
	for _, k := range t.keys {
		fn(k, t.counts[k])
	}
}

// GroupBy buckets items by the key extracted by by (a dot-separated path,
// a callback, or nil for the item itself). Keys are coerced to strings and
// buckets preserve both item order and first-seen key order. Each bucket is
// a full Collection supporting further chaining.
func (c *Collection[T]) GroupBy(by any) *Grouped[T] {
	key := c.keySelector(by)
	g := &Grouped[T]{buckets: make(map[string]*Collection[T])}
	for i, item := range c.items {
		k := key(item, i)
		bucket, ok := g.buckets[k]
		if !ok {
			bucket = c.derive([]T{})
			g.buckets[k] = bucket
			g.keys = append(g.keys, k)
		}
		bucket.items = append(bucket.items, item)
	}
	return g
}

// CountBy buckets items exactly as [Collection.GroupBy] but returns counts
// instead of sub-collections.
func (c *Collection[T]) CountBy(by any) *Tally {
	key := c.keySelector(by)
	t := &Tally{counts: make(map[string]int)}
	for i, item := range c.items {
		k := key(item, i)
		if _, ok := t.counts[k]; !ok {
			t.keys = append(t.keys, k)
		}
		t.counts[k]++
	}
	return t
}

// KeyBy maps the extracted key to its item. When several items share a key,
// the last one wins.
func (c *Collection[T]) KeyBy(by any) map[string]T {
	key := c.keySelector(by)
	out := make(map[string]T, len(c.items))
	for i, item := range c.items {
		out[key(item, i)] = item
	}
	return out
}

// Partition splits the collection into exactly two: the first contains items
// for which fn returns true, the second the rest. Both preserve the original
// relative order.
func (c *Collection[T]) Partition(fn func(T) bool) (*Collection[T], *Collection[T]) {
	pass := make([]T, 0)
	fail := make([]T, 0)
	for _, item := range c.items {
		if fn(item) {
			pass = append(pass, item)
		} else {
			fail = append(fail, item)
		}
	}
	return c.derive(pass), c.derive(fail)
}

// Reduce folds the collection left-to-right into a single value of the same
// type T.
//
// For reductions that change the type (T → U where T ≠ U), use the
// package-level [Reduce] function.
func (c *Collection[T]) Reduce(fn func(carry, item T) T, initial T) T {
	result := initial
	for _, item := range c.items {
		result = fn(result, item)
	}
	return result
}
