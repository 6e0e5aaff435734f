package worker

import (
	"cmp"
	"slices"
)

// KV is one intermediate pair produced by a mapper.
type KV[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// Group is a key with every value emitted for it, in emit order.
type Group[K cmp.Ordered, V any] struct {
	Key    K
	Values []V
}

// MrContext collects the pairs a mapper emits during one run.
type MrContext[K cmp.Ordered, V any] struct {
	kvs []KV[K, V]
}

func newMrContext[K cmp.Ordered, V any]() *MrContext[K, V] {
	return &MrContext[K, V]{}
}

// EmitIntermediate records one (key, value) pair.
func (c *MrContext[K, V]) EmitIntermediate(key K, value V) {
	c.kvs = append(c.kvs, KV[K, V]{Key: key, Value: value})
}

// Len is the number of pairs emitted so far.
func (c *MrContext[K, V]) Len() int {
	return len(c.kvs)
}

// GroupByKey stable-sorts kvs by key and collects runs of equal keys.
// Groups come back in ascending key order and values keep their relative
// input order. kvs is not modified.
func GroupByKey[K cmp.Ordered, V any](kvs []KV[K, V]) []Group[K, V] {
	sorted := slices.Clone(kvs)
	slices.SortStableFunc(sorted, func(a, b KV[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})

	var groups []Group[K, V]
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].Key == sorted[i].Key {
			j++
		}
		values := make([]V, 0, j-i)
		for k := i; k < j; k++ {
			values = append(values, sorted[k].Value)
		}
		groups = append(groups, Group[K, V]{Key: sorted[i].Key, Values: values})
		i = j
	}
	return groups
}
