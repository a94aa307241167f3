package optimize

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Taboo is a set that forgets its oldest element once it holds more
// than a fixed number of elements.
type Taboo[T comparable] struct {
	set   mapset.Set[T]
	order []T
	limit int
}

func NewTaboo[T comparable](limit int) *Taboo[T] {
	return &Taboo[T]{set: mapset.NewThreadUnsafeSet[T](), limit: limit}
}

// Add inserts v and reports whether an older element was evicted.
func (t *Taboo[T]) Add(v T) bool {
	t.order = append(t.order, v)
	t.set.Add(v)
	if t.set.Cardinality() <= t.limit {
		return false
	}
	oldest := t.order[0]
	t.order = t.order[1:]
	t.set.Remove(oldest)
	return true
}

func (t *Taboo[T]) Contains(v T) bool { return t.set.Contains(v) }
func (t *Taboo[T]) Len() int { return t.set.Cardinality() }
