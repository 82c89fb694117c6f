package repository

import (
	"iter"
	"log/slog"

	"github.com/joshuapare/appxkit/pkg/reg"
)

// Iter is a forward-only cursor over the children of one key. Each Next
// performs one enumeration call. An Iter is single-use and not safe for
// concurrent use.
//
//	it := repo.Packages()
//	defer it.Close()
//	for it.Next() {
//		fmt.Println(it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
//
// The sequence stops at the first enumeration error, which Err then
// reports. Running out of children is not an error.
type Iter[T any] struct {
	key   *reg.Key
	index uint32
	buf   reg.NameBuffer
	wrap  func([]uint16) T
	cur   T
	err   error
	log   *slog.Logger
	what  string
}

func newIter[T any](key *reg.Key, wrap func([]uint16) T, log *slog.Logger, what string) *Iter[T] {
	return &Iter[T]{key: key, wrap: wrap, log: log, what: what}
}

// failedIter is exhausted from the start and reports err.
func failedIter[T any](err error) *Iter[T] {
	return &Iter[T]{err: err}
}

// Next advances to the next child. It returns false once the children are
// exhausted or an error occurred.
func (it *Iter[T]) Next() bool {
	if it.key == nil {
		return false
	}
	name, ok, err := it.key.EnumKey(it.index, &it.buf)
	switch {
	case err != nil:
		it.err = err
		it.log.Debug("enumeration stopped", "what", it.what, "index", it.index, "error", err)
		it.finish()
		return false
	case !ok:
		it.log.Debug("enumeration done", "what", it.what, "count", it.index)
		it.finish()
		return false
	}
	it.index++
	it.cur = it.wrap(name)
	return true
}

// Value returns the current element. Elements own their storage.
func (it *Iter[T]) Value() T { return it.cur }

// Err returns the error that stopped the sequence, if any.
func (it *Iter[T]) Err() error { return it.err }

// Close releases the underlying key. It is safe to call more than once.
func (it *Iter[T]) Close() { it.finish() }

// All adapts the cursor to a range-over-func sequence. The key is released
// when the loop ends, early or not; check Err afterwards.
func (it *Iter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer it.Close()
		for it.Next() {
			if !yield(it.cur) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice.
func (it *Iter[T]) Collect() ([]T, error) {
	var out []T
	for v := range it.All() {
		out = append(out, v)
	}
	return out, it.err
}

func (it *Iter[T]) finish() {
	if it.key != nil {
		it.key.Close()
		it.key = nil
	}
	var zero T
	it.cur = zero
}
