package store

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry maps output paths to final asset bytes for one build pass.
// It is safe for concurrent Put from many loading assets.
type Registry struct {
	entries sync.Map
	count   atomic.Int64
	sealed  atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Put stores data under path. A second Put for the same path overwrites the
// first and reports replaced.
func (r *Registry) Put(path string, data []byte) (replaced bool, err error) {
	if r.sealed.Load() {
		return false, ErrSealed
	}
	_, replaced = r.entries.Swap(path, data)
	if !replaced {
		r.count.Add(1)
	}
	return replaced, nil
}

func (r *Registry) Get(path string) ([]byte, bool) {
	v, ok := r.entries.Load(path)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (r *Registry) Len() int { return int(r.count.Load()) }

// Seal stops further writes. Entries stay readable.
func (r *Registry) Seal() { r.sealed.Store(true) }

func (r *Registry) Sealed() bool { return r.sealed.Load() }

// Entries yields all entries ordered by path.
func (r *Registry) Entries() iter.Seq2[string, []byte] {
	var paths []string
	r.entries.Range(func(k, _ any) bool {
		paths = append(paths, k.(string))
		return true
	})
	slices.Sort(paths)

	return func(yield func(string, []byte) bool) {
		for _, p := range paths {
			data, ok := r.Get(p)
			if !ok {
				continue
			}
			if !yield(p, data) {
				return
			}
		}
	}
}
