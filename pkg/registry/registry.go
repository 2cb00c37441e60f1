package registry

import (
	"sort"
	"sync"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// Registry stores items under unique keys. Putting an existing key
// replaces its item.
type Registry[K ~string, V any] interface {
	// Put stores item under key, reporting whether an item was replaced
	Put(key K, item V) (bool, error)

	// Get retrieves the item stored under key
	Get(key K) (V, error)

	// Has checks if key is present
	Has(key K) bool

	// Count returns the number of stored items
	Count() int

	// Keys returns every key in sorted order
	Keys() []K

	// Values returns every item ordered by key
	Values() []V
}

type registry[K ~string, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates an empty Registry
func New[K ~string, V any]() Registry[K, V] {
	return &registry[K, V]{
		items: make(map[K]V),
	}
}

func (r *registry[K, V]) Put(key K, item V) (bool, error) {
	if key == "" {
		return false, errors.New(errors.ErrInvalidInput, "registry key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.items[key]
	r.items[key] = item
	return replaced, nil
}

func (r *registry[K, V]) Get(key K) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[key]
	if !ok {
		var zero V
		return zero, errors.Newf(errors.ErrNotFound, "%q is not registered", string(key))
	}
	return item, nil
}

func (r *registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[key]
	return ok
}

func (r *registry[K, V]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

func (r *registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedKeys()
}

func (r *registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.sortedKeys()
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = r.items[k]
	}
	return values
}

// sortedKeys must be called with the lock held
func (r *registry[K, V]) sortedKeys() []K {
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
