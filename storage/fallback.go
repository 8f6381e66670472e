package storage

import "container/list"

// FallbackStore is used when the persistent store can't be opened, e.g.,
// because another process holds the BadgerDB directory lock. It keeps entries
// in memory for the life of the process and iterates them in insertion order.
// Overwriting a key keeps its position.
//
// All methods return a nil error so FallbackStore satisfies Store. It is not
// safe for concurrent use.
type FallbackStore struct {
	order *list.List               // keys, oldest first
	items map[string]*list.Element // key -> position in order
	vals  map[string]string
}

// NewFallbackStore returns an empty FallbackStore.
func NewFallbackStore() *FallbackStore {
	return &FallbackStore{
		order: list.New(),
		items: make(map[string]*list.Element),
		vals:  make(map[string]string),
	}
}

// Clear removes all entries.
func (f *FallbackStore) Clear() error {
	f.order.Init()
	f.items = make(map[string]*list.Element)
	f.vals = make(map[string]string)
	return nil
}

// Length returns the number of entries.
func (f *FallbackStore) Length() (int, error) {
	return f.order.Len(), nil
}

// GetItem returns the value for key and whether key exists.
func (f *FallbackStore) GetItem(key string) (string, bool, error) {
	v, ok := f.vals[key]
	return v, ok, nil
}

// SetItem upserts an entry.
func (f *FallbackStore) SetItem(key, value string) error {
	if _, ok := f.items[key]; !ok {
		f.items[key] = f.order.PushBack(key)
	}
	f.vals[key] = value
	return nil
}

// RemoveItem deletes key if it's present.
func (f *FallbackStore) RemoveItem(key string) error {
	e, ok := f.items[key]
	if !ok {
		return nil
	}
	f.order.Remove(e)
	delete(f.items, key)
	delete(f.vals, key)
	return nil
}

// Key returns the key at position n in insertion order. We step through the
// list once per index from 0 to n, so if the list runs out first the key is
// reported as absent rather than as an error.
func (f *FallbackStore) Key(n int) (string, bool, error) {
	if n < 0 || n >= f.order.Len() {
		return "", false, nil
	}

	e := f.order.Front()
	for i := 0; i < n && e != nil; i++ {
		e = e.Next()
	}
	if e == nil {
		return "", false, nil
	}
	return e.Value.(string), true, nil
}

// Cleanup is a no-op since nothing outlives the process.
func (f *FallbackStore) Cleanup() error {
	return nil
}

// Close is no-op
func (f *FallbackStore) Close() error {
	return nil
}
