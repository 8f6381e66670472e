package facade

import (
	"github.com/ptgott/safestore/storage"
	"github.com/rs/zerolog/log"
)

// OpenFunc acquires the persistent store. Any error means the store is
// unavailable.
type OpenFunc func() (storage.Store, error)

// Storage is the application's single entry point for key/value storage. It
// is bound to one storage.Store at construction, either the persistent store
// or, if that can't be opened, an in-memory storage.FallbackStore, and never
// switches afterwards.
//
// Mutating calls notify "changed" listeners before the store is modified, so
// a listener that reads from Storage sees the state prior to the change.
//
// Storage is not safe for concurrent use.
type Storage struct {
	store    storage.Store
	fallback bool
	changed  emitter
}

// New calls open once and binds the resulting store. If open fails for any
// reason, New binds a fresh FallbackStore instead and logs why.
func New(open OpenFunc) *Storage {
	s, err := open()
	if err == nil {
		return &Storage{store: s}
	}

	log.Info().
		Err(err).
		Msg("persistent storage is unavailable, keeping data in memory for this process")
	return &Storage{
		store:    storage.NewFallbackStore(),
		fallback: true,
	}
}

// FromConfig binds a BadgerDB store opened with conf, falling back to memory
// if it can't be opened.
func FromConfig(conf *storage.KVConfig) *Storage {
	return New(func() (storage.Store, error) {
		db, err := storage.NewBadgerStore(conf)
		if err != nil {
			// Return a nil interface rather than a nil *BadgerStore
			return nil, err
		}
		return db, nil
	})
}

// IsFallbackActive reports whether entries only live in memory.
func (s *Storage) IsFallbackActive() bool {
	return s.fallback
}

// OnChanged registers fn to run on every SetItem that isn't suppressed and on
// every RemoveItem and Clear. Listeners run synchronously in registration
// order.
func (s *Storage) OnChanged(fn func()) ListenerID {
	return s.changed.add(fn)
}

// RemoveListener unregisters the listener with the given id, reporting
// whether it was registered.
func (s *Storage) RemoveListener(id ListenerID) bool {
	return s.changed.remove(id)
}

// Clear notifies listeners, then removes every entry.
func (s *Storage) Clear() error {
	s.changed.emit()
	return s.store.Clear()
}

// Length returns the number of entries.
func (s *Storage) Length() (int, error) {
	return s.store.Length()
}

// GetItem returns the value for key. The bool is false if key is absent.
func (s *Storage) GetItem(key string) (string, bool, error) {
	return s.store.GetItem(key)
}

// SetItem notifies listeners unless suppressNotification is set, then writes
// value for key.
func (s *Storage) SetItem(key, value string, suppressNotification bool) error {
	if !suppressNotification {
		s.changed.emit()
	}
	return s.store.SetItem(key, value)
}

// RemoveItem notifies listeners, then deletes key.
func (s *Storage) RemoveItem(key string) error {
	s.changed.emit()
	return s.store.RemoveItem(key)
}

// Key returns the key at position n of the bound store's iteration order.
// The bool is false if n is out of range.
func (s *Storage) Key(n int) (string, bool, error) {
	return s.store.Key(n)
}

// Cleanup runs the bound store's maintenance routine.
func (s *Storage) Cleanup() error {
	return s.store.Cleanup()
}

// Close releases the bound store. For BadgerDB this flushes writes to disk.
func (s *Storage) Close() error {
	return s.store.Close()
}
