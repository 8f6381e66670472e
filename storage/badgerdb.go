package storage

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog/log"
)

// BadgerStore implements Store and represents the application's connection
// to BadgerDB. Every key is written under a namespace prefix, and iteration
// follows BadgerDB's sorted key order within that prefix.
type BadgerStore struct {
	connection *badger.DB
	prefix     []byte // namespace followed by a slash
}

// NewBadgerStore initializes the BadgerDB embedded database. It is up to the
// caller to close the database with Close().
//
// Any failure to open the database, including a config that disables
// persistent storage, is reported as an error wrapping ErrUnavailable.
func NewBadgerStore(conf *KVConfig) (*BadgerStore, error) {
	c, err := conf.CheckAndSetDefaults()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if c.Disabled {
		return nil, fmt.Errorf("%w: disabled by the storage config", ErrUnavailable)
	}

	// See: https://dgraph.io/docs/badger/get-started/#opening-a-database
	opts := badger.DefaultOptions(c.StorageDirPath).
		WithLogger(newBadgerLogger(log.Logger))
	if c.ValueLogFileSize != 0 {
		opts = opts.WithValueLogFileSize(c.ValueLogFileSize)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open the db connection: %w", ErrUnavailable, err)
	}

	return &BadgerStore{
		connection: db,
		prefix:     []byte(c.Namespace + "/"),
	}, nil
}

func (db *BadgerStore) dbKey(key string) []byte {
	k := make([]byte, 0, len(db.prefix)+len(key))
	k = append(k, db.prefix...)
	return append(k, key...)
}

// SetItem upserts an entry. Entries carry no TTL.
func (db *BadgerStore) SetItem(key, value string) error {
	err := db.connection.Update(func(txn *badger.Txn) error {
		err := txn.SetEntry(badger.NewEntry(db.dbKey(key), []byte(value)))
		if err != nil {
			return fmt.Errorf("could not set the KV pair: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// GetItem returns the value stored for key. A missing key isn't an error.
func (db *BadgerStore) GetItem(key string) (string, bool, error) {
	var val []byte
	var found bool
	// See: https://dgraph.io/docs/badger/get-started/#read-only-transactions
	err := db.connection.View(func(txn *badger.Txn) error {
		item, err := txn.Get(db.dbKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("can't retrieve a value for the key provided: %w", err)
		}

		// We copy values rather than return them directly because item.Value()
		// is considered undefined behavior outside a transaction.
		// https://godoc.org/github.com/dgraph-io/badger#Item.Value
		val, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("can't copy the value from the database: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return string(val), found, nil
}

// RemoveItem deletes key. Deleting a key that was never set is a no-op.
func (db *BadgerStore) RemoveItem(key string) error {
	err := db.connection.Update(func(txn *badger.Txn) error {
		return txn.Delete(db.dbKey(key))
	})
	if err != nil {
		return fmt.Errorf("could not delete the key: %w", err)
	}
	return nil
}

// Clear drops every key in the namespace.
func (db *BadgerStore) Clear() error {
	if err := db.connection.DropPrefix(db.prefix); err != nil {
		return fmt.Errorf("could not drop the namespace: %w", err)
	}
	return nil
}

// eachKey calls fn with the position and key (minus the namespace) of every
// live entry until fn returns false.
func (db *BadgerStore) eachKey(fn func(int, string) bool) error {
	return db.connection.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		// We only need keys, so don't load values from the value log
		opts.PrefetchValues = false
		opts.Prefix = db.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		i := 0
		for it.Seek(db.prefix); it.ValidForPrefix(db.prefix); it.Next() {
			k := it.Item().Key()
			if !fn(i, string(k[len(db.prefix):])) {
				return nil
			}
			i++
		}
		return nil
	})
}

// Length counts the keys in the namespace. BadgerDB doesn't track this, so
// it's a full key scan.
func (db *BadgerStore) Length() (int, error) {
	var n int
	err := db.eachKey(func(int, string) bool {
		n++
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("could not count keys: %w", err)
	}
	return n, nil
}

// Key returns the key at position n in sorted order.
func (db *BadgerStore) Key(n int) (string, bool, error) {
	if n < 0 {
		return "", false, nil
	}

	var key string
	var found bool
	err := db.eachKey(func(i int, k string) bool {
		if i == n {
			key, found = k, true
			return false
		}
		return true
	})
	if err != nil {
		return "", false, fmt.Errorf("could not iterate keys: %w", err)
	}
	return key, found, nil
}

// Cleanup performs BadgerDB's garbage collection routine with the
// recommended discardRatio.
//
// See: https://pkg.go.dev/github.com/dgraph-io/badger/v3#DB.RunValueLogGC
func (db *BadgerStore) Cleanup() error {
	var discardRatio float64 = .5
	err := db.connection.RunValueLogGC(discardRatio)
	// If the GC determines that it can't rewrite anything, don't worry the
	// caller--just skip it
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close tears down the database connection and flushes writes to disk. You
// should defer this.
//
// https://pkg.go.dev/github.com/dgraph-io/badger#readme-i-don-t-see-any-disk-writes-why
func (db *BadgerStore) Close() error {
	if err := db.connection.Close(); err != nil {
		return fmt.Errorf("could not close the database: %w", err)
	}
	return nil
}
