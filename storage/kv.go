package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

// DefaultNamespace is prepended to every key written to BadgerDB when the
// user doesn't configure a namespace.
const DefaultNamespace = "safestore"

// Badger refuses value log files outside of [1MiB, 2GiB).
const (
	minValueLogFileSize int64 = 1 << 20
	maxValueLogFileSize int64 = 2 << 30
)

// ErrUnavailable means the persistent store couldn't be opened. Callers are
// expected to fall back to an in-memory store.
var ErrUnavailable = errors.New("persistent storage is unavailable")

// KVConfig contains settings specific to BadgerDB connections
type KVConfig struct {
	StorageDirPath string `yaml:"storageDir" json:"storageDir"`
	// Prefix for every key this application writes, so an empty key is
	// still a valid BadgerDB key.
	Namespace string `yaml:"namespace" json:"namespace"`
	// Size in bytes of each value log file. Zero means BadgerDB's default.
	ValueLogFileSize int64 `yaml:"valueLogFileSize" json:"valueLogFileSize"`
	// Never touch the disk and use the in-memory fallback instead.
	Disabled bool `yaml:"disabled" json:"disabled"`
}

// UnmarshalYAML parses a user-provided YAML configuration, returning any
// parsing errors. Sizes can be human-readable, e.g., "64MiB".
func (c *KVConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	v := make(map[string]string)
	if err := unmarshal(&v); err != nil {
		return fmt.Errorf("can't parse the storage config: %v", err)
	}

	c.StorageDirPath = v["storageDir"]
	c.Namespace = v["namespace"]

	if s, ok := v["valueLogFileSize"]; ok && s != "" {
		n, err := units.RAMInBytes(s)
		if err != nil {
			return fmt.Errorf("can't parse the value log file size as a size: %v", err)
		}
		c.ValueLogFileSize = n
	}

	if d, ok := v["disabled"]; ok && d != "" {
		b, err := strconv.ParseBool(d)
		if err != nil {
			return fmt.Errorf("can't parse \"disabled\" as a boolean: %v", err)
		}
		c.Disabled = b
	}

	return nil
}

// CheckAndSetDefaults validates c and either returns a copy of c with default
// settings applied or returns an error due to an invalid configuration
func (c *KVConfig) CheckAndSetDefaults() (KVConfig, error) {
	n := *c

	if n.StorageDirPath == "" && !n.Disabled {
		return KVConfig{}, errors.New(
			"user-provided config does not include a storage path",
		)
	}

	if n.Namespace == "" {
		n.Namespace = DefaultNamespace
	}

	// The slash ends the namespace in every BadgerDB key, so namespace "a"
	// would otherwise see (and clear) the keys of namespace "a/b".
	if strings.Contains(n.Namespace, "/") {
		return KVConfig{}, fmt.Errorf(
			"the namespace %q must not contain a slash",
			n.Namespace,
		)
	}

	if n.ValueLogFileSize != 0 &&
		(n.ValueLogFileSize < minValueLogFileSize || n.ValueLogFileSize >= maxValueLogFileSize) {
		return KVConfig{}, fmt.Errorf(
			"the value log file size must be at least %v and less than %v",
			units.BytesSize(float64(minValueLogFileSize)),
			units.BytesSize(float64(maxValueLogFileSize)),
		)
	}

	return n, nil
}

// Store exposes a common interface for reading and writing opaque string
// entries. Each implementation defines its own iteration order, which is what
// Key(n) indexes into.
//
// Implementations need to include connection logic in code to initialize
// a Store.
type Store interface {
	Reader
	// Remove every entry
	Clear() error
	// Replace the value for key or create a new entry if it doesn't exist
	SetItem(key, value string) error
	// Delete the entry for key. Deleting an absent key is not an error.
	RemoveItem(key string) error
	// Cleanup performs routine maintenance of the underlying storage
	Cleanup() error
	// Drain/tear down the connection, or something analogous for
	// an embedded database
	Close() error
}

// Reader is the read-only half of a Store.
type Reader interface {
	// Number of distinct keys currently stored
	Length() (int, error)
	// Return the value for key. The bool is false if key is absent.
	GetItem(key string) (string, bool, error)
	// Return the key at position n of the iteration order. The bool is
	// false if n is out of range.
	Key(n int) (string, bool, error)
}

// Entry is what we'll write to and read from a Store
type Entry struct {
	Key   string
	Value string
}

// Entries walks s by index and returns every entry in iteration order.
func Entries(s Reader) ([]Entry, error) {
	l, err := s.Length()
	if err != nil {
		return nil, err
	}

	es := make([]Entry, 0, l)
	for i := 0; i < l; i++ {
		k, ok, err := s.Key(i)
		if err != nil {
			return nil, err
		}
		// The store shrank underneath us
		if !ok {
			break
		}
		v, ok, err := s.GetItem(k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		es = append(es, Entry{Key: k, Value: v})
	}
	return es, nil
}
