package storage

// storage contains the Store interface for working with a key/value store,
// an implementation backed by BadgerDB on local disk, and an in-memory
// FallbackStore for when the disk store can't be opened. The storage package
// isn't designed to represent _what_ is stored, and deals only in opaque
// strings.
