// Package kv defines the key/value database that persists the history of the
// ledger.
//
// The default implementation uses bbolt (https://github.com/etcd-io/bbolt).
// Every operation runs in a transaction so that a batch of entries is either
// fully written or not at all.
package kv

// Bucket is a set of key/value pairs sorted by key. The slices returned by a
// bucket are only valid during the transaction.
type Bucket interface {
	// Get reads the key from the bucket and returns the value, or nil if the
	// key does not exist.
	Get(key []byte) []byte

	// Set assigns the value to the provided key.
	Set(key, value []byte) error

	// Delete deletes the key from the bucket.
	Delete(key []byte) error

	// NextSequence returns an auto-incrementing integer for the bucket. The
	// first value is 1.
	NextSequence() (uint64, error)

	// ForEach iterates over all the items in the bucket in the order of the
	// keys. The iteration stops when the callback returns an error.
	ForEach(func(k, v []byte) error) error

	// Scan iterates over every key that matches the prefix in the order of the
	// keys. The iteration stops when the callback returns an error.
	Scan(prefix []byte, fn func(k, v []byte) error) error
}

// ReadableTx is a read-only transaction.
type ReadableTx interface {
	// GetBucket returns the bucket of the given name if it exists, otherwise it
	// returns nil.
	GetBucket(name []byte) Bucket
}

// WritableTx is a transaction that is committed when its function returns
// nil, and rolled back otherwise.
type WritableTx interface {
	ReadableTx

	// GetBucketOrCreate returns the bucket of the given name if it exists, or
	// it creates it.
	GetBucketOrCreate(name []byte) (Bucket, error)

	// OnCommit adds a callback executed after the transaction commits. It is
	// never called on a rollback.
	OnCommit(func())
}

// DB is the key/value database.
type DB interface {
	// View executes the provided read-only transaction in the context of the
	// database.
	View(fn func(ReadableTx) error) error

	// Update executes the provided writable transaction in the context of the
	// database.
	Update(fn func(WritableTx) error) error

	// Close releases the file of the database.
	Close() error
}
