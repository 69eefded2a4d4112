// Package history implements the persistent record of the entrypoints that
// have been executed and of their results.
//
// The entries are stored in a key/value database, indexed by the hash of the
// entrypoint, in their canonical binary encoding. The iteration follows the
// order of the commits.
package history

import (
	"encoding/binary"

	"go.dedis.ch/ledgertx/core/store/kv"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/serde"
	sbinary "go.dedis.ch/ledgertx/serde/binary"
	"golang.org/x/xerrors"
)

var (
	entrypointBucket = []byte("entrypoints")
	resultBucket     = []byte("results")
	orderBucket      = []byte("order")
)

// ErrNotFound is the error returned when an entrypoint is not in the history.
var ErrNotFound = xerrors.New("not found")

// Entry is an entrypoint and the result of its execution.
type Entry struct {
	Entrypoint txn.Entrypoint
	Result     txn.Result
}

// Hash returns the hash of the entrypoint of the entry.
func (e Entry) Hash() txn.EntrypointHash {
	return e.Entrypoint.Hash()
}

// Predicate is a function that selects the entries of the history.
type Predicate func(Entry) bool

// Store is the history of the entries backed by a key/value database. It can
// be shared between goroutines.
type Store struct {
	db         kv.DB
	context    serde.Context
	entrypoint txn.EntrypointFactory
	result     txn.ResultFactory
}

// NewStore returns a history that uses the database.
func NewStore(db kv.DB) *Store {
	return &Store{
		db:         db,
		context:    sbinary.NewContext(),
		entrypoint: txn.NewEntrypointFactory(),
		result:     txn.NewResultFactory(),
	}
}

// Commit stores the entries atomically. It returns an error if one of the
// entrypoints is already in the history.
func (s *Store) Commit(entries ...Entry) error {
	return s.db.Update(func(tx kv.WritableTx) error {
		entrypoints, err := tx.GetBucketOrCreate(entrypointBucket)
		if err != nil {
			return xerrors.Errorf("bucket: %v", err)
		}

		results, err := tx.GetBucketOrCreate(resultBucket)
		if err != nil {
			return xerrors.Errorf("bucket: %v", err)
		}

		order, err := tx.GetBucketOrCreate(orderBucket)
		if err != nil {
			return xerrors.Errorf("bucket: %v", err)
		}

		for _, entry := range entries {
			key := entry.Hash().Bytes()

			if entrypoints.Get(key) != nil {
				return xerrors.Errorf("entrypoint %v already committed", entry.Hash())
			}

			err = s.write(entrypoints, results, order, key, entry)
			if err != nil {
				return xerrors.Errorf("entrypoint %v: %v", entry.Hash(), err)
			}
		}

		return nil
	})
}

func (s *Store) write(entrypoints, results, order kv.Bucket, key []byte, entry Entry) error {
	epData, err := entry.Entrypoint.Serialize(s.context)
	if err != nil {
		return xerrors.Errorf("failed to serialize entrypoint: %v", err)
	}

	resData, err := entry.Result.Serialize(s.context)
	if err != nil {
		return xerrors.Errorf("failed to serialize result: %v", err)
	}

	seq, err := order.NextSequence()
	if err != nil {
		return xerrors.Errorf("sequence: %v", err)
	}

	index := make([]byte, 8)
	binary.BigEndian.PutUint64(index, seq)

	err = entrypoints.Set(key, epData)
	if err != nil {
		return xerrors.Errorf("failed to write entrypoint: %v", err)
	}

	err = results.Set(key, resData)
	if err != nil {
		return xerrors.Errorf("failed to write result: %v", err)
	}

	err = order.Set(index, key)
	if err != nil {
		return xerrors.Errorf("failed to write index: %v", err)
	}

	return nil
}

// Entrypoint returns the entrypoint of the hash. The error wraps ErrNotFound
// when it is not in the history.
func (s *Store) Entrypoint(h txn.EntrypointHash) (txn.Entrypoint, error) {
	var e txn.Entrypoint

	err := s.db.View(func(tx kv.ReadableTx) error {
		var err error
		e, err = s.readEntrypoint(tx.GetBucket(entrypointBucket), h.Bytes())

		return err
	})
	if err != nil {
		return txn.Entrypoint{}, xerrors.Errorf("entrypoint %v: %w", h, err)
	}

	return e, nil
}

// Result returns the result of the entrypoint of the hash. The error wraps
// ErrNotFound when it is not in the history.
func (s *Store) Result(h txn.EntrypointHash) (txn.Result, error) {
	var res txn.Result

	err := s.db.View(func(tx kv.ReadableTx) error {
		var err error
		res, err = s.readResult(tx.GetBucket(resultBucket), h.Bytes())

		return err
	})
	if err != nil {
		return txn.Result{}, xerrors.Errorf("result %v: %w", h, err)
	}

	return res, nil
}

// Has returns true when the entrypoint of the hash is in the history.
func (s *Store) Has(h txn.EntrypointHash) (bool, error) {
	found := false

	err := s.db.View(func(tx kv.ReadableTx) error {
		bucket := tx.GetBucket(entrypointBucket)
		if bucket != nil {
			found = bucket.Get(h.Bytes()) != nil
		}

		return nil
	})
	if err != nil {
		return false, xerrors.Errorf("failed to read: %v", err)
	}

	return found, nil
}

// Len returns the number of entries in the history.
func (s *Store) Len() (int, error) {
	n := 0

	err := s.db.View(func(tx kv.ReadableTx) error {
		order := tx.GetBucket(orderBucket)
		if order == nil {
			return nil
		}

		return order.ForEach(func(k, v []byte) error {
			n++
			return nil
		})
	})
	if err != nil {
		return 0, xerrors.Errorf("failed to read: %v", err)
	}

	return n, nil
}

// ForEach calls the function for each entry in the order of the commits. The
// iteration stops when the function returns an error.
func (s *Store) ForEach(fn func(Entry) error) error {
	return s.db.View(func(tx kv.ReadableTx) error {
		order := tx.GetBucket(orderBucket)
		if order == nil {
			return nil
		}

		entrypoints := tx.GetBucket(entrypointBucket)
		results := tx.GetBucket(resultBucket)

		return order.ForEach(func(index, key []byte) error {
			e, err := s.readEntrypoint(entrypoints, key)
			if err != nil {
				return err
			}

			res, err := s.readResult(results, key)
			if err != nil {
				return err
			}

			return fn(Entry{Entrypoint: e, Result: res})
		})
	})
}

// Filter returns the entries that match the predicate in the order of the
// commits.
func (s *Store) Filter(pred Predicate) ([]Entry, error) {
	var entries []Entry

	err := s.ForEach(func(entry Entry) error {
		if pred(entry) {
			entries = append(entries, entry)
		}

		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to read: %v", err)
	}

	return entries, nil
}

func (s *Store) readEntrypoint(bucket kv.Bucket, key []byte) (txn.Entrypoint, error) {
	if bucket == nil {
		return txn.Entrypoint{}, ErrNotFound
	}

	data := bucket.Get(key)
	if data == nil {
		return txn.Entrypoint{}, ErrNotFound
	}

	e, err := s.entrypoint.EntrypointOf(s.context, data)
	if err != nil {
		return txn.Entrypoint{}, xerrors.Errorf("failed to deserialize entrypoint: %v", err)
	}

	return e, nil
}

func (s *Store) readResult(bucket kv.Bucket, key []byte) (txn.Result, error) {
	if bucket == nil {
		return txn.Result{}, ErrNotFound
	}

	data := bucket.Get(key)
	if data == nil {
		return txn.Result{}, ErrNotFound
	}

	res, err := s.result.ResultOf(s.context, data)
	if err != nil {
		return txn.Result{}, xerrors.Errorf("failed to deserialize result: %v", err)
	}

	return res, nil
}
