// Package metadata defines the free-form key-value store attached to the
// transactions and to the ledger entities.
//
// A value is any JSON document. It is kept in its canonical form (RFC 8785) so
// that the encoding of a metadata, and thus the hash of the transaction
// carrying it, does not depend on how the document was written.
package metadata

import (
	"encoding/json"
	"sort"

	"github.com/gowebpki/jcs"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/name"
	"golang.org/x/xerrors"
)

// Metadata is a key-value store where keys are names and values are JSON
// documents. The zero value is an empty metadata.
type Metadata struct {
	entries map[string][]byte
}

// New returns an empty metadata.
func New() Metadata {
	return Metadata{entries: make(map[string][]byte)}
}

// Insert stores the JSON value under the key and returns the previous value
// if any.
func (m *Metadata) Insert(key name.Name, value []byte) ([]byte, error) {
	if key.IsZero() {
		return nil, xerrors.New("empty key")
	}

	canonical, err := jcs.Transform(value)
	if err != nil {
		return nil, xerrors.Errorf("invalid value for '%s': %v", key, err)
	}

	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}

	prev := m.entries[key.String()]
	m.entries[key.String()] = canonical

	return prev, nil
}

// Get returns a copy of the value stored under the key.
func (m Metadata) Get(key name.Name) ([]byte, bool) {
	value, found := m.entries[key.String()]
	if !found {
		return nil, false
	}

	return append([]byte{}, value...), true
}

// Remove deletes the key and returns the value if it existed.
func (m *Metadata) Remove(key name.Name) ([]byte, bool) {
	value, found := m.entries[key.String()]
	if found {
		delete(m.entries, key.String())
	}

	return value, found
}

// Len returns the number of entries.
func (m Metadata) Len() int {
	return len(m.entries)
}

// Keys returns the keys in ascending order.
func (m Metadata) Keys() []name.Name {
	keys := make([]name.Name, 0, len(m.entries))

	for _, key := range m.sortedKeys() {
		keys = append(keys, name.Must(key))
	}

	return keys
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	clone := Metadata{entries: make(map[string][]byte, len(m.entries))}

	for key, value := range m.entries {
		clone.entries[key] = append([]byte{}, value...)
	}

	return clone
}

// Equal returns true when both metadata have the same entries.
func (m Metadata) Equal(other Metadata) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}

	for key, value := range m.entries {
		otherValue, found := other.entries[key]
		if !found || string(value) != string(otherValue) {
			return false
		}
	}

	return true
}

// MarshalJSON implements json.Marshaler. The metadata is an object where the
// fields are the keys.
func (m Metadata) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(m.entries))

	for key, value := range m.entries {
		obj[key] = value
	}

	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage

	err := json.Unmarshal(data, &obj)
	if err != nil {
		return xerrors.Errorf("couldn't unmarshal metadata: %v", err)
	}

	res := New()

	for key, value := range obj {
		n, err := name.New(key)
		if err != nil {
			return xerrors.Errorf("invalid key: %v", err)
		}

		_, err = res.Insert(n, value)
		if err != nil {
			return err
		}
	}

	*m = res

	return nil
}

// EncodeBinary implements io.Serializable. Entries are written in ascending
// order of the keys.
func (m Metadata) EncodeBinary(w *io.BinWriter) {
	keys := m.sortedKeys()

	w.WriteVarUint(uint64(len(keys)))

	for _, key := range keys {
		w.WriteString(key)
		w.WriteVarBytes(m.entries[key])
	}
}

// DecodeBinary implements io.Serializable. It rejects the encodings that are
// not canonical, such as keys out of order or values not in canonical form.
func (m *Metadata) DecodeBinary(r *io.BinReader) {
	count := r.ReadVarUint()
	if r.Err != nil {
		return
	}

	res := New()
	last := ""

	for i := uint64(0); i < count; i++ {
		var key name.Name
		key.DecodeBinary(r)
		value := r.ReadVarBytes()
		if r.Err != nil {
			return
		}

		if i > 0 && key.String() <= last {
			r.Err = xerrors.Errorf("key '%s' is out of order", key)
			return
		}

		last = key.String()

		_, err := res.Insert(key, value)
		if err != nil {
			r.Err = err
			return
		}

		if string(res.entries[last]) != string(value) {
			r.Err = xerrors.Errorf("value of '%s' is not canonical", key)
			return
		}
	}

	*m = res
}

func (m Metadata) sortedKeys() []string {
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
