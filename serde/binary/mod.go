// Package binary implements the context engine for the canonical binary
// format.
//
// The encoding is the one of the neo-go io package: little-endian integers,
// variable-length prefixes for byte slices, strings and sequences. Every
// message of the ledger writes its fields in a fixed order, which makes the
// output suitable to compute fingerprints that every node agrees on.
package binary

import (
	"bytes"

	"github.com/nspcc-dev/neo-go/pkg/io"

	// Static registration of the binary formats.
	_ "go.dedis.ch/ledgertx/core/txn/binary"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

// binaryEngine is a context engine to marshal and unmarshal objects that
// implement io.Serializable.
//
// - implements serde.ContextEngine
type binaryEngine struct{}

// NewContext returns a binary context.
func NewContext() serde.Context {
	return serde.NewContext(binaryEngine{})
}

// GetFormat implements serde.ContextEngine. It returns the binary format name.
func (binaryEngine) GetFormat() serde.Format {
	return serde.FormatBinary
}

// Marshal implements serde.ContextEngine. It returns the canonical encoding of
// the object, which must implement io.Serializable.
func (binaryEngine) Marshal(m interface{}) ([]byte, error) {
	obj, ok := m.(io.Serializable)
	if !ok {
		return nil, xerrors.Errorf("unsupported object of type '%T'", m)
	}

	return Encode(obj)
}

// Unmarshal implements serde.ContextEngine. It decodes the data into the
// object, which must implement io.Serializable. Trailing bytes are rejected.
func (binaryEngine) Unmarshal(data []byte, m interface{}) error {
	obj, ok := m.(io.Serializable)
	if !ok {
		return xerrors.Errorf("unsupported object of type '%T'", m)
	}

	return Decode(data, obj)
}

// Encode returns the canonical encoding of the object.
func Encode(obj io.Serializable) ([]byte, error) {
	buffer := new(bytes.Buffer)

	w := io.NewBinWriterFromIO(buffer)
	obj.EncodeBinary(w)

	if w.Err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", w.Err)
	}

	return buffer.Bytes(), nil
}

// Decode populates the object from the data. The data must be consumed
// entirely.
func Decode(data []byte, obj io.Serializable) error {
	buffer := bytes.NewReader(data)

	r := io.NewBinReaderFromIO(buffer)
	obj.DecodeBinary(r)

	if r.Err != nil {
		return xerrors.Errorf("failed to decode: %v", r.Err)
	}

	if buffer.Len() > 0 {
		return xerrors.Errorf("%d trailing bytes", buffer.Len())
	}

	return nil
}
