package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"golang.org/x/xerrors"
)

// HashAlgorithm is the identifier of a hash algorithm supported by the
// factory.
type HashAlgorithm int

const (
	// Blake2b256 is the algorithm of the ledger hash.
	Blake2b256 HashAlgorithm = iota
	// Sha256 is the SHA-2 algorithm with a 32-byte digest.
	Sha256
	// Sha3_224 is the SHA-3 algorithm with a 28-byte digest.
	Sha3_224
)

// hashFactory is a hash factory for the supported algorithms.
//
// - implements crypto.HashFactory
type hashFactory struct {
	hashType HashAlgorithm
}

// NewHashFactory returns a new instance of the factory.
func NewHashFactory(a HashAlgorithm) HashFactory {
	return hashFactory{a}
}

// New implements crypto.HashFactory. It returns a new Hash instance.
func (f hashFactory) New() hash.Hash {
	switch f.hashType {
	case Blake2b256:
		h, err := blake2b.New256(nil)
		if err != nil {
			panic("blake2b: " + err.Error())
		}
		return h
	case Sha256:
		return sha256.New()
	case Sha3_224:
		return sha3.New224()
	default:
		panic("unknown hash type")
	}
}

// HashSize is the size in bytes of a ledger hash.
const HashSize = blake2b.Size256

// Hash is the untyped digest that identifies an object of the ledger. It is a
// Blake2b-256 digest where the least significant bit of the last byte is set,
// so that a ledger hash is never mistaken for an arbitrary 32-byte value.
type Hash [HashSize]byte

// NewHash returns the ledger hash of the data.
func NewHash(data []byte) Hash {
	h := Hash(blake2b.Sum256(data))
	h[HashSize-1] |= 1

	return h
}

// Encodable is implemented by the objects that have a canonical binary
// encoding.
type Encodable interface {
	EncodeBinary(w *io.BinWriter)
}

// HashObject returns the ledger hash of the canonical encoding of the object.
// It panics if the encoding fails, as writing into a hash never fails.
func HashObject(obj Encodable) Hash {
	hasher := NewHashFactory(Blake2b256).New()

	w := io.NewBinWriterFromIO(hasher)
	obj.EncodeBinary(w)

	if w.Err != nil {
		panic("INTERNAL BUG: canonical encoding failed: " + w.Err.Error())
	}

	var h Hash
	copy(h[:], hasher.Sum(nil))
	h[HashSize-1] |= 1

	return h
}

// String implements fmt.Stringer. It returns the hexadecimal representation of
// the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero returns true if the hash has never been set.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash returns the hash of the hexadecimal string.
func ParseHash(text string) (Hash, error) {
	var h Hash

	buffer, err := hex.DecodeString(text)
	if err != nil {
		return h, xerrors.Errorf("malformed hash: %v", err)
	}

	if len(buffer) != HashSize {
		return h, xerrors.Errorf("invalid hash length %d", len(buffer))
	}

	copy(h[:], buffer)

	return h, nil
}

// HashOf is a ledger hash tagged with the type of the object it has been
// computed over. Two hashes of different domains cannot be compared without an
// explicit conversion. The tag has no effect on the bytes.
type HashOf[T any] struct {
	hash Hash
}

// NewHashOf returns the typed hash of the canonical encoding of the object.
func NewHashOf[T any](obj Encodable) HashOf[T] {
	return HashOf[T]{hash: HashObject(obj)}
}

// HashOfUntyped tags an untyped hash with a domain. It must only be used when
// the hash is known to be computed over an object of the domain, such as when
// it is read back from a trusted index.
func HashOfUntyped[T any](h Hash) HashOf[T] {
	return HashOf[T]{hash: h}
}

// Retype converts a hash from the domain T to the domain U without computing
// it again. The value is unchanged, only the tag is.
func Retype[U, T any](h HashOf[T]) HashOf[U] {
	return HashOf[U]{hash: h.hash}
}

// Untyped returns the hash without its domain.
func (h HashOf[T]) Untyped() Hash {
	return h.hash
}

// Bytes returns a copy of the bytes of the hash.
func (h HashOf[T]) Bytes() []byte {
	return append([]byte{}, h.hash[:]...)
}

// IsZero returns true if the hash has never been set.
func (h HashOf[T]) IsZero() bool {
	return h.hash.IsZero()
}

// String implements fmt.Stringer.
func (h HashOf[T]) String() string {
	return h.hash.String()
}

// MarshalText implements encoding.TextMarshaler.
func (h HashOf[T]) MarshalText() ([]byte, error) {
	return []byte(h.hash.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HashOf[T]) UnmarshalText(text []byte) error {
	untyped, err := ParseHash(string(text))
	if err != nil {
		return err
	}

	h.hash = untyped

	return nil
}

// EncodeBinary implements io.Serializable.
func (h HashOf[T]) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(h.hash[:])
}

// DecodeBinary implements io.Serializable.
func (h *HashOf[T]) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(h.hash[:])
}
