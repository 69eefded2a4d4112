// Package crypto defines the cryptographic primitives used by the ledger.
//
// The signature algorithms are implemented in sub-packages. The ledger hash
// and its typed wrapper are defined here so that every package agrees on the
// digest of an object.
package crypto

import (
	"encoding"
	"fmt"
	"hash"

	"go.dedis.ch/ledgertx/serde"
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// PublicKey is a public identity that can be used to verify a signature.
type PublicKey interface {
	encoding.BinaryMarshaler
	encoding.TextMarshaler
	serde.Message
	fmt.Stringer

	// Algorithm returns the name of the signature algorithm of the key.
	Algorithm() string

	// Verify returns nil if the signature matches the message, otherwise an
	// error.
	Verify(msg []byte, signature Signature) error

	// Equal returns true when the other object is the same public key.
	Equal(other interface{}) bool
}

// PublicKeyFactory is a factory to create public keys.
type PublicKeyFactory interface {
	serde.Factory

	// PublicKeyOf returns the public key of the serialized data.
	PublicKeyOf(serde.Context, []byte) (PublicKey, error)

	// FromBytes returns the public key of the raw binary representation.
	FromBytes([]byte) (PublicKey, error)
}

// Signature is a verifiable element for a unique message.
type Signature interface {
	encoding.BinaryMarshaler
	serde.Message

	// Equal returns true when both signatures are the same.
	Equal(other Signature) bool
}

// SignatureFactory is a factory to create signatures.
type SignatureFactory interface {
	serde.Factory

	// SignatureOf returns the signature of the serialized data.
	SignatureOf(serde.Context, []byte) (Signature, error)

	// FromBytes returns the signature of the raw binary representation.
	FromBytes([]byte) (Signature, error)
}

// Signer provides the primitives to sign messages.
type Signer interface {
	GetPublicKeyFactory() PublicKeyFactory

	GetSignatureFactory() SignatureFactory

	GetPublicKey() PublicKey

	Sign(msg []byte) (Signature, error)
}
