package fake

import (
	"bytes"

	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/serde"
)

// FakeAlgorithm is the algorithm name of the fake keys.
const FakeAlgorithm = "fake"

// PublicKey is a fake implementation of crypto.PublicKey.
//
// - implements crypto.PublicKey
type PublicKey struct {
	Data      []byte
	err       error
	verifyErr error
}

// NewBadPublicKey returns a new fake public key that returns error when
// appropriate.
func NewBadPublicKey() PublicKey {
	return PublicKey{err: fakeErr, verifyErr: fakeErr}
}

// NewInvalidPublicKey returns a fake public key that never verifies a
// signature.
func NewInvalidPublicKey() PublicKey {
	return PublicKey{verifyErr: fakeErr}
}

// Algorithm implements crypto.PublicKey.
func (pk PublicKey) Algorithm() string {
	return FakeAlgorithm
}

// Verify implements crypto.PublicKey.
func (pk PublicKey) Verify([]byte, crypto.Signature) error {
	return pk.verifyErr
}

// Equal implements crypto.PublicKey.
func (pk PublicKey) Equal(other interface{}) bool {
	o, ok := other.(PublicKey)
	if !ok {
		return false
	}

	return bytes.Equal(pk.Data, o.Data)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk PublicKey) MarshalBinary() ([]byte, error) {
	return append([]byte{}, pk.Data...), pk.err
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), pk.err
}

// Serialize implements serde.Message.
func (pk PublicKey) Serialize(serde.Context) ([]byte, error) {
	return GetFakeFormatValue(), pk.err
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	return "fake.PublicKey"
}

// PublicKeyFactory is a fake implementation of a public key factory.
//
// - implements crypto.PublicKeyFactory
type PublicKeyFactory struct {
	pubkey PublicKey
	err    error
}

// NewPublicKeyFactory returns a fake public key factory that returns the given
// public key.
func NewPublicKeyFactory(pubkey PublicKey) PublicKeyFactory {
	return PublicKeyFactory{pubkey: pubkey}
}

// NewBadPublicKeyFactory returns a fake public key factory that returns an
// error when appropriate.
func NewBadPublicKeyFactory() PublicKeyFactory {
	return PublicKeyFactory{err: fakeErr}
}

// Deserialize implements serde.Factory.
func (f PublicKeyFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.pubkey, f.err
}

// PublicKeyOf implements crypto.PublicKeyFactory.
func (f PublicKeyFactory) PublicKeyOf(serde.Context, []byte) (crypto.PublicKey, error) {
	return f.pubkey, f.err
}

// FromBytes implements crypto.PublicKeyFactory.
func (f PublicKeyFactory) FromBytes(data []byte) (crypto.PublicKey, error) {
	if f.err != nil {
		return nil, f.err
	}

	return PublicKey{Data: append([]byte{}, data...)}, nil
}

// Signature is a fake implementation of the signature.
//
// - implements crypto.Signature
type Signature struct {
	Data []byte
	err  error
}

// NewBadSignature returns a signature that will return error when appropriate.
func NewBadSignature() Signature {
	return Signature{err: fakeErr}
}

// Equal implements crypto.Signature.
func (s Signature) Equal(o crypto.Signature) bool {
	other, ok := o.(Signature)
	return ok && bytes.Equal(s.Data, other.Data)
}

// Serialize implements serde.Message.
func (s Signature) Serialize(serde.Context) ([]byte, error) {
	return GetFakeFormatValue(), s.err
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Signature) MarshalBinary() ([]byte, error) {
	return append([]byte{}, s.Data...), s.err
}

// SignatureFactory is a fake implementation of the signature factory.
//
// - implements crypto.SignatureFactory
type SignatureFactory struct {
	signature Signature
	err       error
}

// NewSignatureFactory returns a fake signature factory.
func NewSignatureFactory(s Signature) SignatureFactory {
	return SignatureFactory{signature: s}
}

// NewBadSignatureFactory returns a signature factory that will return an error
// when appropriate.
func NewBadSignatureFactory() SignatureFactory {
	return SignatureFactory{err: fakeErr}
}

// Deserialize implements serde.Factory.
func (f SignatureFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.SignatureOf(ctx, data)
}

// SignatureOf implements crypto.SignatureFactory.
func (f SignatureFactory) SignatureOf(serde.Context, []byte) (crypto.Signature, error) {
	return f.signature, f.err
}

// FromBytes implements crypto.SignatureFactory.
func (f SignatureFactory) FromBytes(data []byte) (crypto.Signature, error) {
	if f.err != nil {
		return nil, f.err
	}

	return Signature{Data: append([]byte{}, data...)}, nil
}

// Signer is a fake implementation of the crypto.Signer interface. The
// signature is the message itself, and the public key verifies any signature
// unless it has been configured otherwise.
//
// - implements crypto.Signer
type Signer struct {
	PublicKey PublicKey
	err       error
}

// NewSigner returns a new instance of the fake signer.
func NewSigner() Signer {
	return Signer{PublicKey: PublicKey{Data: []byte{0xaa}}}
}

// NewBadSigner returns a fake signer that will return an error when
// appropriate.
func NewBadSigner() Signer {
	return Signer{err: fakeErr}
}

// GetPublicKeyFactory implements crypto.Signer.
func (s Signer) GetPublicKeyFactory() crypto.PublicKeyFactory {
	return PublicKeyFactory{}
}

// GetSignatureFactory implements crypto.Signer.
func (s Signer) GetSignatureFactory() crypto.SignatureFactory {
	return SignatureFactory{}
}

// GetPublicKey implements crypto.Signer.
func (s Signer) GetPublicKey() crypto.PublicKey {
	return s.PublicKey
}

// Sign implements crypto.Signer.
func (s Signer) Sign(msg []byte) (crypto.Signature, error) {
	if s.err != nil {
		return nil, s.err
	}

	return Signature{Data: append([]byte{}, msg...)}, nil
}
