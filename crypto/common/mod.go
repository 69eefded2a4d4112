// Package common implements the factories that support multiple signature
// algorithms. The algorithm of a key is either known from the context, such as
// the text form "algorithm:hex", or read from the serialized message. The
// supported algorithms are the followings:
// - ed25519
package common

import (
	"encoding/hex"
	"strings"

	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/serde"
	"go.dedis.ch/ledgertx/serde/registry"
	"golang.org/x/xerrors"
)

var algoFormats = registry.NewSimpleRegistry()

// RegisterAlgorithmFormat registers the engine for the provided format.
func RegisterAlgorithmFormat(c serde.Format, f serde.FormatEngine) {
	algoFormats.Register(c, f)
}

// Algorithm is a serde message that only carries the name of a signature
// algorithm. It is used to find the factory of a serialized key.
//
// - implements serde.Message
type Algorithm struct {
	name string
}

// NewAlgorithm returns a new algorithm message.
func NewAlgorithm(name string) Algorithm {
	return Algorithm{name: name}
}

// GetName returns the name of the algorithm.
func (a Algorithm) GetName() string {
	return a.name
}

// Serialize implements serde.Message.
func (a Algorithm) Serialize(ctx serde.Context) ([]byte, error) {
	format := algoFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, a)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode algorithm: %v", err)
	}

	return data, nil
}

// PublicKeyFactory is a public key factory for commonly known algorithms.
//
// - implements serde.Factory
type PublicKeyFactory struct {
	factories map[string]crypto.PublicKeyFactory
}

// NewPublicKeyFactory returns a new instance of the common public key factory.
func NewPublicKeyFactory() PublicKeyFactory {
	factory := PublicKeyFactory{
		factories: make(map[string]crypto.PublicKeyFactory),
	}

	factory.RegisterAlgorithm(ed25519.Algorithm, ed25519.NewPublicKeyFactory())

	return factory
}

// RegisterAlgorithm registers the factory for the algorithm.
func (f PublicKeyFactory) RegisterAlgorithm(algo string, factory crypto.PublicKeyFactory) {
	f.factories[algo] = factory
}

// Deserialize implements serde.Factory. It looks up the algorithm of the
// public key and uses the appropriate factory to deserialize it.
func (f PublicKeyFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.PublicKeyOf(ctx, data)
}

// PublicKeyOf returns the public key of the data if the algorithm is known.
func (f PublicKeyFactory) PublicKeyOf(ctx serde.Context, data []byte) (crypto.PublicKey, error) {
	format := algoFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode algorithm: %v", err)
	}

	algo, ok := msg.(Algorithm)
	if !ok {
		return nil, xerrors.Errorf("invalid message of type '%T'", msg)
	}

	factory := f.factories[algo.GetName()]
	if factory == nil {
		return nil, xerrors.Errorf("unknown algorithm '%s'", algo.GetName())
	}

	return factory.PublicKeyOf(ctx, data)
}

// FromAlgorithm returns the public key of the raw bytes for the given
// algorithm.
func (f PublicKeyFactory) FromAlgorithm(algo string, data []byte) (crypto.PublicKey, error) {
	factory := f.factories[algo]
	if factory == nil {
		return nil, xerrors.Errorf("unknown algorithm '%s'", algo)
	}

	return factory.FromBytes(data)
}

// FromText returns the public key of its text form "algorithm:hex".
func (f PublicKeyFactory) FromText(text string) (crypto.PublicKey, error) {
	algo, hexData, found := strings.Cut(text, ":")
	if !found {
		return nil, xerrors.Errorf("missing algorithm in '%s'", text)
	}

	data, err := hex.DecodeString(hexData)
	if err != nil {
		return nil, xerrors.Errorf("malformed key: %v", err)
	}

	pubkey, err := f.FromAlgorithm(algo, data)
	if err != nil {
		return nil, xerrors.Errorf("invalid key: %v", err)
	}

	return pubkey, nil
}

// SignatureFactory is a factory for commonly known algorithms.
//
// - implements serde.Factory
type SignatureFactory struct {
	factories map[string]crypto.SignatureFactory
}

// NewSignatureFactory returns a new instance of the common signature factory.
func NewSignatureFactory() SignatureFactory {
	factory := SignatureFactory{
		factories: make(map[string]crypto.SignatureFactory),
	}

	factory.RegisterAlgorithm(ed25519.Algorithm, ed25519.NewSignatureFactory())

	return factory
}

// RegisterAlgorithm register the factory for the algorithm.
func (f SignatureFactory) RegisterAlgorithm(name string, factory crypto.SignatureFactory) {
	f.factories[name] = factory
}

// Deserialize implements serde.Factory. It deserializes the signature using the
// factory of the algorithm if it is registered.
func (f SignatureFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.SignatureOf(ctx, data)
}

// SignatureOf returns the signature of the data if the algorithm is known.
func (f SignatureFactory) SignatureOf(ctx serde.Context, data []byte) (crypto.Signature, error) {
	format := algoFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode algorithm: %v", err)
	}

	algo, ok := msg.(Algorithm)
	if !ok {
		return nil, xerrors.Errorf("invalid message of type '%T'", msg)
	}

	factory := f.factories[algo.GetName()]
	if factory == nil {
		return nil, xerrors.Errorf("missing factory for '%s' algorithm", algo.GetName())
	}

	return factory.SignatureOf(ctx, data)
}

// FromAlgorithm returns the signature of the raw bytes for the given
// algorithm.
func (f SignatureFactory) FromAlgorithm(algo string, data []byte) (crypto.Signature, error) {
	factory := f.factories[algo]
	if factory == nil {
		return nil, xerrors.Errorf("missing factory for '%s' algorithm", algo)
	}

	return factory.FromBytes(data)
}
