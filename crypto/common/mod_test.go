package common

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/internal/testing/fake"
)

func init() {
	RegisterAlgorithmFormat(fake.GoodFormat, fake.Format{Msg: NewAlgorithm(ed25519.Algorithm)})
	RegisterAlgorithmFormat(fake.BadFormat, fake.NewBadFormat())
	RegisterAlgorithmFormat("BAD_TYPE", fake.Format{Msg: fake.Message{}})
	RegisterAlgorithmFormat("UNKNOWN", fake.Format{Msg: NewAlgorithm("unknown")})

	ed25519.RegisterPublicKeyFormat(fake.GoodFormat, fake.Format{Msg: ed25519.PublicKey{}})
	ed25519.RegisterSignatureFormat(fake.GoodFormat, fake.Format{Msg: ed25519.Signature{}})
}

func TestAlgorithm_Serialize(t *testing.T) {
	algo := NewAlgorithm("fake")
	require.Equal(t, "fake", algo.GetName())

	data, err := algo.Serialize(fake.NewContext())
	require.NoError(t, err)
	require.Equal(t, fake.GetFakeFormatValue(), data)

	_, err = algo.Serialize(fake.NewBadContext())
	require.EqualError(t, err, fake.Err("couldn't encode algorithm"))
}

func TestPublicKeyFactory_PublicKeyOf(t *testing.T) {
	factory := NewPublicKeyFactory()

	msg, err := factory.Deserialize(fake.NewContext(), nil)
	require.NoError(t, err)
	require.Equal(t, ed25519.PublicKey{}, msg)

	_, err = factory.PublicKeyOf(fake.NewBadContext(), nil)
	require.EqualError(t, err, fake.Err("couldn't decode algorithm"))

	_, err = factory.PublicKeyOf(fake.NewContextWithFormat("BAD_TYPE"), nil)
	require.EqualError(t, err, "invalid message of type 'fake.Message'")

	_, err = factory.PublicKeyOf(fake.NewContextWithFormat("UNKNOWN"), nil)
	require.EqualError(t, err, "unknown algorithm 'unknown'")
}

func TestPublicKeyFactory_FromAlgorithm(t *testing.T) {
	factory := NewPublicKeyFactory()
	factory.RegisterAlgorithm(fake.FakeAlgorithm, fake.PublicKeyFactory{})

	pubkey, err := factory.FromAlgorithm(fake.FakeAlgorithm, []byte{1})
	require.NoError(t, err)
	require.Equal(t, fake.PublicKey{Data: []byte{1}}, pubkey)

	_, err = factory.FromAlgorithm("unknown", nil)
	require.EqualError(t, err, "unknown algorithm 'unknown'")
}

func TestPublicKeyFactory_FromText(t *testing.T) {
	factory := NewPublicKeyFactory()

	base := "ed25519:5866666666666666666666666666666666666666666666666666666666666666"

	pubkey, err := factory.FromText(base)
	require.NoError(t, err)
	require.Equal(t, base, pubkey.String())

	_, err = factory.FromText("5866")
	require.EqualError(t, err, "missing algorithm in '5866'")

	_, err = factory.FromText("ed25519:zz")
	require.EqualError(t, err,
		"malformed key: encoding/hex: invalid byte: U+007A 'z'")

	_, err = factory.FromText("ed25519:0102")
	require.EqualError(t, err, "invalid key: failed to unmarshal the key: "+
		"invalid public key length 2")
}

func TestSignatureFactory_SignatureOf(t *testing.T) {
	factory := NewSignatureFactory()

	msg, err := factory.Deserialize(fake.NewContext(), nil)
	require.NoError(t, err)
	require.Equal(t, ed25519.Signature{}, msg)

	_, err = factory.SignatureOf(fake.NewBadContext(), nil)
	require.EqualError(t, err, fake.Err("couldn't decode algorithm"))

	_, err = factory.SignatureOf(fake.NewContextWithFormat("BAD_TYPE"), nil)
	require.EqualError(t, err, "invalid message of type 'fake.Message'")

	_, err = factory.SignatureOf(fake.NewContextWithFormat("UNKNOWN"), nil)
	require.EqualError(t, err, "missing factory for 'unknown' algorithm")
}

func TestSignatureFactory_FromAlgorithm(t *testing.T) {
	factory := NewSignatureFactory()

	sig, err := factory.FromAlgorithm(ed25519.Algorithm, make([]byte, ed25519.SignatureSize))
	require.NoError(t, err)
	require.NotNil(t, sig)

	_, err = factory.FromAlgorithm("unknown", nil)
	require.EqualError(t, err, "missing factory for 'unknown' algorithm")
}
