package account

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/internal/testing/fake"
)

const alice = "ed25519:5866666666666666666666666666666666666666666666666666666666666666@wonderland"

func TestDomainID_Parse(t *testing.T) {
	domain, err := ParseDomainID("wonderland")
	require.NoError(t, err)
	require.Equal(t, NewDomainID(name.Must("wonderland")), domain)

	_, err = ParseDomainID("")
	require.EqualError(t, err, "invalid domain: empty name")
}

func TestID_Parse(t *testing.T) {
	id, err := ParseID(alice)
	require.NoError(t, err)
	require.Equal(t, "wonderland", id.Domain().String())
	require.Equal(t, ed25519.Algorithm, id.Signatory().Algorithm())
	require.Equal(t, alice, id.String())

	_, err = ParseID("wonderland")
	require.EqualError(t, err, "missing domain in 'wonderland'")

	_, err = ParseID("ed25519:00@wonderland")
	require.EqualError(t, err, "invalid signatory: invalid key: "+
		"failed to unmarshal the key: invalid public key length 1")

	_, err = ParseID(alice[:len(alice)-len("wonderland")])
	require.EqualError(t, err, "invalid domain: empty name")
}

func TestID_Equal(t *testing.T) {
	id := makeID(t)

	require.True(t, id.Equal(makeID(t)))
	require.False(t, id.Equal(NewID(id.Signatory(), NewDomainID(name.Must("looking_glass")))))
	require.False(t, id.Equal(NewID(ed25519.NewSigner().GetPublicKey(), id.Domain())))
	require.False(t, id.Equal(ID{}))
	require.True(t, ID{}.Equal(ID{}))
	require.True(t, ID{}.IsZero())
	require.False(t, id.IsZero())
}

func TestID_Text(t *testing.T) {
	id := makeID(t)

	text, err := id.MarshalText()
	require.NoError(t, err)
	require.Equal(t, alice, string(text))

	var decoded ID
	require.NoError(t, decoded.UnmarshalText(text))
	require.True(t, id.Equal(decoded))

	require.Error(t, decoded.UnmarshalText([]byte("alice")))

	_, err = ID{}.MarshalText()
	require.EqualError(t, err, "missing signatory")
	require.Equal(t, "<nil>@", ID{}.String())
}

func TestID_Binary(t *testing.T) {
	id := makeID(t)

	buffer := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buffer)
	id.EncodeBinary(w)
	require.NoError(t, w.Err)

	expected := "07" + hex.EncodeToString([]byte("ed25519")) +
		"20" + "58" + strings.Repeat("66", 31) +
		"0a" + hex.EncodeToString([]byte("wonderland"))
	require.Equal(t, expected, hex.EncodeToString(buffer.Bytes()))

	var decoded ID
	r := io.NewBinReaderFromIO(bytes.NewReader(buffer.Bytes()))
	decoded.DecodeBinary(r)
	require.NoError(t, r.Err)
	require.True(t, id.Equal(decoded))
}

func TestID_BinaryFailures(t *testing.T) {
	w := io.NewBinWriterFromIO(new(bytes.Buffer))
	ID{}.EncodeBinary(w)
	require.EqualError(t, w.Err, "missing signatory")

	w = io.NewBinWriterFromIO(new(bytes.Buffer))
	NewID(fake.NewBadPublicKey(), NewDomainID(name.Must("a"))).EncodeBinary(w)
	require.EqualError(t, w.Err, fake.Err("couldn't marshal signatory"))

	// Unknown algorithm.
	buffer := new(bytes.Buffer)
	w = io.NewBinWriterFromIO(buffer)
	w.WriteString("bls")
	w.WriteVarBytes([]byte{1})
	w.WriteString("a")

	var id ID
	r := io.NewBinReaderFromIO(bytes.NewReader(buffer.Bytes()))
	id.DecodeBinary(r)
	require.EqualError(t, r.Err, "invalid signatory: unknown algorithm 'bls'")

	// Truncated.
	r = io.NewBinReaderFromIO(bytes.NewReader([]byte{7}))
	id.DecodeBinary(r)
	require.Error(t, r.Err)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeID(t *testing.T) ID {
	id, err := ParseID(alice)
	require.NoError(t, err)

	return id
}
