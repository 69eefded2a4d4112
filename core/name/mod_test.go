package name

import (
	"bytes"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/stretchr/testify/require"
)

func TestName_New(t *testing.T) {
	n, err := New("wonderland")
	require.NoError(t, err)
	require.Equal(t, "wonderland", n.String())
	require.False(t, n.IsZero())
	require.True(t, Name{}.IsZero())

	_, err = New("")
	require.EqualError(t, err, "empty name")

	_, err = New("won der")
	require.EqualError(t, err, "name 'won der' contains a whitespace")

	_, err = New("alice@wonderland")
	require.EqualError(t, err, "name 'alice@wonderland' contains one of '@#$'")

	require.Panics(t, func() { Must("a#b") })
}

func TestName_Text(t *testing.T) {
	n := Must("rose")

	text, err := n.MarshalText()
	require.NoError(t, err)

	var decoded Name
	require.NoError(t, decoded.UnmarshalText(text))
	require.Equal(t, n, decoded)

	err = decoded.UnmarshalText([]byte("r$se"))
	require.EqualError(t, err, "name 'r$se' contains one of '@#$'")
}

func TestName_Binary(t *testing.T) {
	buffer := new(bytes.Buffer)

	w := io.NewBinWriterFromIO(buffer)
	Must("rose").EncodeBinary(w)
	require.NoError(t, w.Err)
	require.Equal(t, []byte{4, 'r', 'o', 's', 'e'}, buffer.Bytes())

	var n Name
	r := io.NewBinReaderFromIO(bytes.NewReader(buffer.Bytes()))
	n.DecodeBinary(r)
	require.NoError(t, r.Err)
	require.Equal(t, Must("rose"), n)

	r = io.NewBinReaderFromIO(bytes.NewReader([]byte{2, 'a', ' '}))
	n.DecodeBinary(r)
	require.EqualError(t, r.Err, "name 'a ' contains a whitespace")
}
