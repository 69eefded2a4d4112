package txn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/internal/testing/fake"
)

func TestEntrypoint_External(t *testing.T) {
	tx := makeTx(t)
	e := NewExternal(tx)

	require.Equal(t, ExternalKind, e.Kind())
	require.True(t, e.IsExternal())
	require.True(t, e.Authority().Equal(tx.Authority()))

	inner, ok := e.External()
	require.True(t, ok)
	require.True(t, inner.Equal(tx))

	_, ok = e.Time()
	require.False(t, ok)

	require.Equal(t, tx.HashAsEntrypoint(), e.Hash())
	require.Equal(t, "External:"+tx.Hash().String(), e.String())
}

func TestEntrypoint_Time(t *testing.T) {
	tt := makeTimeTrigger()
	e := NewTime(tt)

	require.Equal(t, TimeKind, e.Kind())
	require.False(t, e.IsExternal())
	require.True(t, e.Authority().Equal(tt.Authority()))

	inner, ok := e.Time()
	require.True(t, ok)
	require.True(t, inner.Equal(tt))
	require.Equal(t, "every-minute", inner.ID().String())
	require.Equal(t, 1, inner.Instructions().Len())

	_, ok = e.External()
	require.False(t, ok)

	require.Equal(t, crypto.Retype[Entrypoint](tt.Hash()), e.Hash())
	require.Equal(t, tt.Hash().Bytes(), e.Hash().Bytes())
}

func TestEntrypoint_Equal(t *testing.T) {
	external := NewExternal(makeTx(t))
	time := NewTime(makeTimeTrigger())

	require.True(t, external.Equal(NewExternal(makeTx(t))))
	require.True(t, time.Equal(NewTime(makeTimeTrigger())))
	require.False(t, external.Equal(time))
	require.False(t, time.Equal(external))
	require.False(t, external.Equal(NewExternal(makeOtherTx(t))))
	require.NotEqual(t, external.Hash(), time.Hash())
}

func TestEntrypoint_Binary(t *testing.T) {
	for _, e := range []Entrypoint{NewExternal(makeTx(t)), NewTime(makeTimeTrigger())} {
		data := encodeBinary(t, &e)
		require.Equal(t, byte(e.Kind()), data[0])

		var decoded Entrypoint
		require.NoError(t, decodeBinary(data, &decoded))
		require.True(t, decoded.Equal(e))
		require.Equal(t, e.Hash(), decoded.Hash())
	}

	var decoded Entrypoint
	err := decodeBinary([]byte{3}, &decoded)
	require.EqualError(t, err, "unknown entrypoint 3")
}

func TestEntrypoint_BinaryTruncated(t *testing.T) {
	original := NewTime(makeTimeTrigger())

	for _, e := range []Entrypoint{NewExternal(makeTx(t)), NewTime(makeTimeTrigger())} {
		data := encodeBinary(t, &e)

		decoded := original
		require.Error(t, decodeBinary(data[:len(data)-1], &decoded))
		require.True(t, decoded.Equal(original))
	}

	tt := makeTimeTrigger()
	data := encodeBinary(t, &tt)

	decoded := makeTimeTrigger()
	require.Error(t, decodeBinary(data[:len(data)/2], &decoded))
	require.True(t, decoded.Equal(tt))
}

func TestEntrypointKind_String(t *testing.T) {
	require.Equal(t, "External", ExternalKind.String())
	require.Equal(t, "Time", TimeKind.String())
	require.Equal(t, "Unknown", EntrypointKind(9).String())
}

func TestEntrypoint_Serialize(t *testing.T) {
	e := NewTime(makeTimeTrigger())

	data, err := e.Serialize(fake.NewContext())
	require.NoError(t, err)
	require.Equal(t, fake.GetFakeFormatValue(), data)

	_, err = e.Serialize(fake.NewBadContext())
	require.EqualError(t, err, fake.Err("failed to encode"))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeTimeTrigger() TimeTriggerEntrypoint {
	id, _ := ParseTriggerID("every-minute")
	step := NewExecutionStep(isi.NewLog("INFO", "tick"))

	return NewTimeTriggerEntrypoint(id, step, makeAccount(makeSigner(1), "wonderland"))
}
