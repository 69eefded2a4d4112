package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/internal/testing/fake"
	"go.dedis.ch/ledgertx/serde"
)

func TestSimpleRegistry_Register(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fake.Format{})
	require.Len(t, registry.store, 1)

	registry.Register(serde.FormatJSON, fake.Format{})
	require.Len(t, registry.store, 1)

	registry.Register(serde.FormatBinary, fake.Format{})
	require.Len(t, registry.store, 2)
}

func TestSimpleRegistry_Get(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fake.Format{})

	format := registry.Get(serde.FormatJSON)
	require.Equal(t, fake.Format{}, format)

	format = registry.Get(serde.Format("unknown"))
	require.NotNil(t, format)

	_, err := format.Encode(serde.NewContext(nil), nil)
	require.EqualError(t, err, "format 'unknown' is not implemented")

	_, err = format.Decode(serde.NewContext(nil), nil)
	require.EqualError(t, err, "format 'unknown' is not implemented")
}

func TestSimpleRegistry_Has(t *testing.T) {
	registry := NewSimpleRegistry()
	require.False(t, registry.Has(serde.FormatJSON))

	registry.Register(serde.FormatJSON, fake.Format{})
	require.True(t, registry.Has(serde.FormatJSON))
	require.False(t, registry.Has(serde.FormatBinary))
}
