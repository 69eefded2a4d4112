package registry

import (
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

// SimpleRegistry is the default implementation of a registry. Registrations
// are expected to happen during package initialization.
//
// - implements registry.Registry
type SimpleRegistry struct {
	store map[serde.Format]serde.FormatEngine
}

// NewSimpleRegistry returns a new empty registry.
func NewSimpleRegistry() *SimpleRegistry {
	return &SimpleRegistry{
		store: make(map[serde.Format]serde.FormatEngine),
	}
}

// Register implements registry.Registry.
func (r *SimpleRegistry) Register(name serde.Format, f serde.FormatEngine) {
	r.store[name] = f
}

// Get implements registry.Registry. It returns the engine of the format if it
// exists, otherwise an engine that always fails.
func (r *SimpleRegistry) Get(name serde.Format) serde.FormatEngine {
	engine := r.store[name]
	if engine == nil {
		return emptyFormat{name: name}
	}

	return engine
}

// Has implements registry.Registry.
func (r *SimpleRegistry) Has(name serde.Format) bool {
	_, found := r.store[name]
	return found
}

// emptyFormat is returned for unknown formats.
//
// - implements serde.FormatEngine
type emptyFormat struct {
	name serde.Format
}

// Encode implements serde.FormatEngine. It always returns an error.
func (f emptyFormat) Encode(serde.Context, serde.Message) ([]byte, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}

// Decode implements serde.FormatEngine. It always returns an error.
func (f emptyFormat) Decode(serde.Context, []byte) (serde.Message, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}
