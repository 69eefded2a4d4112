// Package registry defines the format registry mechanism.
//
// The default implementation always returns an engine: an unknown format
// resolves to an empty engine that fails every request, so that callers can
// report a meaningful error without checking the registration first.
package registry

import (
	"go.dedis.ch/ledgertx/serde"
)

// Registry is an interface to register and look up the format engines of a
// message type.
type Registry interface {
	// Register binds the engine to the format. A second registration for the
	// same format replaces the first one.
	Register(serde.Format, serde.FormatEngine)

	// Get returns the engine bound to the format.
	Get(serde.Format) serde.FormatEngine

	// Has returns true if an engine is bound to the format.
	Has(serde.Format) bool
}
