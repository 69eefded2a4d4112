// Package serde defines the primitives to serialize and deserialize (serde)
// the messages of the ledger.
//
// A message is serialized according to the format of the context it is given.
// Each message type keeps a registry of format engines, and each format is
// implemented in its own package that registers the engines at import time.
// The supported formats are the following:
// - JSON
// - Binary (canonical, used to compute the fingerprints)
package serde

import "io"

// Format is the identifier of a format implementation.
type Format string

const (
	// FormatJSON is the identifier of the JSON format.
	FormatJSON Format = "JSON"

	// FormatBinary is the identifier of the canonical binary format.
	FormatBinary Format = "BINARY"
)

// Message is the interface that a message must implement to be serialized.
type Message interface {
	// Serialize returns the data of the message according to the format of
	// the context.
	Serialize(ctx Context) ([]byte, error)
}

// Factory is the interface that a message factory must implement to be able
// to deserialize a message.
type Factory interface {
	// Deserialize returns the message decoded from the data according to the
	// format of the context.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// FormatEngine is the interface to implement to support a format for a
// message type.
type FormatEngine interface {
	// Encode returns the message serialized in a specific format.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message decoded from the data.
	Decode(ctx Context, data []byte) (Message, error)
}

// Fingerprinter is an interface to write a deterministic binary
// representation of an object.
type Fingerprinter interface {
	// Fingerprint writes a deterministic binary representation of the object
	// into the writer.
	Fingerprint(writer io.Writer) error
}
