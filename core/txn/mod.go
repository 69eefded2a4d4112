// Package txn defines the lifecycle of the transactions of the ledger.
//
// A transaction starts as a payload assembled by a builder. The payload is
// bound to the chain it is meant for and to the account acting on its behalf,
// which protects it against a replay on another chain or by another account.
// Signing the payload produces a versioned signed transaction, identified by
// its hash.
//
// The unit of execution is the entrypoint: either a signed transaction
// submitted by a client, or a time trigger fired by the ledger itself. Both
// kinds share one hash domain so that a result refers to the entrypoint that
// caused it without knowing its kind.
//
// Every type of this package is immutable once created, apart from the
// builder. They can be shared between goroutines.
package txn

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/crypto/common"
	"go.dedis.ch/ledgertx/serde"
	"go.dedis.ch/ledgertx/serde/registry"
	"golang.org/x/xerrors"
)

var (
	txFormats         = registry.NewSimpleRegistry()
	entrypointFormats = registry.NewSimpleRegistry()
	resultFormats     = registry.NewSimpleRegistry()

	// sigFactory restores the signatures of the binary encoding, where the
	// algorithm is the one of the authority.
	sigFactory = common.NewSignatureFactory()
)

// RegisterTransactionFormat registers the engine for the provided format.
func RegisterTransactionFormat(f serde.Format, e serde.FormatEngine) {
	txFormats.Register(f, e)
}

// RegisterEntrypointFormat registers the engine for the provided format.
func RegisterEntrypointFormat(f serde.Format, e serde.FormatEngine) {
	entrypointFormats.Register(f, e)
}

// RegisterResultFormat registers the engine for the provided format.
func RegisterResultFormat(f serde.Format, e serde.FormatEngine) {
	resultFormats.Register(f, e)
}

// SignatureFac is the key of the signature factory.
type SignatureFac struct{}

// ReasonFac is the key of the rejection reason factory.
type ReasonFac struct{}

// TransactionHash is the hash of a signed transaction.
type TransactionHash = crypto.HashOf[SignedTransaction]

// PayloadHash is the hash of a payload. It is the message signed by the
// authority.
type PayloadHash = crypto.HashOf[Payload]

// EntrypointHash is the hash of an entrypoint, whatever its kind.
type EntrypointHash = crypto.HashOf[Entrypoint]

// TimeTriggerHash is the hash of a time trigger entrypoint.
type TimeTriggerHash = crypto.HashOf[TimeTriggerEntrypoint]

// ResultHash is the hash of a result.
type ResultHash = crypto.HashOf[Result]

// ChainID is the identifier of a chain. A transaction is only valid on the
// chain it has been created for.
type ChainID string

// String implements fmt.Stringer.
func (c ChainID) String() string {
	return string(c)
}

// EncodeBinary implements io.Serializable.
func (c ChainID) EncodeBinary(w *io.BinWriter) {
	w.WriteString(string(c))
}

// DecodeBinary implements io.Serializable.
func (c *ChainID) DecodeBinary(r *io.BinReader) {
	*c = ChainID(r.ReadString())
}

// TriggerID is the identifier of a trigger.
type TriggerID struct {
	name.Name
}

// NewTriggerID returns the trigger identifier of the name.
func NewTriggerID(n name.Name) TriggerID {
	return TriggerID{Name: n}
}

// ParseTriggerID returns the trigger identifier of the string if it is a valid
// name.
func ParseTriggerID(text string) (TriggerID, error) {
	n, err := name.New(text)
	if err != nil {
		return TriggerID{}, xerrors.Errorf("invalid trigger: %v", err)
	}

	return TriggerID{Name: n}, nil
}
