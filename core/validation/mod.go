// Package validation implements the admission of the transactions and the
// service that processes the entrypoints of the ledger.
//
// A transaction is admitted when it targets the chain of the node, carries a
// valid signature of its authority and fits in the limits of the node. A
// transaction refused for its chain or its signature never reaches the
// execution, while a transaction over the limits is executed into a rejected
// result so that the client can learn the reason.
package validation

import (
	"fmt"

	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Limits are the bounds of the transactions admitted by a node. A zero bound
// is unlimited.
type Limits struct {
	MaxInstructions    int `yaml:"max_instructions"`
	MaxWasmSize        int `yaml:"max_wasm_size"`
	MaxMetadataEntries int `yaml:"max_metadata_entries"`
}

// DefaultLimits are the limits used when a configuration does not set them.
var DefaultLimits = Limits{
	MaxInstructions:    4096,
	MaxWasmSize:        4 * 1024 * 1024,
	MaxMetadataEntries: 1024,
}

// LoadLimits returns the limits of the YAML document. The fields missing from
// the document keep their default value.
func LoadLimits(data []byte) (Limits, error) {
	limits := DefaultLimits

	err := yaml.UnmarshalStrict(data, &limits)
	if err != nil {
		return Limits{}, xerrors.Errorf("couldn't unmarshal limits: %v", err)
	}

	if limits.MaxInstructions < 0 || limits.MaxWasmSize < 0 || limits.MaxMetadataEntries < 0 {
		return Limits{}, xerrors.New("limits must not be negative")
	}

	return limits, nil
}

// Check returns a rejection.LimitCheck if the transaction exceeds one of the
// limits.
func (l Limits) Check(tx txn.SignedTransaction) error {
	exec := tx.Instructions()

	contract, isWasm := exec.Wasm()
	if isWasm {
		if l.MaxWasmSize > 0 && contract.Len() > l.MaxWasmSize {
			return rejection.LimitCheck{Reason: fmt.Sprintf(
				"WASM binary is too large, max size is %d, actual size is %d",
				l.MaxWasmSize, contract.Len())}
		}
	} else if l.MaxInstructions > 0 && exec.Len() > l.MaxInstructions {
		return rejection.LimitCheck{Reason: fmt.Sprintf(
			"too many instructions, max number is %d, actual number is %d",
			l.MaxInstructions, exec.Len())}
	}

	n := tx.Metadata().Len()
	if l.MaxMetadataEntries > 0 && n > l.MaxMetadataEntries {
		return rejection.LimitCheck{Reason: fmt.Sprintf(
			"too many metadata entries, max number is %d, actual number is %d",
			l.MaxMetadataEntries, n)}
	}

	return nil
}

// ErrorKind is the category of an admission failure.
type ErrorKind byte

const (
	// ChainMismatch is the failure when the transaction targets another chain.
	ChainMismatch ErrorKind = iota
	// InvalidSignature is the failure when the signature does not verify.
	InvalidSignature
	// LimitExceeded is the failure when the transaction exceeds a limit.
	LimitExceeded
	// Duplicate is the failure when the entrypoint is already committed or
	// appears twice in the same batch.
	Duplicate
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case ChainMismatch:
		return "chain_mismatch"
	case InvalidSignature:
		return "invalid_signature"
	case LimitExceeded:
		return "limit_exceeded"
	case Duplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("ErrorKind(%d)", byte(k))
	}
}

// AcceptError is the error returned when a transaction is not admitted.
type AcceptError struct {
	Kind   ErrorKind
	Reason error
}

// Error implements error.
func (e *AcceptError) Error() string {
	return fmt.Sprintf("transaction refused (%v): %v", e.Kind, e.Reason)
}

// Unwrap returns the reason of the failure.
func (e *AcceptError) Unwrap() error {
	return e.Reason
}

// Rejection returns the reason of a rejected result for the failure. Only the
// limit failures are reported through a result.
func (e *AcceptError) Rejection() (rejection.Reason, bool) {
	reason, ok := e.Reason.(rejection.LimitCheck)
	if e.Kind != LimitExceeded || !ok {
		return nil, false
	}

	return reason, true
}

// Acceptor checks the transactions submitted to a node.
type Acceptor struct {
	Chain  txn.ChainID
	Limits Limits
}

// NewAcceptor returns an acceptor of the chain with the default limits.
func NewAcceptor(chain txn.ChainID) Acceptor {
	return Acceptor{
		Chain:  chain,
		Limits: DefaultLimits,
	}
}

// Accept returns nil if the transaction is admitted, otherwise an
// *AcceptError. It checks the chain first, then the signature and finally the
// limits.
func (a Acceptor) Accept(tx txn.SignedTransaction) error {
	if tx.Chain() != a.Chain {
		return &AcceptError{
			Kind:   ChainMismatch,
			Reason: xerrors.Errorf("expected chain '%v' but got '%v'", a.Chain, tx.Chain()),
		}
	}

	err := tx.VerifySignature()
	if err != nil {
		return &AcceptError{Kind: InvalidSignature, Reason: err}
	}

	err = a.Limits.Check(tx)
	if err != nil {
		return &AcceptError{Kind: LimitExceeded, Reason: err}
	}

	return nil
}
