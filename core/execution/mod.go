// Package execution defines the service that executes the entrypoints of the
// ledger.
//
// The interpretation of the instructions belongs to the engine. This package
// fixes what the engine reports: a result that is either the sequence of data
// trigger steps that followed a success, or a rejection reason.
package execution

import (
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/txn"
)

// Service is the execution service that defines the primitives to execute an
// entrypoint.
type Service interface {
	// Execute must run the entrypoint and return its result. An error is
	// returned only when the engine fails for a reason unrelated to the
	// entrypoint, a rejection is reported through the result.
	Execute(e txn.Entrypoint) (txn.Result, error)
}

// Step is the context of the execution of a single instruction.
type Step struct {
	// Authority is the account on behalf of which the instruction runs.
	Authority account.ID

	// Instruction is the instruction to execute.
	Instruction isi.Instruction

	// Depth is zero for the instructions of the entrypoint, and the depth of
	// the data trigger otherwise.
	Depth int
}
