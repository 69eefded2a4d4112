package txn

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

// TimeTriggerEntrypoint is a step of execution scheduled by a time trigger.
type TimeTriggerEntrypoint struct {
	id           TriggerID
	instructions ExecutionStep
	authority    account.ID
}

// NewTimeTriggerEntrypoint returns a new time trigger entrypoint.
func NewTimeTriggerEntrypoint(id TriggerID, step ExecutionStep, authority account.ID) TimeTriggerEntrypoint {
	return TimeTriggerEntrypoint{
		id:           id,
		instructions: step,
		authority:    authority,
	}
}

// ID returns the identifier of the trigger.
func (e TimeTriggerEntrypoint) ID() TriggerID {
	return e.id
}

// Instructions returns the step to execute.
func (e TimeTriggerEntrypoint) Instructions() ExecutionStep {
	return e.instructions
}

// Authority returns the account acting on behalf of the trigger.
func (e TimeTriggerEntrypoint) Authority() account.ID {
	return e.authority
}

// Hash returns the hash of the entrypoint.
func (e TimeTriggerEntrypoint) Hash() TimeTriggerHash {
	return crypto.NewHashOf[TimeTriggerEntrypoint](e)
}

// Equal returns true when both entrypoints are the same.
func (e TimeTriggerEntrypoint) Equal(other TimeTriggerEntrypoint) bool {
	return e.id == other.id && e.instructions.Equal(other.instructions) &&
		e.authority.Equal(other.authority)
}

// EncodeBinary implements io.Serializable.
func (e TimeTriggerEntrypoint) EncodeBinary(w *io.BinWriter) {
	e.id.EncodeBinary(w)
	e.instructions.EncodeBinary(w)
	e.authority.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (e *TimeTriggerEntrypoint) DecodeBinary(r *io.BinReader) {
	var tt TimeTriggerEntrypoint

	tt.id.DecodeBinary(r)
	tt.instructions.DecodeBinary(r)
	tt.authority.DecodeBinary(r)

	if r.Err == nil {
		*e = tt
	}
}

// EntrypointKind is the kind of an entrypoint.
type EntrypointKind uint8

const (
	// ExternalKind is the kind of a signed transaction submitted by a client.
	ExternalKind EntrypointKind = iota
	// TimeKind is the kind of a time trigger.
	TimeKind
)

// String implements fmt.Stringer.
func (k EntrypointKind) String() string {
	switch k {
	case ExternalKind:
		return "External"
	case TimeKind:
		return "Time"
	default:
		return "Unknown"
	}
}

// Entrypoint is the unit of execution of the ledger.
//
// - implements serde.Message
type Entrypoint struct {
	kind     EntrypointKind
	external SignedTransaction
	time     TimeTriggerEntrypoint
}

// NewExternal returns the entrypoint of a signed transaction.
func NewExternal(tx SignedTransaction) Entrypoint {
	return Entrypoint{kind: ExternalKind, external: tx}
}

// NewTime returns the entrypoint of a time trigger.
func NewTime(e TimeTriggerEntrypoint) Entrypoint {
	return Entrypoint{kind: TimeKind, time: e}
}

// Kind returns the kind of the entrypoint.
func (e Entrypoint) Kind() EntrypointKind {
	return e.kind
}

// IsExternal returns true if the entrypoint is a signed transaction.
func (e Entrypoint) IsExternal() bool {
	return e.kind == ExternalKind
}

// External returns the signed transaction of the entrypoint if it is one.
func (e Entrypoint) External() (SignedTransaction, bool) {
	return e.external, e.kind == ExternalKind
}

// Time returns the time trigger of the entrypoint if it is one.
func (e Entrypoint) Time() (TimeTriggerEntrypoint, bool) {
	return e.time, e.kind == TimeKind
}

// Authority returns the account acting on behalf of the entrypoint.
func (e Entrypoint) Authority() account.ID {
	if e.kind == TimeKind {
		return e.time.authority
	}

	return e.external.Authority()
}

// Hash returns the hash of the entrypoint. It is the hash of the inner value
// so that an external entrypoint and its transaction share the same hash.
func (e Entrypoint) Hash() EntrypointHash {
	if e.kind == TimeKind {
		return crypto.Retype[Entrypoint](e.time.Hash())
	}

	return e.external.HashAsEntrypoint()
}

// Equal returns true when both entrypoints are the same.
func (e Entrypoint) Equal(other Entrypoint) bool {
	if e.kind != other.kind {
		return false
	}

	if e.kind == TimeKind {
		return e.time.Equal(other.time)
	}

	return e.external.Equal(other.external)
}

// String implements fmt.Stringer.
func (e Entrypoint) String() string {
	return e.kind.String() + ":" + e.Hash().String()
}

// EncodeBinary implements io.Serializable.
func (e Entrypoint) EncodeBinary(w *io.BinWriter) {
	switch e.kind {
	case ExternalKind:
		w.WriteB(byte(ExternalKind))
		e.external.EncodeBinary(w)
	case TimeKind:
		w.WriteB(byte(TimeKind))
		e.time.EncodeBinary(w)
	default:
		w.Err = xerrors.Errorf("unknown entrypoint %d", e.kind)
	}
}

// DecodeBinary implements io.Serializable.
func (e *Entrypoint) DecodeBinary(r *io.BinReader) {
	kind := EntrypointKind(r.ReadB())
	if r.Err != nil {
		return
	}

	switch kind {
	case ExternalKind:
		var tx SignedTransaction
		tx.DecodeBinary(r)
		if r.Err == nil {
			*e = NewExternal(tx)
		}
	case TimeKind:
		var tt TimeTriggerEntrypoint
		tt.DecodeBinary(r)
		if r.Err == nil {
			*e = NewTime(tt)
		}
	default:
		r.Err = xerrors.Errorf("unknown entrypoint %d", kind)
	}
}

// Serialize implements serde.Message.
func (e Entrypoint) Serialize(ctx serde.Context) ([]byte, error) {
	format := entrypointFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, e)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}
