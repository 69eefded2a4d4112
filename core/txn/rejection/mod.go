// Package rejection defines the closed set of reasons for which the execution
// of an entrypoint is rejected.
//
// The set is sealed: only the types of this package implement Reason, so that
// a switch over Kind is exhaustive. The reasons are reported by the execution
// engine, this package only represents them.
package rejection

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/serde"
	"go.dedis.ch/ledgertx/serde/registry"
	"golang.org/x/xerrors"
)

var reasonFormats = registry.NewSimpleRegistry()

// RegisterReasonFormat registers the engine for the provided format.
func RegisterReasonFormat(f serde.Format, e serde.FormatEngine) {
	reasonFormats.Register(f, e)
}

// Kind is the category of a rejection reason.
type Kind byte

const (
	// AccountDoesNotExistKind is the kind of AccountDoesNotExist.
	AccountDoesNotExistKind Kind = iota
	// LimitCheckKind is the kind of LimitCheck.
	LimitCheckKind
	// ValidationKind is the kind of Validation.
	ValidationKind
	// InstructionExecutionKind is the kind of InstructionExecution.
	InstructionExecutionKind
	// WasmExecutionKind is the kind of WasmExecution.
	WasmExecutionKind
	// TriggerExecutionKind is the kind of TriggerExecution.
	TriggerExecutionKind
)

var kindNames = map[Kind]string{
	AccountDoesNotExistKind:  "AccountDoesNotExist",
	LimitCheckKind:           "LimitCheck",
	ValidationKind:           "Validation",
	InstructionExecutionKind: "InstructionExecution",
	WasmExecutionKind:        "WasmExecution",
	TriggerExecutionKind:     "TriggerExecution",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	n, found := kindNames[k]
	if !found {
		return fmt.Sprintf("Kind(%d)", byte(k))
	}

	return n
}

// ParseKind returns the kind of its name.
func ParseKind(text string) (Kind, error) {
	for k, n := range kindNames {
		if n == text {
			return k, nil
		}
	}

	return 0, xerrors.Errorf("unknown rejection '%s'", text)
}

// Reason is the reason why an entrypoint has been rejected. It is also an
// error so that an execution engine can return it as is.
type Reason interface {
	error
	serde.Message

	// Kind returns the category of the reason.
	Kind() Kind

	// Equal returns true if the other reason is the same.
	Equal(other Reason) bool

	encodeFields(w *io.BinWriter)
}

// AccountDoesNotExist is the reason when the authority of an entrypoint is
// not registered.
//
// - implements rejection.Reason
type AccountDoesNotExist struct {
	Account account.ID
}

// LimitCheck is the reason when a transaction exceeds the limits of the chain,
// such as the number of instructions.
//
// - implements rejection.Reason
type LimitCheck struct {
	Reason string
}

// ValidationFailKind is the category of a validation failure.
type ValidationFailKind byte

const (
	// NotPermitted is the failure when the authority lacks a permission.
	NotPermitted ValidationFailKind = iota
	// InstructionFailed is the failure when an instruction cannot be applied.
	InstructionFailed
	// QueryFailed is the failure when a query of the executor fails.
	QueryFailed
	// TooComplex is the failure when the executor runs out of fuel.
	TooComplex
	// InternalError is the failure when the executor itself is broken.
	InternalError

	numValidationFailKinds
)

var validationNames = [numValidationFailKinds]string{
	"NotPermitted", "InstructionFailed", "QueryFailed", "TooComplex", "InternalError",
}

// String implements fmt.Stringer.
func (k ValidationFailKind) String() string {
	if k >= numValidationFailKinds {
		return fmt.Sprintf("ValidationFailKind(%d)", byte(k))
	}

	return validationNames[k]
}

// ParseValidationFailKind returns the kind of its name.
func ParseValidationFailKind(text string) (ValidationFailKind, error) {
	for i, n := range validationNames {
		if n == text {
			return ValidationFailKind(i), nil
		}
	}

	return 0, xerrors.Errorf("unknown validation failure '%s'", text)
}

// ValidationFail is the failure reported by the executor.
type ValidationFail struct {
	Kind   ValidationFailKind
	Reason string
}

// Error implements error.
func (f ValidationFail) Error() string {
	switch f.Kind {
	case NotPermitted:
		return "Operation is not permitted: " + f.Reason
	case InstructionFailed:
		return "Instruction execution failed: " + f.Reason
	case QueryFailed:
		return "Query execution failed: " + f.Reason
	case TooComplex:
		return "Operation is too complex"
	case InternalError:
		return "Internal error occurred: " + f.Reason
	default:
		return f.Kind.String()
	}
}

// Validation is the reason when the executor refuses the transaction.
//
// - implements rejection.Reason
type Validation struct {
	Fail ValidationFail
}

// InstructionExecution is the reason when an instruction fails.
//
// - implements rejection.Reason
type InstructionExecution struct {
	Instruction isi.Instruction
	Reason      string
}

// WasmExecution is the reason when the smart contract fails.
//
// - implements rejection.Reason
type WasmExecution struct {
	Reason string
}

// TriggerExecutionFail is the category of a trigger failure.
type TriggerExecutionFail byte

const (
	// MaxDepthExceeded is the failure when chained data triggers fire deeper
	// than the bound of the executor.
	MaxDepthExceeded TriggerExecutionFail = iota
)

// String implements fmt.Stringer.
func (f TriggerExecutionFail) String() string {
	if f == MaxDepthExceeded {
		return "MaxDepthExceeded"
	}

	return fmt.Sprintf("TriggerExecutionFail(%d)", byte(f))
}

// TriggerExecution is the reason when a time trigger or an invoked data
// trigger fails.
//
// - implements rejection.Reason
type TriggerExecution struct {
	Fail TriggerExecutionFail
}

// Kind implements rejection.Reason.
func (AccountDoesNotExist) Kind() Kind { return AccountDoesNotExistKind }

// Kind implements rejection.Reason.
func (LimitCheck) Kind() Kind { return LimitCheckKind }

// Kind implements rejection.Reason.
func (Validation) Kind() Kind { return ValidationKind }

// Kind implements rejection.Reason.
func (InstructionExecution) Kind() Kind { return InstructionExecutionKind }

// Kind implements rejection.Reason.
func (WasmExecution) Kind() Kind { return WasmExecutionKind }

// Kind implements rejection.Reason.
func (TriggerExecution) Kind() Kind { return TriggerExecutionKind }

// Error implements error.
func (r AccountDoesNotExist) Error() string {
	return fmt.Sprintf("Failed to find account: %v", r.Account)
}

// Error implements error.
func (r LimitCheck) Error() string {
	return "Transaction limits exceeded: " + r.Reason
}

// Error implements error.
func (r Validation) Error() string {
	return r.Fail.Error()
}

// Error implements error. The instruction is described by its kind only.
func (r InstructionExecution) Error() string {
	return fmt.Sprintf("Failed to execute instruction of type %v: %s",
		r.Instruction.Kind(), r.Reason)
}

// Error implements error.
func (r WasmExecution) Error() string {
	return "Failed to execute wasm binary: " + r.Reason
}

// Error implements error.
func (r TriggerExecution) Error() string {
	switch r.Fail {
	case MaxDepthExceeded:
		return "Exceeded maximum depth for chained data triggers"
	default:
		return r.Fail.String()
	}
}

// Equal implements rejection.Reason.
func (r AccountDoesNotExist) Equal(other Reason) bool {
	o, ok := other.(AccountDoesNotExist)
	return ok && r.Account.Equal(o.Account)
}

// Equal implements rejection.Reason.
func (r LimitCheck) Equal(other Reason) bool {
	o, ok := other.(LimitCheck)
	return ok && r == o
}

// Equal implements rejection.Reason.
func (r Validation) Equal(other Reason) bool {
	o, ok := other.(Validation)
	return ok && r == o
}

// Equal implements rejection.Reason.
func (r InstructionExecution) Equal(other Reason) bool {
	o, ok := other.(InstructionExecution)
	return ok && r.Reason == o.Reason && r.Instruction.Equal(o.Instruction)
}

// Equal implements rejection.Reason.
func (r WasmExecution) Equal(other Reason) bool {
	o, ok := other.(WasmExecution)
	return ok && r == o
}

// Equal implements rejection.Reason.
func (r TriggerExecution) Equal(other Reason) bool {
	o, ok := other.(TriggerExecution)
	return ok && r == o
}

// Serialize implements serde.Message.
func (r AccountDoesNotExist) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

// Serialize implements serde.Message.
func (r LimitCheck) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

// Serialize implements serde.Message.
func (r Validation) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

// Serialize implements serde.Message.
func (r InstructionExecution) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

// Serialize implements serde.Message.
func (r WasmExecution) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

// Serialize implements serde.Message.
func (r TriggerExecution) Serialize(ctx serde.Context) ([]byte, error) {
	return serialize(ctx, r)
}

func serialize(ctx serde.Context, r Reason) ([]byte, error) {
	format := reasonFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, r)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode reason: %v", err)
	}

	return data, nil
}

func (r AccountDoesNotExist) encodeFields(w *io.BinWriter) {
	r.Account.EncodeBinary(w)
}

func (r LimitCheck) encodeFields(w *io.BinWriter) {
	w.WriteString(r.Reason)
}

func (r Validation) encodeFields(w *io.BinWriter) {
	w.WriteB(byte(r.Fail.Kind))
	w.WriteString(r.Fail.Reason)
}

func (r InstructionExecution) encodeFields(w *io.BinWriter) {
	r.Instruction.EncodeBinary(w)
	w.WriteString(r.Reason)
}

func (r WasmExecution) encodeFields(w *io.BinWriter) {
	w.WriteString(r.Reason)
}

func (r TriggerExecution) encodeFields(w *io.BinWriter) {
	w.WriteB(byte(r.Fail))
}

// Encode writes the canonical encoding of the reason: the kind followed by
// the fields of the variant.
func Encode(w *io.BinWriter, r Reason) {
	if r == nil {
		w.Err = xerrors.New("missing reason")
		return
	}

	w.WriteB(byte(r.Kind()))
	r.encodeFields(w)
}

// Decode reads a reason written by Encode.
func Decode(r *io.BinReader) Reason {
	kind := Kind(r.ReadB())
	if r.Err != nil {
		return nil
	}

	var reason Reason

	switch kind {
	case AccountDoesNotExistKind:
		var id account.ID
		id.DecodeBinary(r)
		reason = AccountDoesNotExist{Account: id}
	case LimitCheckKind:
		reason = LimitCheck{Reason: r.ReadString()}
	case ValidationKind:
		fail := ValidationFail{Kind: ValidationFailKind(r.ReadB())}
		fail.Reason = r.ReadString()
		if r.Err == nil && fail.Kind >= numValidationFailKinds {
			r.Err = xerrors.Errorf("unknown validation failure %d", fail.Kind)
		}
		reason = Validation{Fail: fail}
	case InstructionExecutionKind:
		var instr isi.Instruction
		instr.DecodeBinary(r)
		reason = InstructionExecution{Instruction: instr, Reason: r.ReadString()}
	case WasmExecutionKind:
		reason = WasmExecution{Reason: r.ReadString()}
	case TriggerExecutionKind:
		fail := TriggerExecutionFail(r.ReadB())
		if r.Err == nil && fail != MaxDepthExceeded {
			r.Err = xerrors.Errorf("unknown trigger failure %d", fail)
		}
		reason = TriggerExecution{Fail: fail}
	default:
		r.Err = xerrors.Errorf("unknown rejection kind %d", kind)
	}

	if r.Err != nil {
		return nil
	}

	return reason
}

// Equal returns true if both reasons are the same. Two nil reasons are equal.
func Equal(a, b Reason) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(b)
}

// Factory is the factory to deserialize rejection reasons.
//
// - implements serde.Factory
type Factory struct{}

// NewFactory returns a new instance of the factory.
func NewFactory() Factory {
	return Factory{}
}

// Deserialize implements serde.Factory.
func (f Factory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.ReasonOf(ctx, data)
}

// ReasonOf returns the reason of the data if appropriate, otherwise an error.
func (f Factory) ReasonOf(ctx serde.Context, data []byte) (Reason, error) {
	format := reasonFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode reason: %v", err)
	}

	reason, ok := msg.(Reason)
	if !ok {
		return nil, xerrors.Errorf("invalid reason of type '%T'", msg)
	}

	return reason, nil
}
