package txn

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

const (
	resultOk  = byte(0)
	resultErr = byte(1)
)

// DataTriggerStep is a step of execution produced by a data trigger.
type DataTriggerStep struct {
	id           TriggerID
	instructions ExecutionStep
}

// NewDataTriggerStep returns a new data trigger step.
func NewDataTriggerStep(id TriggerID, step ExecutionStep) DataTriggerStep {
	return DataTriggerStep{id: id, instructions: step}
}

// ID returns the identifier of the trigger.
func (s DataTriggerStep) ID() TriggerID {
	return s.id
}

// Instructions returns the step of the trigger.
func (s DataTriggerStep) Instructions() ExecutionStep {
	return s.instructions
}

// Equal returns true when both steps are the same.
func (s DataTriggerStep) Equal(other DataTriggerStep) bool {
	return s.id == other.id && s.instructions.Equal(other.instructions)
}

// EncodeBinary implements io.Serializable.
func (s DataTriggerStep) EncodeBinary(w *io.BinWriter) {
	s.id.EncodeBinary(w)
	s.instructions.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (s *DataTriggerStep) DecodeBinary(r *io.BinReader) {
	s.id.DecodeBinary(r)
	s.instructions.DecodeBinary(r)
}

// DataTriggerSequence is the ordered list of steps executed by the data
// triggers of an entrypoint.
type DataTriggerSequence struct {
	steps []DataTriggerStep
}

// NewDataTriggerSequence returns a sequence of the steps in the given order.
func NewDataTriggerSequence(steps ...DataTriggerStep) DataTriggerSequence {
	return DataTriggerSequence{steps: append([]DataTriggerStep{}, steps...)}
}

// Steps returns a copy of the steps.
func (s DataTriggerSequence) Steps() []DataTriggerStep {
	return append([]DataTriggerStep{}, s.steps...)
}

// Len returns the number of steps.
func (s DataTriggerSequence) Len() int {
	return len(s.steps)
}

// Contains returns true if one of the steps comes from the trigger.
func (s DataTriggerSequence) Contains(id TriggerID) bool {
	for _, step := range s.steps {
		if step.id == id {
			return true
		}
	}

	return false
}

// Equal returns true when both sequences have the same steps in the same order.
func (s DataTriggerSequence) Equal(other DataTriggerSequence) bool {
	if len(s.steps) != len(other.steps) {
		return false
	}

	for i, step := range s.steps {
		if !step.Equal(other.steps[i]) {
			return false
		}
	}

	return true
}

// EncodeBinary implements io.Serializable.
func (s DataTriggerSequence) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(s.steps)))

	for _, step := range s.steps {
		step.EncodeBinary(w)
	}
}

// DecodeBinary implements io.Serializable.
func (s *DataTriggerSequence) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}

	steps := make([]DataTriggerStep, 0, minUint64(n, maxPrealloc))

	for i := uint64(0); i < n && r.Err == nil; i++ {
		var step DataTriggerStep
		step.DecodeBinary(r)
		steps = append(steps, step)
	}

	s.steps = steps
}

// Result is the outcome of the execution of an entrypoint. It is either the
// sequence of data trigger steps that followed a success, or the reason of the
// rejection.
//
// - implements serde.Message
type Result struct {
	steps  DataTriggerSequence
	reason rejection.Reason
}

// NewOk returns the result of a successful execution.
func NewOk(steps DataTriggerSequence) Result {
	return Result{steps: steps}
}

// NewErr returns the result of a rejected entrypoint. It panics if the reason
// is nil.
func NewErr(reason rejection.Reason) Result {
	if reason == nil {
		panic("result of a rejection requires a reason")
	}

	return Result{reason: reason}
}

// IsOK returns true if the execution succeeded.
func (r Result) IsOK() bool {
	return r.reason == nil
}

// Steps returns the data trigger steps of a successful execution.
func (r Result) Steps() (DataTriggerSequence, bool) {
	return r.steps, r.reason == nil
}

// Reason returns the reason of a rejection.
func (r Result) Reason() (rejection.Reason, bool) {
	return r.reason, r.reason != nil
}

// ContainsDataTrigger returns true if the execution succeeded and one of its
// steps comes from the trigger.
func (r Result) ContainsDataTrigger(id TriggerID) bool {
	return r.IsOK() && r.steps.Contains(id)
}

// Hash returns the hash of the result.
func (r Result) Hash() ResultHash {
	return crypto.NewHashOf[Result](r)
}

// Equal returns true when both results are the same variant with the same
// content.
func (r Result) Equal(other Result) bool {
	if r.IsOK() != other.IsOK() {
		return false
	}

	if r.IsOK() {
		return r.steps.Equal(other.steps)
	}

	return rejection.Equal(r.reason, other.reason)
}

// String implements fmt.Stringer.
func (r Result) String() string {
	if r.IsOK() {
		return "Ok"
	}

	return "Err: " + r.reason.Error()
}

// EncodeBinary implements io.Serializable.
func (r Result) EncodeBinary(w *io.BinWriter) {
	if r.IsOK() {
		w.WriteB(resultOk)
		r.steps.EncodeBinary(w)
		return
	}

	w.WriteB(resultErr)
	rejection.Encode(w, r.reason)
}

// DecodeBinary implements io.Serializable.
func (r *Result) DecodeBinary(br *io.BinReader) {
	tag := br.ReadB()
	if br.Err != nil {
		return
	}

	switch tag {
	case resultOk:
		var steps DataTriggerSequence
		steps.DecodeBinary(br)
		if br.Err == nil {
			*r = NewOk(steps)
		}
	case resultErr:
		reason := rejection.Decode(br)
		if br.Err == nil {
			*r = NewErr(reason)
		}
	default:
		br.Err = xerrors.Errorf("unknown result %d", tag)
	}
}

// Serialize implements serde.Message.
func (r Result) Serialize(ctx serde.Context) ([]byte, error) {
	format := resultFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, r)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}
