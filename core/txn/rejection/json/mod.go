// Package json implements the JSON format of the rejection reasons. A reason
// is an object with a single field named after its kind.
package json

import (
	"encoding/json"

	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

func init() {
	rejection.RegisterReasonFormat(serde.FormatJSON, reasonFormat{})
}

// ReasonJSON is the JSON message of a rejection reason. Exactly one field is
// set.
type ReasonJSON struct {
	AccountDoesNotExist  *AccountJSON              `json:",omitempty"`
	LimitCheck           *LimitCheckJSON           `json:",omitempty"`
	Validation           map[string]string         `json:",omitempty"`
	InstructionExecution *InstructionExecutionJSON `json:",omitempty"`
	WasmExecution        *string                   `json:",omitempty"`
	TriggerExecution     *string                   `json:",omitempty"`
}

// AccountJSON is the JSON message of a missing account.
type AccountJSON struct {
	Account account.ID
}

// LimitCheckJSON is the JSON message of a limit violation.
type LimitCheckJSON struct {
	Reason string `json:"reason"`
}

// InstructionExecutionJSON is the JSON message of an instruction failure.
type InstructionExecutionJSON struct {
	Instruction isi.Instruction `json:"instruction"`
	Reason      string          `json:"reason"`
}

// reasonFormat is the engine to encode and decode rejection reasons in JSON.
//
// - implements serde.FormatEngine
type reasonFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the reason
// if appropriate, otherwise an error.
func (reasonFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	reason, ok := msg.(rejection.Reason)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	var m ReasonJSON

	switch r := reason.(type) {
	case rejection.AccountDoesNotExist:
		m.AccountDoesNotExist = &AccountJSON{Account: r.Account}
	case rejection.LimitCheck:
		m.LimitCheck = &LimitCheckJSON{Reason: r.Reason}
	case rejection.Validation:
		m.Validation = map[string]string{r.Fail.Kind.String(): r.Fail.Reason}
	case rejection.InstructionExecution:
		m.InstructionExecution = &InstructionExecutionJSON{
			Instruction: r.Instruction,
			Reason:      r.Reason,
		}
	case rejection.WasmExecution:
		text := r.Reason
		m.WasmExecution = &text
	case rejection.TriggerExecution:
		fail := r.Fail.String()
		m.TriggerExecution = &fail
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It returns the reason of the JSON data
// if appropriate, otherwise an error.
func (reasonFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var raw map[string]json.RawMessage

	err := ctx.Unmarshal(data, &raw)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	if len(raw) != 1 {
		return nil, xerrors.Errorf("expected one reason but found %d", len(raw))
	}

	var key string
	for k := range raw {
		key = k
	}

	m := ReasonJSON{}
	err = ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	switch {
	case m.AccountDoesNotExist != nil:
		return rejection.AccountDoesNotExist{Account: m.AccountDoesNotExist.Account}, nil
	case m.LimitCheck != nil:
		return rejection.LimitCheck{Reason: m.LimitCheck.Reason}, nil
	case len(m.Validation) == 1:
		return decodeValidation(m.Validation)
	case m.InstructionExecution != nil:
		return rejection.InstructionExecution{
			Instruction: m.InstructionExecution.Instruction,
			Reason:      m.InstructionExecution.Reason,
		}, nil
	case m.WasmExecution != nil:
		return rejection.WasmExecution{Reason: *m.WasmExecution}, nil
	case m.TriggerExecution != nil:
		if *m.TriggerExecution != rejection.MaxDepthExceeded.String() {
			return nil, xerrors.Errorf("unknown trigger failure '%s'", *m.TriggerExecution)
		}

		return rejection.TriggerExecution{Fail: rejection.MaxDepthExceeded}, nil
	}

	return nil, xerrors.Errorf("invalid reason '%s'", key)
}

func decodeValidation(m map[string]string) (rejection.Reason, error) {
	fail := rejection.ValidationFail{}

	for key, value := range m {
		kind, err := rejection.ParseValidationFailKind(key)
		if err != nil {
			return nil, err
		}

		fail.Kind = kind
		fail.Reason = value
	}

	return rejection.Validation{Fail: fail}, nil
}
