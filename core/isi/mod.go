// Package isi defines the instructions carried by the transactions. The
// ledger only transports them: the payload of an instruction is a canonical
// JSON document interpreted by the execution engine.
package isi

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"golang.org/x/xerrors"
)

// Kind is the type of an instruction.
type Kind byte

const (
	// Register creates a new entity.
	Register Kind = iota
	// Unregister removes an entity.
	Unregister
	// Mint increases a quantity.
	Mint
	// Burn decreases a quantity.
	Burn
	// Transfer moves a quantity or an entity to another owner.
	Transfer
	// SetKeyValue writes a metadata entry.
	SetKeyValue
	// RemoveKeyValue deletes a metadata entry.
	RemoveKeyValue
	// Grant gives a permission or a role.
	Grant
	// Revoke takes back a permission or a role.
	Revoke
	// ExecuteTrigger invokes a trigger.
	ExecuteTrigger
	// SetParameter changes a parameter of the chain.
	SetParameter
	// Upgrade replaces the executor.
	Upgrade
	// Log emits a message in the logs of the peers.
	Log
	// Custom is an instruction defined by the executor.
	Custom

	numKinds
)

var kindNames = [numKinds]string{
	"Register", "Unregister", "Mint", "Burn", "Transfer", "SetKeyValue",
	"RemoveKeyValue", "Grant", "Revoke", "ExecuteTrigger", "SetParameter",
	"Upgrade", "Log", "Custom",
}

var kindLabels = [numKinds]string{
	"register", "un-register", "mint", "burn", "transfer", "set key-value pair",
	"remove key-value pair", "grant", "revoke", "execute trigger",
	"set parameter", "upgrade", "log", "custom",
}

// ParseKind returns the kind of its name, such as "SetKeyValue".
func ParseKind(text string) (Kind, error) {
	for i, n := range kindNames {
		if n == text {
			return Kind(i), nil
		}
	}

	return 0, xerrors.Errorf("unknown instruction '%s'", text)
}

// IsValid returns true if the kind is known.
func (k Kind) IsValid() bool {
	return k < numKinds
}

// Name returns the identifier of the kind used by the wire formats.
func (k Kind) Name() string {
	if !k.IsValid() {
		return "Unknown"
	}

	return kindNames[k]
}

// String implements fmt.Stringer. It returns the human readable label of the
// kind.
func (k Kind) String() string {
	if !k.IsValid() {
		return "unknown"
	}

	return kindLabels[k]
}

// Instruction is an instruction of a given kind with its arguments.
type Instruction struct {
	kind    Kind
	payload []byte
}

// New returns an instruction of the kind with the JSON payload. The payload is
// stored in its canonical form so that two equivalent documents produce the
// same instruction.
func New(kind Kind, payload []byte) (Instruction, error) {
	if !kind.IsValid() {
		return Instruction{}, xerrors.Errorf("unknown instruction kind %d", kind)
	}

	canonical, err := jcs.Transform(payload)
	if err != nil {
		return Instruction{}, xerrors.Errorf("invalid payload: %v", err)
	}

	return Instruction{kind: kind, payload: canonical}, nil
}

// Must returns the instruction of the kind with the payload and panics if it
// is invalid.
func Must(kind Kind, payload string) Instruction {
	instr, err := New(kind, []byte(payload))
	if err != nil {
		panic(err)
	}

	return instr
}

// NewLog returns a log instruction of the message at the given level.
func NewLog(level, msg string) Instruction {
	payload, err := json.Marshal(struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}{level, msg})
	if err != nil {
		panic("INTERNAL BUG: " + err.Error())
	}

	return Must(Log, string(payload))
}

// Kind returns the kind of the instruction.
func (i Instruction) Kind() Kind {
	return i.kind
}

// Payload returns a copy of the canonical JSON payload.
func (i Instruction) Payload() []byte {
	return append([]byte{}, i.payload...)
}

// Equal returns true when both instructions have the same kind and payload.
func (i Instruction) Equal(other Instruction) bool {
	return i.kind == other.kind && string(i.payload) == string(other.payload)
}

// String implements fmt.Stringer.
func (i Instruction) String() string {
	return i.kind.Name() + string(i.payload)
}

// MarshalJSON implements json.Marshaler. The instruction is an object with a
// single field named after the kind, such as {"Log":{...}}.
func (i Instruction) MarshalJSON() ([]byte, error) {
	if len(i.payload) == 0 {
		return nil, xerrors.New("empty instruction")
	}

	return json.Marshal(map[string]json.RawMessage{
		i.kind.Name(): i.payload,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage

	err := json.Unmarshal(data, &m)
	if err != nil {
		return xerrors.Errorf("couldn't unmarshal instruction: %v", err)
	}

	if len(m) != 1 {
		return xerrors.Errorf("expected one instruction but found %d", len(m))
	}

	for key, payload := range m {
		kind, err := ParseKind(key)
		if err != nil {
			return err
		}

		instr, err := New(kind, payload)
		if err != nil {
			return err
		}

		*i = instr
	}

	return nil
}

// EncodeBinary implements io.Serializable. It writes the kind followed by the
// payload.
func (i Instruction) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(i.kind))
	w.WriteVarBytes(i.payload)
}

// DecodeBinary implements io.Serializable. The payload must be canonical.
func (i *Instruction) DecodeBinary(r *io.BinReader) {
	kind := Kind(r.ReadB())
	payload := r.ReadVarBytes()
	if r.Err != nil {
		return
	}

	instr, err := New(kind, payload)
	if err != nil {
		r.Err = err
		return
	}

	if string(instr.payload) != string(payload) {
		r.Err = xerrors.New("payload is not canonical")
		return
	}

	*i = instr
}
