package txn

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/isi"
	"golang.org/x/xerrors"
)

const (
	executableInstructions byte = iota
	executableWasm
)

// WasmSmartContract is a compiled smart contract.
type WasmSmartContract struct {
	code []byte
}

// NewWasmSmartContract returns the smart contract of the compiled code.
func NewWasmSmartContract(code []byte) WasmSmartContract {
	return WasmSmartContract{code: append([]byte{}, code...)}
}

// Code returns a copy of the compiled code.
func (c WasmSmartContract) Code() []byte {
	return append([]byte{}, c.code...)
}

// Len returns the size of the compiled code.
func (c WasmSmartContract) Len() int {
	return len(c.code)
}

// Equal returns true when both contracts have the same code.
func (c WasmSmartContract) Equal(other WasmSmartContract) bool {
	return string(c.code) == string(other.code)
}

// String implements fmt.Stringer. It only shows the size of the binary.
func (c WasmSmartContract) String() string {
	return fmt.Sprintf("WASM binary(len = %d)", len(c.code))
}

// GoString implements fmt.GoStringer so that %#v does not dump the binary.
func (c WasmSmartContract) GoString() string {
	return c.String()
}

// Executable is the work of a transaction: either a sequence of instructions
// or a compiled smart contract. The zero value is an empty sequence of
// instructions.
type Executable struct {
	instructions []isi.Instruction
	wasm         *WasmSmartContract
}

// NewInstructions returns an executable made of the instructions.
func NewInstructions(instrs ...isi.Instruction) Executable {
	return Executable{instructions: append([]isi.Instruction{}, instrs...)}
}

// NewWasm returns an executable running the smart contract.
func NewWasm(contract WasmSmartContract) Executable {
	return Executable{wasm: &contract}
}

// IsWasm returns true if the executable is a smart contract.
func (e Executable) IsWasm() bool {
	return e.wasm != nil
}

// Instructions returns a copy of the instructions. It is empty for a smart
// contract.
func (e Executable) Instructions() []isi.Instruction {
	return append([]isi.Instruction{}, e.instructions...)
}

// Len returns the number of instructions.
func (e Executable) Len() int {
	return len(e.instructions)
}

// Wasm returns the smart contract if the executable is one.
func (e Executable) Wasm() (WasmSmartContract, bool) {
	if e.wasm == nil {
		return WasmSmartContract{}, false
	}

	return *e.wasm, true
}

// Equal returns true when both executables are the same.
func (e Executable) Equal(other Executable) bool {
	if e.IsWasm() || other.IsWasm() {
		return e.IsWasm() && other.IsWasm() && e.wasm.Equal(*other.wasm)
	}

	return equalInstructions(e.instructions, other.instructions)
}

// String implements fmt.Stringer.
func (e Executable) String() string {
	if e.wasm != nil {
		return e.wasm.String()
	}

	return fmt.Sprintf("Instructions%v", e.instructions)
}

// EncodeBinary implements io.Serializable.
func (e Executable) EncodeBinary(w *io.BinWriter) {
	if e.wasm != nil {
		w.WriteB(executableWasm)
		w.WriteVarBytes(e.wasm.code)
		return
	}

	w.WriteB(executableInstructions)
	encodeInstructions(w, e.instructions)
}

// DecodeBinary implements io.Serializable.
func (e *Executable) DecodeBinary(r *io.BinReader) {
	tag := r.ReadB()
	if r.Err != nil {
		return
	}

	switch tag {
	case executableInstructions:
		instrs := decodeInstructions(r)
		if r.Err == nil {
			*e = Executable{instructions: instrs}
		}
	case executableWasm:
		code := r.ReadVarBytes()
		if r.Err == nil {
			*e = NewWasm(WasmSmartContract{code: code})
		}
	default:
		r.Err = xerrors.Errorf("unknown executable %d", tag)
	}
}

// ExecutionStep is a sequence of instructions executed by a trigger.
type ExecutionStep struct {
	instructions []isi.Instruction
}

// NewExecutionStep returns the step of the instructions.
func NewExecutionStep(instrs ...isi.Instruction) ExecutionStep {
	return ExecutionStep{instructions: append([]isi.Instruction{}, instrs...)}
}

// Instructions returns a copy of the instructions of the step.
func (s ExecutionStep) Instructions() []isi.Instruction {
	return append([]isi.Instruction{}, s.instructions...)
}

// Len returns the number of instructions.
func (s ExecutionStep) Len() int {
	return len(s.instructions)
}

// Equal returns true when both steps have the same instructions.
func (s ExecutionStep) Equal(other ExecutionStep) bool {
	return equalInstructions(s.instructions, other.instructions)
}

// EncodeBinary implements io.Serializable.
func (s ExecutionStep) EncodeBinary(w *io.BinWriter) {
	encodeInstructions(w, s.instructions)
}

// DecodeBinary implements io.Serializable.
func (s *ExecutionStep) DecodeBinary(r *io.BinReader) {
	instrs := decodeInstructions(r)
	if r.Err == nil {
		s.instructions = instrs
	}
}

func equalInstructions(a, b []isi.Instruction) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

func encodeInstructions(w *io.BinWriter, instrs []isi.Instruction) {
	w.WriteVarUint(uint64(len(instrs)))

	for _, instr := range instrs {
		instr.EncodeBinary(w)
	}
}

func decodeInstructions(r *io.BinReader) []isi.Instruction {
	count := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}

	instrs := make([]isi.Instruction, 0, minUint64(count, maxPrealloc))

	for i := uint64(0); i < count && r.Err == nil; i++ {
		var instr isi.Instruction
		instr.DecodeBinary(r)
		instrs = append(instrs, instr)
	}

	return instrs
}

// maxPrealloc bounds the capacity allocated from a length read on the wire.
const maxPrealloc = 256

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}

	return b
}
