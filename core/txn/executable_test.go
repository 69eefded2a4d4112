package txn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/isi"
)

func TestWasmSmartContract_String(t *testing.T) {
	contract := NewWasmSmartContract([]byte{1, 2, 3})

	require.Equal(t, 3, contract.Len())
	require.Equal(t, "WASM binary(len = 3)", contract.String())
	require.Equal(t, "WASM binary(len = 3)", contract.GoString())
	require.True(t, contract.Equal(NewWasmSmartContract([]byte{1, 2, 3})))
	require.False(t, contract.Equal(NewWasmSmartContract([]byte{1, 2})))

	code := contract.Code()
	code[0] = 9
	require.Equal(t, []byte{1, 2, 3}, contract.Code())
}

func TestExecutable_Equal(t *testing.T) {
	mint := isi.Must(isi.Mint, `{"n":1}`)

	require.True(t, Executable{}.Equal(NewInstructions()))
	require.True(t, NewInstructions(mint).Equal(NewInstructions(mint)))
	require.False(t, NewInstructions(mint).Equal(NewInstructions()))
	require.False(t, NewInstructions().Equal(NewWasm(NewWasmSmartContract(nil))))
	require.False(t, NewWasm(NewWasmSmartContract(nil)).Equal(NewInstructions()))
	require.True(t, NewWasm(NewWasmSmartContract(nil)).Equal(NewWasm(NewWasmSmartContract(nil))))
}

func TestExecutable_Accessors(t *testing.T) {
	mint := isi.Must(isi.Mint, `{"n":1}`)

	exec := NewInstructions(mint)
	require.False(t, exec.IsWasm())
	require.Equal(t, 1, exec.Len())
	require.Equal(t, `Instructions[Mint{"n":1}]`, exec.String())

	_, ok := exec.Wasm()
	require.False(t, ok)

	instrs := exec.Instructions()
	instrs[0] = isi.NewLog("INFO", "x")
	require.True(t, exec.Instructions()[0].Equal(mint))

	exec = NewWasm(NewWasmSmartContract([]byte{0}))
	require.True(t, exec.IsWasm())
	require.Empty(t, exec.Instructions())
	require.Equal(t, "WASM binary(len = 1)", exec.String())

	contract, ok := exec.Wasm()
	require.True(t, ok)
	require.Equal(t, []byte{0}, contract.Code())
}

func TestExecutable_Binary(t *testing.T) {
	exec := NewInstructions(isi.Must(isi.Mint, `{"n":1}`))

	data := encodeBinary(t, &exec)
	require.Equal(t, []byte{0, 1, 2, 7, '{', '"', 'n', '"', ':', '1', '}'}, data)

	var decoded Executable
	require.NoError(t, decodeBinary(data, &decoded))
	require.True(t, decoded.Equal(exec))

	exec = NewWasm(NewWasmSmartContract([]byte{0xaa}))

	data = encodeBinary(t, &exec)
	require.Equal(t, []byte{1, 1, 0xaa}, data)

	require.NoError(t, decodeBinary(data, &decoded))
	require.True(t, decoded.Equal(exec))

	err := decodeBinary([]byte{5}, &decoded)
	require.EqualError(t, err, "unknown executable 5")
}

func TestExecutionStep_Binary(t *testing.T) {
	step := NewExecutionStep(isi.NewLog("INFO", "a"), isi.NewLog("INFO", "b"))
	require.Equal(t, 2, step.Len())

	data := encodeBinary(t, &step)

	var decoded ExecutionStep
	require.NoError(t, decodeBinary(data, &decoded))
	require.True(t, decoded.Equal(step))
	require.False(t, decoded.Equal(NewExecutionStep()))

	// A count larger than the data fails without allocating it.
	err := decodeBinary([]byte{0xfe, 0xff, 0xff, 0xff, 0xff}, &decoded)
	require.Error(t, err)
}
