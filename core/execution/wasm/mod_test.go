package wasm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto/ed25519"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestRuntime_Run(t *testing.T) {
	rt := NewRuntime(context.Background(), DefaultConfig)
	defer rt.Close()

	alice := makeAccount(t)

	err := rt.Run(alice, txn.NewWasmSmartContract(header))
	require.NoError(t, err)

	err = rt.Run(alice, txn.NewWasmSmartContract(makeModule(0x0b)))
	require.NoError(t, err)

	// The module can be run again once the previous instance is closed.
	err = rt.Run(alice, txn.NewWasmSmartContract(makeModule(0x0b)))
	require.NoError(t, err)

	err = rt.Run(alice, txn.NewWasmSmartContract([]byte{0xaa}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't compile: ")

	err = rt.Run(alice, txn.NewWasmSmartContract(makeModule(0x00, 0x0b)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't instantiate: ")
}

func TestRuntime_Timeout(t *testing.T) {
	rt := NewRuntime(context.Background(), Config{Timeout: 50 * time.Millisecond})
	defer rt.Close()

	// loop; br 0; end; end
	loop := makeModule(0x03, 0x40, 0x0c, 0x00, 0x0b, 0x0b)

	err := rt.Run(makeAccount(t), txn.NewWasmSmartContract(loop))
	require.Equal(t, rejection.Validation{Fail: rejection.ValidationFail{
		Kind: rejection.TooComplex,
	}}, err)
}

func TestRuntime_MemoryLimit(t *testing.T) {
	rt := NewRuntime(context.Background(), Config{MemoryLimit: 1})
	defer rt.Close()

	err := rt.Run(makeAccount(t), txn.NewWasmSmartContract(header))
	require.NoError(t, err)
}

// -----------------------------------------------------------------------------
// Utility functions

// makeModule returns a module that exports a start function with the body.
func makeModule(body ...byte) []byte {
	code := append([]byte{0x00}, body...)

	module := append([]byte{}, header...)
	// type section: one function type without parameter nor result
	module = append(module, 0x01, 0x04, 0x01, 0x60, 0x00, 0x00)
	// function section
	module = append(module, 0x03, 0x02, 0x01, 0x00)
	// export section
	module = append(module, 0x07, 0x0a, 0x01, 0x06)
	module = append(module, []byte(StartFunction)...)
	module = append(module, 0x00, 0x00)
	// code section
	module = append(module, 0x0a, byte(len(code)+2), 0x01, byte(len(code)))
	module = append(module, code...)

	return module
}

func makeAccount(t *testing.T) account.ID {
	signer := ed25519.NewSigner()

	domain, err := name.New("wonderland")
	require.NoError(t, err)

	return account.NewID(signer.GetPublicKey(), account.NewDomainID(domain))
}
