package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"golang.org/x/xerrors"
)

func TestLoadLimits(t *testing.T) {
	limits, err := LoadLimits([]byte("max_instructions: 2\n"))
	require.NoError(t, err)
	require.Equal(t, 2, limits.MaxInstructions)
	require.Equal(t, DefaultLimits.MaxWasmSize, limits.MaxWasmSize)
	require.Equal(t, DefaultLimits.MaxMetadataEntries, limits.MaxMetadataEntries)

	limits, err = LoadLimits(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultLimits, limits)

	_, err = LoadLimits([]byte("max_fuel: 2\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal limits: ")

	_, err = LoadLimits([]byte("max_wasm_size: -1\n"))
	require.EqualError(t, err, "limits must not be negative")
}

func TestLimits_Check(t *testing.T) {
	signer := ed25519.NewSigner()

	limits := Limits{MaxInstructions: 1, MaxWasmSize: 2, MaxMetadataEntries: 1}

	tx := makeTx(t, signer, "chain-0", isi.NewLog("INFO", "a"))
	require.NoError(t, limits.Check(tx))

	tx = makeTx(t, signer, "chain-0", isi.NewLog("INFO", "a"), isi.NewLog("INFO", "b"))
	require.Equal(t, rejection.LimitCheck{
		Reason: "too many instructions, max number is 1, actual number is 2",
	}, limits.Check(tx))

	wasm := func(size int) txn.SignedTransaction {
		tx, err := txn.NewBuilder("chain-0", makeAccount(signer)).
			WithWasm(txn.NewWasmSmartContract(make([]byte, size))).
			Sign(signer)
		require.NoError(t, err)

		return tx
	}

	require.NoError(t, limits.Check(wasm(2)))
	require.Equal(t, rejection.LimitCheck{
		Reason: "WASM binary is too large, max size is 2, actual size is 3",
	}, limits.Check(wasm(3)))

	meta := metadata.New()
	_, err := meta.Insert(name.Must("a"), []byte(`1`))
	require.NoError(t, err)
	_, err = meta.Insert(name.Must("b"), []byte(`2`))
	require.NoError(t, err)

	tx, err = txn.NewBuilder("chain-0", makeAccount(signer)).
		WithMetadata(meta).
		Sign(signer)
	require.NoError(t, err)

	require.Equal(t, rejection.LimitCheck{
		Reason: "too many metadata entries, max number is 1, actual number is 2",
	}, limits.Check(tx))

	// Zero bounds are unlimited.
	require.NoError(t, Limits{}.Check(tx))
	require.NoError(t, Limits{}.Check(wasm(10)))
}

func TestErrorKind_String(t *testing.T) {
	require.Equal(t, "chain_mismatch", ChainMismatch.String())
	require.Equal(t, "invalid_signature", InvalidSignature.String())
	require.Equal(t, "limit_exceeded", LimitExceeded.String())
	require.Equal(t, "duplicate", Duplicate.String())
	require.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}

func TestAcceptError_Rejection(t *testing.T) {
	err := &AcceptError{Kind: LimitExceeded, Reason: rejection.LimitCheck{Reason: "oops"}}
	require.EqualError(t, err, "transaction refused (limit_exceeded): Transaction limits exceeded: oops")

	reason, ok := err.Rejection()
	require.True(t, ok)
	require.Equal(t, rejection.LimitCheck{Reason: "oops"}, reason)

	err = &AcceptError{Kind: InvalidSignature, Reason: txn.ErrInvalidSignature}
	_, ok = err.Rejection()
	require.False(t, ok)
	require.True(t, xerrors.Is(err, txn.ErrInvalidSignature))
}

func TestAcceptor_Accept(t *testing.T) {
	signer := ed25519.NewSigner()

	acceptor := NewAcceptor("chain-0")
	require.Equal(t, DefaultLimits, acceptor.Limits)

	err := acceptor.Accept(makeTx(t, signer, "chain-0", isi.NewLog("INFO", "a")))
	require.NoError(t, err)

	err = acceptor.Accept(makeTx(t, signer, "chain-1"))
	requireKind(t, ChainMismatch, err)
	require.EqualError(t, err,
		"transaction refused (chain_mismatch): expected chain 'chain-0' but got 'chain-1'")

	err = acceptor.Accept(makeForgedTx(t, "chain-0"))
	requireKind(t, InvalidSignature, err)
	require.True(t, xerrors.Is(err, txn.ErrInvalidSignature))

	acceptor.Limits.MaxInstructions = 1
	err = acceptor.Accept(makeTx(t, signer, "chain-0",
		isi.NewLog("INFO", "a"), isi.NewLog("INFO", "b")))
	requireKind(t, LimitExceeded, err)

	// The chain is checked before the signature.
	err = acceptor.Accept(makeForgedTx(t, "chain-1"))
	requireKind(t, ChainMismatch, err)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeAccount(signer ed25519.Signer) account.ID {
	return account.NewID(signer.GetPublicKey(), account.NewDomainID(name.Must("wonderland")))
}

func makeTx(t *testing.T, signer ed25519.Signer, chain txn.ChainID,
	instrs ...isi.Instruction) txn.SignedTransaction {

	tx, err := txn.NewBuilder(chain, makeAccount(signer)).
		WithInstructions(instrs...).
		Sign(signer)
	require.NoError(t, err)

	return tx
}

// makeForgedTx returns a transaction of an account signed by another one.
func makeForgedTx(t *testing.T, chain txn.ChainID) txn.SignedTransaction {
	payload := txn.NewBuilder(chain, makeAccount(ed25519.NewSigner())).Payload()

	other := makeTx(t, ed25519.NewSigner(), chain)

	return txn.NewSignedTransactionV1(payload, other.Signature())
}

func requireKind(t *testing.T, kind ErrorKind, err error) {
	var acceptErr *AcceptError
	require.True(t, xerrors.As(err, &acceptErr), "error is %v", err)
	require.Equal(t, kind, acceptErr.Kind)
}
