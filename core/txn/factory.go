package txn

import (
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto/common"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

// TransactionFactory is a factory to deserialize signed transactions.
//
// - implements serde.Factory
type TransactionFactory struct {
	sigFac common.SignatureFactory
}

// NewTransactionFactory returns a new factory.
func NewTransactionFactory() TransactionFactory {
	return TransactionFactory{
		sigFac: common.NewSignatureFactory(),
	}
}

// Deserialize implements serde.Factory.
func (f TransactionFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.TransactionOf(ctx, data)
}

// TransactionOf returns the signed transaction of the data if appropriate,
// otherwise an error.
func (f TransactionFactory) TransactionOf(ctx serde.Context, data []byte) (SignedTransaction, error) {
	format := txFormats.Get(ctx.GetFormat())

	ctx = serde.WithFactory(ctx, SignatureFac{}, f.sigFac)

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return SignedTransaction{}, xerrors.Errorf("failed to decode: %v", err)
	}

	tx, ok := msg.(SignedTransaction)
	if !ok {
		return SignedTransaction{}, xerrors.Errorf("invalid transaction of type '%T'", msg)
	}

	return tx, nil
}

// EntrypointFactory is a factory to deserialize entrypoints.
//
// - implements serde.Factory
type EntrypointFactory struct {
	sigFac common.SignatureFactory
}

// NewEntrypointFactory returns a new factory.
func NewEntrypointFactory() EntrypointFactory {
	return EntrypointFactory{
		sigFac: common.NewSignatureFactory(),
	}
}

// Deserialize implements serde.Factory.
func (f EntrypointFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.EntrypointOf(ctx, data)
}

// EntrypointOf returns the entrypoint of the data if appropriate, otherwise an
// error.
func (f EntrypointFactory) EntrypointOf(ctx serde.Context, data []byte) (Entrypoint, error) {
	format := entrypointFormats.Get(ctx.GetFormat())

	ctx = serde.WithFactory(ctx, SignatureFac{}, f.sigFac)

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return Entrypoint{}, xerrors.Errorf("failed to decode: %v", err)
	}

	e, ok := msg.(Entrypoint)
	if !ok {
		return Entrypoint{}, xerrors.Errorf("invalid entrypoint of type '%T'", msg)
	}

	return e, nil
}

// ResultFactory is a factory to deserialize results.
//
// - implements serde.Factory
type ResultFactory struct {
	reasonFac rejection.Factory
}

// NewResultFactory returns a new factory.
func NewResultFactory() ResultFactory {
	return ResultFactory{
		reasonFac: rejection.NewFactory(),
	}
}

// Deserialize implements serde.Factory.
func (f ResultFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.ResultOf(ctx, data)
}

// ResultOf returns the result of the data if appropriate, otherwise an error.
func (f ResultFactory) ResultOf(ctx serde.Context, data []byte) (Result, error) {
	format := resultFormats.Get(ctx.GetFormat())

	ctx = serde.WithFactory(ctx, ReasonFac{}, f.reasonFac)

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return Result{}, xerrors.Errorf("failed to decode: %v", err)
	}

	res, ok := msg.(Result)
	if !ok {
		return Result{}, xerrors.Errorf("invalid result of type '%T'", msg)
	}

	return res, nil
}
