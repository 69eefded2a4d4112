// Package binary implements the canonical binary format of the transactions,
// the entrypoints, the results and the rejection reasons. The engines rely on
// the context to encode the messages, which implement io.Serializable.
package binary

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

func init() {
	txn.RegisterTransactionFormat(serde.FormatBinary, txFormat{})
	txn.RegisterEntrypointFormat(serde.FormatBinary, entrypointFormat{})
	txn.RegisterResultFormat(serde.FormatBinary, resultFormat{})
	rejection.RegisterReasonFormat(serde.FormatBinary, reasonFormat{})
}

// txFormat is the binary engine of signed transactions.
//
// - implements serde.FormatEngine
type txFormat struct{}

// Encode implements serde.FormatEngine.
func (txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	tx, ok := msg.(txn.SignedTransaction)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	return marshal(ctx, &tx)
}

// Decode implements serde.FormatEngine.
func (txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var tx txn.SignedTransaction

	err := unmarshal(ctx, data, &tx)
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// entrypointFormat is the binary engine of entrypoints.
//
// - implements serde.FormatEngine
type entrypointFormat struct{}

// Encode implements serde.FormatEngine.
func (entrypointFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	e, ok := msg.(txn.Entrypoint)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	return marshal(ctx, &e)
}

// Decode implements serde.FormatEngine.
func (entrypointFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var e txn.Entrypoint

	err := unmarshal(ctx, data, &e)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// resultFormat is the binary engine of results.
//
// - implements serde.FormatEngine
type resultFormat struct{}

// Encode implements serde.FormatEngine.
func (resultFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	res, ok := msg.(txn.Result)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	return marshal(ctx, &res)
}

// Decode implements serde.FormatEngine.
func (resultFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var res txn.Result

	err := unmarshal(ctx, data, &res)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// reasonFormat is the binary engine of rejection reasons.
//
// - implements serde.FormatEngine
type reasonFormat struct{}

// Encode implements serde.FormatEngine.
func (reasonFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	reason, ok := msg.(rejection.Reason)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	return marshal(ctx, &reasonBox{reason: reason})
}

// Decode implements serde.FormatEngine.
func (reasonFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	box := reasonBox{}

	err := unmarshal(ctx, data, &box)
	if err != nil {
		return nil, err
	}

	return box.reason, nil
}

// reasonBox gives the rejection reasons the method set of io.Serializable.
type reasonBox struct {
	reason rejection.Reason
}

func (b *reasonBox) EncodeBinary(w *io.BinWriter) {
	rejection.Encode(w, b.reason)
}

func (b *reasonBox) DecodeBinary(r *io.BinReader) {
	b.reason = rejection.Decode(r)
}

func marshal(ctx serde.Context, obj io.Serializable) ([]byte, error) {
	data, err := ctx.Marshal(obj)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

func unmarshal(ctx serde.Context, data []byte, obj io.Serializable) error {
	err := ctx.Unmarshal(data, obj)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal: %v", err)
	}

	return nil
}
