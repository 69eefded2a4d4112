// Package json implements the JSON format of the transactions, the
// entrypoints and the results.
package json

import (
	"encoding/hex"
	"encoding/json"

	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto/common"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

func init() {
	txn.RegisterTransactionFormat(serde.FormatJSON, txFormat{})
	txn.RegisterEntrypointFormat(serde.FormatJSON, entrypointFormat{})
	txn.RegisterResultFormat(serde.FormatJSON, resultFormat{})
}

// txDecoders maps a version to the decoder of its content.
var txDecoders = map[txn.Version]func(serde.Context, json.RawMessage) (txn.SignedTransaction, error){
	txn.V1: decodeV1,
}

// TransactionJSON is the JSON message of a signed transaction. The content
// depends on the version.
type TransactionJSON struct {
	Version uint8           `json:"version"`
	Content json.RawMessage `json:"content"`
}

// TransactionV1JSON is the JSON message of the first version of a signed
// transaction.
type TransactionV1JSON struct {
	Signature string      `json:"signature"`
	Payload   PayloadJSON `json:"payload"`
}

// PayloadJSON is the JSON message of a payload.
type PayloadJSON struct {
	Chain          string            `json:"chain"`
	Authority      account.ID        `json:"authority"`
	CreationTimeMs uint64            `json:"creation_time_ms"`
	Instructions   ExecutableJSON    `json:"instructions"`
	TimeToLiveMs   *uint64           `json:"time_to_live_ms,omitempty"`
	Nonce          *uint32           `json:"nonce,omitempty"`
	Metadata       metadata.Metadata `json:"metadata"`
}

// ExecutableJSON is the JSON message of an executable. Exactly one field is
// set.
type ExecutableJSON struct {
	Instructions *[]isi.Instruction `json:",omitempty"`
	Wasm         *[]byte            `json:",omitempty"`
}

// EntrypointJSON is the JSON message of an entrypoint. Exactly one field is
// set.
type EntrypointJSON struct {
	External *TransactionJSON `json:",omitempty"`
	Time     *TimeTriggerJSON `json:",omitempty"`
}

// TimeTriggerJSON is the JSON message of a time trigger entrypoint.
type TimeTriggerJSON struct {
	ID           string            `json:"id"`
	Instructions []isi.Instruction `json:"instructions"`
	Authority    account.ID        `json:"authority"`
}

// ResultJSON is the JSON message of a result. Exactly one field is set.
type ResultJSON struct {
	Ok  *[]DataTriggerStepJSON `json:",omitempty"`
	Err json.RawMessage        `json:",omitempty"`
}

// DataTriggerStepJSON is the JSON message of a data trigger step.
type DataTriggerStepJSON struct {
	ID           string            `json:"id"`
	Instructions []isi.Instruction `json:"instructions"`
}

// txFormat is the engine to encode and decode signed transactions in JSON.
//
// - implements serde.FormatEngine
type txFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// transaction if appropriate, otherwise an error.
func (txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	tx, ok := msg.(txn.SignedTransaction)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m, err := encodeTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates a signed transaction from
// the JSON data if appropriate, otherwise it returns an error.
func (txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := TransactionJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	return decodeTransaction(ctx, m)
}

// entrypointFormat is the engine to encode and decode entrypoints in JSON.
//
// - implements serde.FormatEngine
type entrypointFormat struct{}

// Encode implements serde.FormatEngine.
func (entrypointFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	e, ok := msg.(txn.Entrypoint)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := EntrypointJSON{}

	if tt, ok := e.Time(); ok {
		m.Time = &TimeTriggerJSON{
			ID:           tt.ID().String(),
			Instructions: nonNil(tt.Instructions().Instructions()),
			Authority:    tt.Authority(),
		}
	} else {
		tx, _ := e.External()

		txm, err := encodeTransaction(ctx, tx)
		if err != nil {
			return nil, err
		}

		m.External = &txm
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine.
func (entrypointFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := EntrypointJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	switch {
	case m.External != nil && m.Time == nil:
		tx, err := decodeTransaction(ctx, *m.External)
		if err != nil {
			return nil, err
		}

		return txn.NewExternal(tx), nil
	case m.Time != nil && m.External == nil:
		id, err := txn.ParseTriggerID(m.Time.ID)
		if err != nil {
			return nil, xerrors.Errorf("invalid time trigger: %v", err)
		}

		step := txn.NewExecutionStep(m.Time.Instructions...)

		return txn.NewTime(txn.NewTimeTriggerEntrypoint(id, step, m.Time.Authority)), nil
	default:
		return nil, xerrors.New("expected one entrypoint")
	}
}

// resultFormat is the engine to encode and decode results in JSON.
//
// - implements serde.FormatEngine
type resultFormat struct{}

// Encode implements serde.FormatEngine.
func (resultFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	res, ok := msg.(txn.Result)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := ResultJSON{}

	if seq, ok := res.Steps(); ok {
		steps := make([]DataTriggerStepJSON, seq.Len())
		for i, step := range seq.Steps() {
			steps[i] = DataTriggerStepJSON{
				ID:           step.ID().String(),
				Instructions: nonNil(step.Instructions().Instructions()),
			}
		}

		m.Ok = &steps
	} else {
		reason, _ := res.Reason()

		data, err := reason.Serialize(ctx)
		if err != nil {
			return nil, xerrors.Errorf("failed to encode reason: %v", err)
		}

		m.Err = data
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine.
func (resultFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := ResultJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	switch {
	case m.Ok != nil && len(m.Err) == 0:
		steps := make([]txn.DataTriggerStep, len(*m.Ok))
		for i, step := range *m.Ok {
			id, err := txn.ParseTriggerID(step.ID)
			if err != nil {
				return nil, xerrors.Errorf("invalid data trigger: %v", err)
			}

			steps[i] = txn.NewDataTriggerStep(id, txn.NewExecutionStep(step.Instructions...))
		}

		return txn.NewOk(txn.NewDataTriggerSequence(steps...)), nil
	case m.Ok == nil && len(m.Err) > 0:
		fac := ctx.GetFactory(txn.ReasonFac{})

		factory, ok := fac.(rejection.Factory)
		if !ok {
			return nil, xerrors.Errorf("invalid reason factory '%T'", fac)
		}

		reason, err := factory.ReasonOf(ctx, m.Err)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode reason: %v", err)
		}

		return txn.NewErr(reason), nil
	default:
		return nil, xerrors.New("expected one result")
	}
}

func encodeTransaction(ctx serde.Context, tx txn.SignedTransaction) (TransactionJSON, error) {
	v1, ok := tx.V1()
	if !ok {
		return TransactionJSON{}, xerrors.Errorf("unsupported version %d", tx.Version())
	}

	sig := v1.Signature().Signature()
	if sig == nil {
		return TransactionJSON{}, xerrors.New("missing signature")
	}

	sigData, err := sig.MarshalBinary()
	if err != nil {
		return TransactionJSON{}, xerrors.Errorf("failed to marshal signature: %v", err)
	}

	content := TransactionV1JSON{
		Signature: hex.EncodeToString(sigData),
		Payload:   encodePayload(v1.Payload()),
	}

	data, err := ctx.Marshal(content)
	if err != nil {
		return TransactionJSON{}, xerrors.Errorf("failed to marshal content: %v", err)
	}

	return TransactionJSON{Version: uint8(tx.Version()), Content: data}, nil
}

func encodePayload(p txn.Payload) PayloadJSON {
	m := PayloadJSON{
		Chain:          p.Chain().String(),
		Authority:      p.Authority(),
		CreationTimeMs: p.CreationTimeMs(),
		Metadata:       p.Metadata(),
	}

	exec := p.Instructions()
	if wasm, ok := exec.Wasm(); ok {
		code := wasm.Code()
		m.Instructions.Wasm = &code
	} else {
		instrs := nonNil(exec.Instructions())
		m.Instructions.Instructions = &instrs
	}

	params := p.Params()

	if params.TimeToLiveMs > 0 {
		ttl := params.TimeToLiveMs
		m.TimeToLiveMs = &ttl
	}

	if params.Nonce > 0 {
		nonce := params.Nonce
		m.Nonce = &nonce
	}

	return m
}

func decodeTransaction(ctx serde.Context, m TransactionJSON) (txn.SignedTransaction, error) {
	decode, found := txDecoders[txn.Version(m.Version)]
	if !found {
		return txn.SignedTransaction{}, xerrors.Errorf("unsupported version %d", m.Version)
	}

	return decode(ctx, m.Content)
}

func decodeV1(ctx serde.Context, data json.RawMessage) (txn.SignedTransaction, error) {
	m := TransactionV1JSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("failed to unmarshal content: %v", err)
	}

	payload, err := decodePayload(m.Payload)
	if err != nil {
		return txn.SignedTransaction{}, err
	}

	fac := ctx.GetFactory(txn.SignatureFac{})

	factory, ok := fac.(common.SignatureFactory)
	if !ok {
		return txn.SignedTransaction{}, xerrors.Errorf("invalid signature factory '%T'", fac)
	}

	sigData, err := hex.DecodeString(m.Signature)
	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("malformed signature: %v", err)
	}

	sig, err := factory.FromAlgorithm(payload.Authority().Signatory().Algorithm(), sigData)
	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("failed to decode signature: %v", err)
	}

	return txn.NewSignedTransactionV1(payload, txn.NewTransactionSignature(sig)), nil
}

func decodePayload(m PayloadJSON) (txn.Payload, error) {
	if m.Authority.IsZero() {
		return txn.Payload{}, xerrors.New("missing authority")
	}

	params := txn.PayloadParams{
		Chain:          txn.ChainID(m.Chain),
		Authority:      m.Authority,
		CreationTimeMs: m.CreationTimeMs,
		Metadata:       m.Metadata,
	}

	switch {
	case m.Instructions.Instructions != nil && m.Instructions.Wasm == nil:
		params.Executable = txn.NewInstructions(*m.Instructions.Instructions...)
	case m.Instructions.Wasm != nil && m.Instructions.Instructions == nil:
		params.Executable = txn.NewWasm(txn.NewWasmSmartContract(*m.Instructions.Wasm))
	default:
		return txn.Payload{}, xerrors.New("expected one executable")
	}

	if m.TimeToLiveMs != nil {
		if *m.TimeToLiveMs == 0 {
			return txn.Payload{}, xerrors.New("time-to-live is present but zero")
		}

		params.TimeToLiveMs = *m.TimeToLiveMs
	}

	if m.Nonce != nil {
		if *m.Nonce == 0 {
			return txn.Payload{}, xerrors.New("nonce is present but zero")
		}

		params.Nonce = *m.Nonce
	}

	return txn.NewPayload(params), nil
}

func nonNil(instrs []isi.Instruction) []isi.Instruction {
	if instrs == nil {
		return []isi.Instruction{}
	}

	return instrs
}
