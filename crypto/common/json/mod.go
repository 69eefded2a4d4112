// Package json defines the JSON messages shared by the key and signature
// formats. A message names its algorithm so that a factory can pick the
// right implementation before decoding the data.
package json

import (
	"go.dedis.ch/ledgertx/crypto/common"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

func init() {
	common.RegisterAlgorithmFormat(serde.FormatJSON, algoFormat{})
}

// Algorithm is the JSON message that names the algorithm of a key or a
// signature.
type Algorithm struct {
	Name string `json:"name"`
}

// PublicKey is the JSON message of a public key.
type PublicKey struct {
	Algorithm
	Data []byte `json:"data"`
}

// Signature is the JSON message of a signature.
type Signature struct {
	Algorithm
	Data []byte `json:"data"`
}

// algoFormat is the JSON engine of the algorithm messages.
//
// - implements serde.FormatEngine
type algoFormat struct{}

// Encode implements serde.FormatEngine.
func (f algoFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	algo, ok := msg.(common.Algorithm)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	data, err := ctx.Marshal(Algorithm{Name: algo.GetName()})
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. The remaining fields of the message,
// such as the data of a key, are ignored.
func (f algoFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := Algorithm{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't deserialize algorithm: %v", err)
	}

	if m.Name == "" {
		return nil, xerrors.New("missing algorithm name")
	}

	return common.NewAlgorithm(m.Name), nil
}
