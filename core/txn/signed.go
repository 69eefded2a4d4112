package txn

import (
	"fmt"
	"io"
	"time"

	nio "github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/serde"
	"golang.org/x/xerrors"
)

// ErrInvalidSignature is wrapped by the error returned when the signature of a
// transaction does not match its payload.
var ErrInvalidSignature = xerrors.New("invalid signature")

// Version is the version of the shape of a signed transaction.
type Version uint8

const (
	// V1 is the current version.
	V1 Version = 1
)

// versionDecoders maps a version to the decoder of its content. A new version
// only adds an entry.
var versionDecoders = map[Version]func(r *nio.BinReader) SignedTransaction{
	V1: func(r *nio.BinReader) SignedTransaction {
		var v1 SignedTransactionV1
		v1.DecodeBinary(r)

		return SignedTransaction{version: V1, v1: v1}
	},
}

// TransactionSignature is the signature of the hash of a payload by its
// authority.
type TransactionSignature struct {
	sig crypto.Signature
}

// NewTransactionSignature returns the transaction signature of the signature.
func NewTransactionSignature(sig crypto.Signature) TransactionSignature {
	return TransactionSignature{sig: sig}
}

// Signature returns the underlying signature.
func (s TransactionSignature) Signature() crypto.Signature {
	return s.sig
}

// Equal returns true when both signatures are the same.
func (s TransactionSignature) Equal(other TransactionSignature) bool {
	if s.sig == nil || other.sig == nil {
		return s.sig == nil && other.sig == nil
	}

	return s.sig.Equal(other.sig)
}

// SignedTransactionV1 is the first version of a signed transaction.
type SignedTransactionV1 struct {
	signature TransactionSignature
	payload   Payload
}

// Signature returns the signature of the payload.
func (tx SignedTransactionV1) Signature() TransactionSignature {
	return tx.signature
}

// Payload returns the payload.
func (tx SignedTransactionV1) Payload() Payload {
	return tx.payload
}

// EncodeBinary implements io.Serializable. The signature is written before the
// payload.
func (tx SignedTransactionV1) EncodeBinary(w *nio.BinWriter) {
	if tx.signature.sig == nil {
		w.Err = xerrors.New("missing signature")
		return
	}

	data, err := tx.signature.sig.MarshalBinary()
	if err != nil {
		w.Err = xerrors.Errorf("couldn't marshal signature: %v", err)
		return
	}

	w.WriteVarBytes(data)
	tx.payload.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable. The signature is restored with the
// algorithm of the authority, which comes after it.
func (tx *SignedTransactionV1) DecodeBinary(r *nio.BinReader) {
	data := r.ReadVarBytes()

	var payload Payload
	payload.DecodeBinary(r)

	if r.Err != nil {
		return
	}

	sig, err := sigFactory.FromAlgorithm(payload.authority.Signatory().Algorithm(), data)
	if err != nil {
		r.Err = xerrors.Errorf("invalid signature: %v", err)
		return
	}

	tx.signature = NewTransactionSignature(sig)
	tx.payload = payload
}

// SignedTransaction is a versioned signed transaction. It is what clients
// submit to the ledger.
//
// - implements serde.Message
// - implements serde.Fingerprinter
type SignedTransaction struct {
	version Version
	v1      SignedTransactionV1
}

// NewSignedTransactionV1 returns a signed transaction of the first version.
// The signature is not verified.
func NewSignedTransactionV1(payload Payload, sig TransactionSignature) SignedTransaction {
	return SignedTransaction{
		version: V1,
		v1: SignedTransactionV1{
			signature: sig,
			payload:   payload,
		},
	}
}

// Version returns the version of the transaction.
func (tx SignedTransaction) Version() Version {
	return tx.version
}

// V1 returns the content of the transaction if it is of the first version.
func (tx SignedTransaction) V1() (SignedTransactionV1, bool) {
	return tx.v1, tx.version == V1
}

// content returns the fields common to every version.
func (tx SignedTransaction) content() SignedTransactionV1 {
	switch tx.version {
	case V1:
		return tx.v1
	default:
		panic(fmt.Sprintf("signed transaction of unknown version %d", tx.version))
	}
}

// Payload returns the payload of the transaction.
func (tx SignedTransaction) Payload() Payload {
	return tx.content().payload
}

// Instructions returns the executable of the transaction.
func (tx SignedTransaction) Instructions() Executable {
	return tx.content().payload.executable
}

// Authority returns the account acting on behalf of the transaction.
func (tx SignedTransaction) Authority() account.ID {
	return tx.content().payload.authority
}

// Metadata returns a copy of the metadata of the transaction.
func (tx SignedTransaction) Metadata() metadata.Metadata {
	return tx.content().payload.Metadata()
}

// CreationTime returns the creation time of the transaction.
func (tx SignedTransaction) CreationTime() time.Time {
	return tx.content().payload.CreationTime()
}

// TimeToLive returns the time-to-live of the transaction if it is set.
func (tx SignedTransaction) TimeToLive() (time.Duration, bool) {
	return tx.content().payload.TimeToLive()
}

// Nonce returns the nonce of the transaction if it is set.
func (tx SignedTransaction) Nonce() (uint32, bool) {
	return tx.content().payload.Nonce()
}

// Chain returns the identifier of the chain of the transaction.
func (tx SignedTransaction) Chain() ChainID {
	return tx.content().payload.chain
}

// Signature returns the signature of the transaction.
func (tx SignedTransaction) Signature() TransactionSignature {
	return tx.content().signature
}

// Hash returns the hash of the transaction. It covers the version and the
// signature and it identifies the transaction in the ledger.
func (tx SignedTransaction) Hash() TransactionHash {
	return crypto.NewHashOf[SignedTransaction](tx)
}

// HashAsEntrypoint returns the hash of the transaction in the domain of the
// entrypoints. The value is the same as Hash.
func (tx SignedTransaction) HashAsEntrypoint() EntrypointHash {
	return crypto.Retype[Entrypoint](tx.Hash())
}

// VerifySignature returns nil if the signature matches the payload for the
// public key of the authority, otherwise an error that wraps
// ErrInvalidSignature.
func (tx SignedTransaction) VerifySignature() error {
	content := tx.content()

	signatory := content.payload.authority.Signatory()
	if signatory == nil {
		return xerrors.Errorf("missing signatory: %w", ErrInvalidSignature)
	}

	if content.signature.sig == nil {
		return xerrors.Errorf("missing signature: %w", ErrInvalidSignature)
	}

	hash := content.payload.Hash()

	err := signatory.Verify(hash.Bytes(), content.signature.sig)
	if err != nil {
		return xerrors.Errorf("%v: %w", err, ErrInvalidSignature)
	}

	return nil
}

// Equal returns true when both transactions are the same.
func (tx SignedTransaction) Equal(other SignedTransaction) bool {
	if tx.version != other.version {
		return false
	}

	a, b := tx.content(), other.content()

	return a.signature.Equal(b.signature) && a.payload.Equal(b.payload)
}

// String implements fmt.Stringer. It returns the hash of the transaction.
func (tx SignedTransaction) String() string {
	return tx.Hash().String()
}

// EncodeBinary implements io.Serializable. It writes the version followed by
// the content of that version.
func (tx SignedTransaction) EncodeBinary(w *nio.BinWriter) {
	switch tx.version {
	case V1:
		w.WriteB(byte(V1))
		tx.v1.EncodeBinary(w)
	default:
		w.Err = xerrors.Errorf("unknown version %d", tx.version)
	}
}

// DecodeBinary implements io.Serializable.
func (tx *SignedTransaction) DecodeBinary(r *nio.BinReader) {
	version := Version(r.ReadB())
	if r.Err != nil {
		return
	}

	decode, found := versionDecoders[version]
	if !found {
		r.Err = xerrors.Errorf("unsupported version %d", version)
		return
	}

	res := decode(r)
	if r.Err == nil {
		*tx = res
	}
}

// Fingerprint implements serde.Fingerprinter. It writes the canonical encoding
// of the transaction.
func (tx SignedTransaction) Fingerprint(w io.Writer) error {
	bw := nio.NewBinWriterFromIO(w)
	tx.EncodeBinary(bw)

	if bw.Err != nil {
		return xerrors.Errorf("couldn't write transaction: %v", bw.Err)
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of the
// transaction.
func (tx SignedTransaction) Serialize(ctx serde.Context) ([]byte, error) {
	format := txFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, tx)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}
