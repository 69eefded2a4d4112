package txn

import (
	"math"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/crypto"
	"golang.org/x/xerrors"
)

// Payload is the body of a transaction. It is the part signed by the
// authority.
type Payload struct {
	chain          ChainID
	authority      account.ID
	creationTimeMs uint64
	executable     Executable
	// A zero value means there is no time-to-live.
	timeToLiveMs uint64
	// A zero value means there is no nonce.
	nonce    uint32
	metadata metadata.Metadata
}

// PayloadParams are the fields of a payload. A zero time-to-live or nonce
// means the field is absent.
type PayloadParams struct {
	Chain          ChainID
	Authority      account.ID
	CreationTimeMs uint64
	Executable     Executable
	TimeToLiveMs   uint64
	Nonce          uint32
	Metadata       metadata.Metadata
}

// NewPayload returns the payload of the parameters. It is meant for the
// decoders, a transaction is normally created with a builder.
func NewPayload(params PayloadParams) Payload {
	return Payload{
		chain:          params.Chain,
		authority:      params.Authority,
		creationTimeMs: params.CreationTimeMs,
		executable:     params.Executable,
		timeToLiveMs:   params.TimeToLiveMs,
		nonce:          params.Nonce,
		metadata:       params.Metadata.Clone(),
	}
}

// Params returns the fields of the payload.
func (p Payload) Params() PayloadParams {
	return PayloadParams{
		Chain:          p.chain,
		Authority:      p.authority,
		CreationTimeMs: p.creationTimeMs,
		Executable:     p.executable,
		TimeToLiveMs:   p.timeToLiveMs,
		Nonce:          p.nonce,
		Metadata:       p.metadata.Clone(),
	}
}

// Chain returns the identifier of the chain the transaction is meant for.
func (p Payload) Chain() ChainID {
	return p.chain
}

// Authority returns the account acting on behalf of the transaction.
func (p Payload) Authority() account.ID {
	return p.authority
}

// CreationTime returns the creation time of the transaction.
func (p Payload) CreationTime() time.Time {
	return time.UnixMilli(int64(p.creationTimeMs))
}

// CreationTimeMs returns the creation time as a unix timestamp in
// milliseconds.
func (p Payload) CreationTimeMs() uint64 {
	return p.creationTimeMs
}

// Instructions returns the executable of the transaction.
func (p Payload) Instructions() Executable {
	return p.executable
}

// TimeToLive returns the time-to-live of the transaction if it is set.
func (p Payload) TimeToLive() (time.Duration, bool) {
	if p.timeToLiveMs == 0 {
		return 0, false
	}

	return durationOfMillis(p.timeToLiveMs), true
}

// Nonce returns the nonce of the transaction if it is set.
func (p Payload) Nonce() (uint32, bool) {
	return p.nonce, p.nonce != 0
}

// Metadata returns a copy of the metadata of the transaction.
func (p Payload) Metadata() metadata.Metadata {
	return p.metadata.Clone()
}

// Hash returns the hash of the payload, which is the message signed by the
// authority.
func (p Payload) Hash() PayloadHash {
	return crypto.NewHashOf[Payload](p)
}

// Equal returns true when both payloads are the same.
func (p Payload) Equal(other Payload) bool {
	return p.chain == other.chain &&
		p.authority.Equal(other.authority) &&
		p.creationTimeMs == other.creationTimeMs &&
		p.executable.Equal(other.executable) &&
		p.timeToLiveMs == other.timeToLiveMs &&
		p.nonce == other.nonce &&
		p.metadata.Equal(other.metadata)
}

// EncodeBinary implements io.Serializable. Optional fields are prefixed with a
// presence flag.
func (p Payload) EncodeBinary(w *io.BinWriter) {
	p.chain.EncodeBinary(w)
	p.authority.EncodeBinary(w)
	w.WriteU64LE(p.creationTimeMs)
	p.executable.EncodeBinary(w)

	w.WriteBool(p.timeToLiveMs != 0)
	if p.timeToLiveMs != 0 {
		w.WriteU64LE(p.timeToLiveMs)
	}

	w.WriteBool(p.nonce != 0)
	if p.nonce != 0 {
		w.WriteU32LE(p.nonce)
	}

	p.metadata.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable. A time-to-live or a nonce that is
// present must not be zero.
func (p *Payload) DecodeBinary(r *io.BinReader) {
	var res Payload

	res.chain.DecodeBinary(r)
	res.authority.DecodeBinary(r)
	res.creationTimeMs = r.ReadU64LE()
	res.executable.DecodeBinary(r)

	if r.ReadBool() {
		res.timeToLiveMs = r.ReadU64LE()
		if r.Err == nil && res.timeToLiveMs == 0 {
			r.Err = xerrors.New("time-to-live is present but zero")
			return
		}
	}

	if r.ReadBool() {
		res.nonce = r.ReadU32LE()
		if r.Err == nil && res.nonce == 0 {
			r.Err = xerrors.New("nonce is present but zero")
			return
		}
	}

	res.metadata.DecodeBinary(r)

	if r.Err == nil {
		*p = res
	}
}

func durationOfMillis(ms uint64) time.Duration {
	if ms > math.MaxInt64/uint64(time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(ms) * time.Millisecond
}

// millisOfDuration returns the number of milliseconds of the duration. A
// negative duration is a contract violation.
func millisOfDuration(d time.Duration) uint64 {
	if d < 0 {
		panic("INTERNAL BUG: negative duration")
	}

	return uint64(d / time.Millisecond)
}

// millisOfTime returns the unix timestamp in milliseconds. A time before the
// epoch is a contract violation.
func millisOfTime(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		panic("INTERNAL BUG: timestamp before the unix epoch")
	}

	return uint64(ms)
}
