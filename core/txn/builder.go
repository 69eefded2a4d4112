package txn

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/crypto"
	"golang.org/x/xerrors"
)

// Builder assembles the payload of a transaction. The payload starts with an
// empty sequence of instructions, no time-to-live, no nonce and the current
// time as its creation time.
//
// A builder is owned by a single goroutine. It is consumed by Sign, and any
// later use panics.
type Builder struct {
	payload  Payload
	consumed bool
}

// NewBuilder returns a builder of a transaction of the authority for the
// chain.
func NewBuilder(chain ChainID, authority account.ID) *Builder {
	return NewBuilderWithClock(chain, authority, clock.New())
}

// NewBuilderWithClock returns a builder that reads the creation time from the
// clock.
func NewBuilderWithClock(chain ChainID, authority account.ID, clk clock.Clock) *Builder {
	return &Builder{
		payload: Payload{
			chain:          chain,
			authority:      authority,
			creationTimeMs: millisOfTime(clk.Now()),
			metadata:       metadata.New(),
		},
	}
}

// WithInstructions replaces the executable with the instructions.
func (b *Builder) WithInstructions(instrs ...isi.Instruction) *Builder {
	b.check()
	b.payload.executable = NewInstructions(instrs...)

	return b
}

// WithWasm replaces the executable with the smart contract.
func (b *Builder) WithWasm(contract WasmSmartContract) *Builder {
	b.check()
	b.payload.executable = NewWasm(contract)

	return b
}

// WithExecutable replaces the executable.
func (b *Builder) WithExecutable(exec Executable) *Builder {
	b.check()
	b.payload.executable = exec

	return b
}

// WithMetadata replaces the metadata.
func (b *Builder) WithMetadata(m metadata.Metadata) *Builder {
	b.check()
	b.payload.metadata = m.Clone()

	return b
}

// SetNonce sets the nonce. The nonce is never zero, use RandomNonce to draw
// one.
func (b *Builder) SetNonce(nonce uint32) *Builder {
	b.check()

	if nonce == 0 {
		panic("nonce must not be zero")
	}

	b.payload.nonce = nonce

	return b
}

// SetTTL sets the time-to-live with a millisecond precision.
//
// A duration under a millisecond, including zero, removes the time-to-live
// instead: an explicit zero cannot be told apart from an absent value. A
// negative duration panics.
func (b *Builder) SetTTL(ttl time.Duration) *Builder {
	b.check()
	b.payload.timeToLiveMs = millisOfDuration(ttl)

	return b
}

// SetCreationTime overrides the creation time with a millisecond precision.
// A time before the unix epoch panics.
func (b *Builder) SetCreationTime(t time.Time) *Builder {
	b.check()
	b.payload.creationTimeMs = millisOfTime(t)

	return b
}

// Payload returns the payload assembled so far.
func (b *Builder) Payload() Payload {
	b.check()

	return b.payload
}

// Sign signs the payload and returns the signed transaction. The builder is
// consumed even if the signer fails.
func (b *Builder) Sign(signer crypto.Signer) (SignedTransaction, error) {
	b.check()
	b.consumed = true

	hash := b.payload.Hash()

	sig, err := signer.Sign(hash.Bytes())
	if err != nil {
		return SignedTransaction{}, xerrors.Errorf("couldn't sign payload: %v", err)
	}

	return NewSignedTransactionV1(b.payload, NewTransactionSignature(sig)), nil
}

func (b *Builder) check() {
	if b.consumed {
		panic("builder has already been signed")
	}
}

// RandomNonce returns a random non-zero nonce.
func RandomNonce() uint32 {
	nonce, err := crypto.RandomNonce(crypto.CryptographicRandomGenerator{})
	if err != nil {
		panic("INTERNAL BUG: random source failed: " + err.Error())
	}

	return nonce
}
