package txn

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/isi"
)

func TestSignedTransaction_Properties(t *testing.T) {
	signer := makeSigner(1)
	authority := makeAccount(signer, "wonderland")

	build := func(chain string, ms uint64, nonce uint32, ttl uint64, msg string) SignedTransaction {
		b := NewBuilder(ChainID(chain), authority).
			SetCreationTime(time.UnixMilli(int64(ms))).
			SetTTL(time.Duration(ttl) * time.Millisecond).
			WithInstructions(isi.NewLog("INFO", msg))

		if nonce != 0 {
			b.SetNonce(nonce)
		}

		tx, err := b.Sign(signer)
		if err != nil {
			panic(err)
		}

		return tx
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	generators := []gopter.Gen{
		gen.AlphaString(),
		gen.UInt64Range(0, 1<<42),
		gen.UInt32(),
		gen.UInt64Range(0, 1<<30),
		gen.AnyString(),
	}

	properties.Property("hash is deterministic", prop.ForAll(
		func(chain string, ms uint64, nonce uint32, ttl uint64, msg string) bool {
			a := build(chain, ms, nonce, ttl, msg)
			b := build(chain, ms, nonce, ttl, msg)

			return a.Hash() == b.Hash() && a.HashAsEntrypoint() == NewExternal(b).Hash()
		},
		generators...,
	))

	properties.Property("binary encoding round-trips", prop.ForAll(
		func(chain string, ms uint64, nonce uint32, ttl uint64, msg string) bool {
			tx := build(chain, ms, nonce, ttl, msg)

			w := io.NewBufBinWriter()
			tx.EncodeBinary(w.BinWriter)
			if w.Err != nil {
				return false
			}

			var decoded SignedTransaction
			err := decodeBinary(w.Bytes(), &decoded)

			return err == nil && decoded.Equal(tx) && decoded.Hash() == tx.Hash()
		},
		generators...,
	))

	properties.Property("signature verifies", prop.ForAll(
		func(chain string, ms uint64, nonce uint32, ttl uint64, msg string) bool {
			tx := build(chain, ms, nonce, ttl, msg)

			_, hasNonce := tx.Nonce()
			_, hasTTL := tx.TimeToLive()

			return tx.VerifySignature() == nil && hasNonce == (nonce != 0) && hasTTL == (ttl != 0)
		},
		generators...,
	))

	properties.TestingRun(t)
}
