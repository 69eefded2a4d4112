package validation

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/execution/native"
	"go.dedis.ch/ledgertx/core/history"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/core/store/kv"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/internal/testing/fake"
)

func TestService_Process(t *testing.T) {
	signer := ed25519.NewSigner()

	exec := native.NewExecution()
	exec.Set(isi.Log, native.HandlerFunc(func(step execution.Step) error { return nil }))

	store := history.NewStore(makeDB(t))

	acceptor := NewAcceptor("chain-0")
	acceptor.Limits.MaxInstructions = 1

	srvc := NewService(acceptor, exec, store)

	obs := &fakeObserver{}
	srvc.Watch().Add(obs)

	good := txn.NewExternal(makeTx(t, signer, "chain-0", isi.NewLog("INFO", "a")))
	tooLarge := txn.NewExternal(makeTx(t, signer, "chain-0",
		isi.NewLog("INFO", "a"), isi.NewLog("INFO", "b")))
	unsupported := txn.NewExternal(makeTx(t, signer, "chain-0", isi.Must(isi.Burn, `{}`)))
	otherChain := txn.NewExternal(makeTx(t, signer, "chain-1"))
	forged := txn.NewExternal(makeForgedTx(t, "chain-0"))
	timed := txn.NewTime(txn.NewTimeTriggerEntrypoint(txn.NewTriggerID(name.Must("daily")),
		txn.NewExecutionStep(isi.NewLog("INFO", "tick")), makeAccount(signer)))

	okBefore := testutil.ToFloat64(promResults.WithLabelValues("ok"))
	limitBefore := testutil.ToFloat64(promResults.WithLabelValues("LimitCheck"))
	refusedBefore := testutil.ToFloat64(promRefused.WithLabelValues("chain_mismatch"))

	entries, err := srvc.Process(good, tooLarge, otherChain, unsupported, forged, timed)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, good.Hash(), entries[0].Hash())
	require.True(t, entries[0].Result.IsOK())

	require.Equal(t, tooLarge.Hash(), entries[1].Hash())
	reason, ok := entries[1].Result.Reason()
	require.True(t, ok)
	require.Equal(t, rejection.LimitCheckKind, reason.Kind())

	require.Equal(t, unsupported.Hash(), entries[2].Hash())
	reason, ok = entries[2].Result.Reason()
	require.True(t, ok)
	require.Equal(t, rejection.InstructionExecutionKind, reason.Kind())

	require.Equal(t, timed.Hash(), entries[3].Hash())
	require.True(t, entries[3].Result.IsOK())

	n, err := store.Len()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	res, err := store.Result(tooLarge.Hash())
	require.NoError(t, err)
	require.True(t, res.Equal(entries[1].Result))

	require.Len(t, obs.entries, 4)

	require.Equal(t, okBefore+2, testutil.ToFloat64(promResults.WithLabelValues("ok")))
	require.Equal(t, limitBefore+1, testutil.ToFloat64(promResults.WithLabelValues("LimitCheck")))
	require.Equal(t, refusedBefore+1, testutil.ToFloat64(promRefused.WithLabelValues("chain_mismatch")))
}

func TestService_ProcessDuplicates(t *testing.T) {
	signer := ed25519.NewSigner()
	bob := makeAccount(ed25519.NewSigner())

	logs := []string{}

	registry := native.NewRegistry(makeAccount(signer))

	exec := native.NewExecution(native.WithAccounts(registry))
	exec.Set(isi.Register, registry)
	exec.Set(isi.Log, native.HandlerFunc(func(step execution.Step) error {
		logs = append(logs, string(step.Instruction.Payload()))
		return nil
	}))

	store := history.NewStore(makeDB(t))
	srvc := NewService(NewAcceptor("chain-0"), exec, store)

	a := txn.NewExternal(makeTx(t, signer, "chain-0", isi.NewLog("INFO", "a")))
	b := txn.NewExternal(makeTx(t, signer, "chain-0",
		isi.Must(isi.Register, `{"account":"`+bob.String()+`"}`)))
	timed := txn.NewTime(txn.NewTimeTriggerEntrypoint(txn.NewTriggerID(name.Must("daily")),
		txn.NewExecutionStep(isi.NewLog("INFO", "tick")), makeAccount(signer)))

	refusedBefore := testutil.ToFloat64(promRefused.WithLabelValues("duplicate"))

	entries, err := srvc.Process(a, timed)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Len(t, logs, 2)

	entries, err = srvc.Process(a, b, b, timed)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, b.Hash(), entries[0].Hash())
	require.True(t, entries[0].Result.IsOK())

	// The duplicates are refused before they run.
	require.Len(t, logs, 2)
	require.True(t, registry.Exists(bob))

	n, err := store.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Equal(t, refusedBefore+3, testutil.ToFloat64(promRefused.WithLabelValues("duplicate")))
}

func TestService_ProcessFailures(t *testing.T) {
	signer := ed25519.NewSigner()
	e := txn.NewExternal(makeTx(t, signer, "chain-0"))

	srvc := NewService(NewAcceptor("chain-0"), badExecution{}, fakeCommitter{})

	_, err := srvc.Process(e)
	require.EqualError(t, err, fake.Err("entrypoint "+e.Hash().String()+": failed to execute"))

	srvc = NewService(NewAcceptor("chain-0"), native.NewExecution(), fakeCommitter{err: fake.GetError()})

	_, err = srvc.Process(e)
	require.EqualError(t, err, fake.Err("failed to commit"))

	srvc = NewService(NewAcceptor("chain-0"), native.NewExecution(), fakeCommitter{hasErr: fake.GetError()})

	_, err = srvc.Process(e)
	require.EqualError(t, err,
		fake.Err("entrypoint "+e.Hash().String()+": failed to read history"))
}

func TestService_Collectors(t *testing.T) {
	require.Contains(t, ledgertx.PromCollectors, promRefused)
	require.Contains(t, ledgertx.PromCollectors, promResults)
}

// -----------------------------------------------------------------------------
// Utility functions

func makeDB(t *testing.T) kv.DB {
	db, err := kv.New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return db
}

type fakeObserver struct {
	entries []history.Entry
}

func (o *fakeObserver) NotifyCallback(entry history.Entry) {
	o.entries = append(o.entries, entry)
}

type badExecution struct{}

func (badExecution) Execute(txn.Entrypoint) (txn.Result, error) {
	return txn.Result{}, fake.GetError()
}

type fakeCommitter struct {
	err    error
	hasErr error
}

func (c fakeCommitter) Has(txn.EntrypointHash) (bool, error) {
	return false, c.hasErr
}

func (c fakeCommitter) Commit(...history.Entry) error {
	return c.err
}
