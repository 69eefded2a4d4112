package native

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/access/darc"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/crypto/ed25519"
)

func TestLogHandler_Execute(t *testing.T) {
	buffer := new(bytes.Buffer)
	h := NewLogHandlerWithLogger(zerolog.New(buffer))

	alice := makeAccount(ed25519.NewSigner())

	step := execution.Step{
		Authority:   alice,
		Instruction: isi.NewLog("WARN", "hello"),
		Depth:       2,
	}

	err := h.Execute(step)
	require.NoError(t, err)
	require.Contains(t, buffer.String(), `"level":"warn"`)
	require.Contains(t, buffer.String(), `"message":"hello"`)
	require.Contains(t, buffer.String(), `"depth":2`)

	step.Instruction = isi.NewLog("LOUD", "hello")
	err = h.Execute(step)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid level: ")

	step.Instruction = isi.Must(isi.Log, `[]`)
	err = h.Execute(step)
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal payload: ")

	step.Instruction = isi.NewLog("DEBUG", "quiet")
	require.NoError(t, NewLogHandler().Execute(step))
}

func TestPermissionHandler_Execute(t *testing.T) {
	alice := makeAccount(ed25519.NewSigner())
	bob := makeAccount(ed25519.NewSigner())

	perm := darc.NewPermission()

	grant := NewGrantHandler(perm)
	revoke := NewRevokeHandler(perm)

	payload := fmt.Sprintf(`{"rule":"isi:Mint","accounts":["%v","%v"]}`, alice, bob)

	err := grant.Execute(execution.Step{Instruction: isi.Must(isi.Grant, payload)})
	require.NoError(t, err)
	require.NoError(t, perm.Match("isi:Mint", alice, bob))
	require.Error(t, perm.Match("isi:Mint", alice))

	err = revoke.Execute(execution.Step{Instruction: isi.Must(isi.Revoke, payload)})
	require.NoError(t, err)
	require.EqualError(t, perm.Match("isi:Mint", alice, bob), "rule 'isi:Mint' not found")

	err = grant.Execute(execution.Step{Instruction: isi.Must(isi.Grant, `{"accounts":[]}`)})
	require.EqualError(t, err, "missing rule")

	err = grant.Execute(execution.Step{Instruction: isi.Must(isi.Grant, `{"rule":"a"}`)})
	require.EqualError(t, err, "missing accounts")

	err = grant.Execute(execution.Step{Instruction: isi.Must(isi.Grant, `{"accounts":["abc"]}`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal payload: ")
}

func TestRegistry_Execute(t *testing.T) {
	alice := makeAccount(ed25519.NewSigner())

	registry := NewRegistry()
	require.Equal(t, 0, registry.Len())

	payload := fmt.Sprintf(`{"account":"%v"}`, alice)

	err := registry.Execute(execution.Step{Instruction: isi.Must(isi.Register, payload)})
	require.NoError(t, err)
	require.True(t, registry.Exists(alice))
	require.Equal(t, 1, registry.Len())

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Register, payload)})
	require.EqualError(t, err, fmt.Sprintf("account %v already exists", alice))

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Unregister, payload)})
	require.NoError(t, err)
	require.False(t, registry.Exists(alice))

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Unregister, payload)})
	require.EqualError(t, err, fmt.Sprintf("account %v not found", alice))

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Mint, payload)})
	require.EqualError(t, err, "unsupported instruction 'Mint'")

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Register, `{}`)})
	require.EqualError(t, err, "missing account")

	err = registry.Execute(execution.Step{Instruction: isi.Must(isi.Register, `[]`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal payload: ")
}

func TestRegistry_Trigger(t *testing.T) {
	signer := ed25519.NewSigner()
	alice := makeAccount(signer)

	registry := NewRegistry(alice)
	bob := makeAccount(ed25519.NewSigner())

	srvc := NewExecution(WithAccounts(registry))
	srvc.Set(isi.Register, registry)

	payload := fmt.Sprintf(`{"account":"%v"}`, bob)
	tx := makeTx(t, signer, isi.Must(isi.Register, payload))

	res, err := srvc.Execute(txn.NewExternal(tx))
	require.NoError(t, err)
	require.True(t, res.IsOK())
	require.True(t, registry.Exists(bob))
}
