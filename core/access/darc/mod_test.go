package darc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/access"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"gopkg.in/yaml.v2"
)

const alice = "ed25519:5866666666666666666666666666666666666666666666666666666666666666@wonderland"

func TestPermission_Evolve(t *testing.T) {
	perm := NewPermission(WithRule("fake", newAccount(1)))
	require.Equal(t, []string{"fake"}, perm.GetRules())

	perm.Evolve("isi:Mint", true, newAccount(1), newAccount(2))
	require.Equal(t, []string{"fake", "isi:Mint"}, perm.GetRules())

	perm.Evolve("isi:Mint", false, newAccount(1), newAccount(2))
	require.Equal(t, []string{"fake"}, perm.GetRules())

	perm.Evolve("unknown", false, newAccount(1))
	require.Equal(t, []string{"fake"}, perm.GetRules())

	perm = NewPermission(WithExpression("fake", NewExpression()))
	require.Equal(t, []string{"fake"}, perm.GetRules())
}

func TestPermission_Match(t *testing.T) {
	rule := access.InstructionRule(isi.Mint)
	perm := NewPermission(WithRule(rule, newAccount(1)))

	var _ access.Access = perm

	require.NoError(t, perm.Match(rule, newAccount(1)))

	err := perm.Match(rule)
	require.EqualError(t, err, "expect at least one identity")

	err = perm.Match("unknown", newAccount(1))
	require.EqualError(t, err, "rule 'unknown' not found")

	err = perm.Match(rule, newAccount(2))
	require.Error(t, err)
	require.Contains(t, err.Error(), "rule 'isi:Mint': unauthorized: ")
}

func TestPermission_LoadPermission(t *testing.T) {
	doc := "rules:\n  isi:Mint:\n  - - " + alice + "\n"

	perm, err := LoadPermission([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"isi:Mint"}, perm.GetRules())

	id, err := account.ParseID(alice)
	require.NoError(t, err)
	require.NoError(t, perm.Match("isi:Mint", id))

	data, err := yaml.Marshal(perm)
	require.NoError(t, err)

	restored, err := LoadPermission(data)
	require.NoError(t, err)
	require.Equal(t, perm.GetRules(), restored.GetRules())
	require.NoError(t, restored.Match("isi:Mint", id))

	_, err = LoadPermission([]byte("rules: 1"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't unmarshal permission: ")

	_, err = LoadPermission([]byte("rules:\n  a:\n  - - wonderland\n"))
	require.EqualError(t, err, "rule 'a': missing domain in 'wonderland'")
}

// -----------------------------------------------------------------------------
// Utility functions

func newAccount(seed byte) account.ID {
	signer := ed25519.NewSignerFromSeed(bytes.NewReader(bytes.Repeat([]byte{seed}, 32)))

	return account.NewID(signer.GetPublicKey(), account.NewDomainID(name.Must("wonderland")))
}
