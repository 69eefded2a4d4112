package darc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/account"
)

func TestIdentitySet_New(t *testing.T) {
	iset := NewIdentitySet(newAccount(1), newAccount(2), newAccount(1))
	require.Len(t, iset, 2)
}

func TestIdentitySet_Search(t *testing.T) {
	iset := NewIdentitySet(newAccount(1), newAccount(2))

	require.True(t, iset.Contains(newAccount(1)))
	require.True(t, iset.Contains(newAccount(2)))
	require.False(t, iset.Contains(newAccount(3)))

	index, found := iset.Search(newAccount(2))
	require.True(t, found)
	require.Equal(t, 1, index)
}

func TestIdentitySet_IsSuperset(t *testing.T) {
	iset := NewIdentitySet(newAccount(1), newAccount(3))

	require.True(t, iset.IsSuperset(iset))
	require.True(t, iset.IsSuperset(NewIdentitySet(newAccount(1))))
	require.True(t, iset.IsSuperset(NewIdentitySet()))
	require.False(t, iset.IsSuperset(NewIdentitySet(newAccount(1), newAccount(2))))
	require.False(t, iset.IsSuperset(NewIdentitySet(newAccount(2))))
}

func TestExpression_GetIdentitySets(t *testing.T) {
	expr := Expression{
		matches: []IdentitySet{{}, {}},
	}

	require.Len(t, expr.GetIdentitySets(), 2)
}

func TestExpression_Allow(t *testing.T) {
	expr := NewExpression()

	expr.Allow(nil)
	require.Len(t, expr.matches, 0)

	group := []account.ID{newAccount(1), newAccount(2)}

	expr.Allow(group)
	require.Len(t, expr.matches, 1)
	require.Len(t, expr.matches[0], 2)

	expr.Allow([]account.ID{newAccount(2), newAccount(1)})
	require.Len(t, expr.matches, 1)

	expr.Allow([]account.ID{newAccount(1), newAccount(3)})
	require.Len(t, expr.matches, 2)
}

func TestExpression_Deny(t *testing.T) {
	expr := NewExpression(
		NewIdentitySet(newAccount(1), newAccount(2)),
		NewIdentitySet(newAccount(3)),
	)

	expr.Deny(nil)
	require.Len(t, expr.matches, 2)

	expr.Deny([]account.ID{newAccount(1)})
	require.Len(t, expr.matches, 2)

	expr.Deny([]account.ID{newAccount(1), newAccount(2)})
	require.Len(t, expr.matches, 1)

	expr.Evolve(false, []account.ID{newAccount(3)})
	require.Len(t, expr.matches, 0)
}

func TestExpression_Match(t *testing.T) {
	expr := NewExpression(NewIdentitySet(newAccount(1), newAccount(2)))

	require.NoError(t, expr.Match([]account.ID{newAccount(1), newAccount(2)}))
	require.NoError(t, expr.Match([]account.ID{newAccount(3), newAccount(2), newAccount(1)}))

	err := expr.Match([]account.ID{newAccount(1)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized: ")
}
