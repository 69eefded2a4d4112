package darc

import (
	"go.dedis.ch/ledgertx/core/account"
	"golang.org/x/xerrors"
)

// IdentitySet is a set of accounts that belongs to one of the conjunctions.
type IdentitySet []account.ID

// NewIdentitySet creates a new identity set from the list of accounts by
// removing duplicates.
func NewIdentitySet(idents ...account.ID) IdentitySet {
	set := make(IdentitySet, 0, len(idents))

	for _, ident := range idents {
		if !set.Contains(ident) {
			set = append(set, ident)
		}
	}

	return set
}

// Contains returns true if the account exists in the set.
func (set IdentitySet) Contains(target account.ID) bool {
	_, found := set.Search(target)
	return found
}

// Search searches for the target in the set and returns the index if it exists,
// otherwise a negative value.
func (set IdentitySet) Search(target account.ID) (int, bool) {
	for i, ident := range set {
		if ident.Equal(target) {
			return i, true
		}
	}

	return -1, false
}

// IsSuperset returns true if every account of the other set is in the set.
func (set IdentitySet) IsSuperset(o IdentitySet) bool {
	if len(set) < len(o) {
		return false
	}

	for _, ident := range o {
		if !set.Contains(ident) {
			return false
		}
	}

	return true
}

// Expression is the representation of the disjunctive normal form of the
// allowed groups of accounts.
type Expression struct {
	matches []IdentitySet
}

// NewExpression creates a new expression from the list of identity sets.
func NewExpression(sets ...IdentitySet) *Expression {
	return &Expression{
		matches: sets,
	}
}

// GetIdentitySets returns the list of identity sets.
func (expr *Expression) GetIdentitySets() []IdentitySet {
	return append([]IdentitySet{}, expr.matches...)
}

// Evolve grants or denies the access to the group.
func (expr *Expression) Evolve(grant bool, group []account.ID) {
	if grant {
		expr.Allow(group)
	} else {
		expr.Deny(group)
	}
}

// Allow adds the group of accounts as long as there is no duplicate.
func (expr *Expression) Allow(group []account.ID) {
	iset := NewIdentitySet(group...)
	if len(iset) == 0 {
		return
	}

	for _, match := range expr.matches {
		if iset.IsSuperset(match) && match.IsSuperset(iset) {
			// The group is already allowed.
			return
		}
	}

	expr.matches = append(expr.matches, iset)
}

// Deny removes every allowed group that is a subset of the group.
func (expr *Expression) Deny(group []account.ID) {
	iset := NewIdentitySet(group...)
	if len(iset) == 0 {
		return
	}

	kept := expr.matches[:0]

	for _, match := range expr.matches {
		if !iset.IsSuperset(match) {
			kept = append(kept, match)
		}
	}

	expr.matches = kept
}

// Match returns nil if the group, or a subset of it, is allowed, otherwise the
// reason why it failed.
func (expr *Expression) Match(group []account.ID) error {
	iset := NewIdentitySet(group...)

	for _, match := range expr.matches {
		if iset.IsSuperset(match) {
			return nil
		}
	}

	return xerrors.Errorf("unauthorized: %v", group)
}
