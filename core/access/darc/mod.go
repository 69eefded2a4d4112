// Package darc implements the Distributed Access Rights Control of the
// accounts.
//
// A permission associates rules, such as the instruction kinds, with the
// groups of accounts that are allowed to use them. A group matches when every
// one of its accounts is present.
package darc

import (
	"sort"
	"sync"

	"go.dedis.ch/ledgertx/core/account"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Permission is a permission implementation that is using the Disjunctive
// Normal Form to represent the groups of accounts allowed for a given rule. It
// can be shared between goroutines.
//
// - implements access.Access
type Permission struct {
	sync.RWMutex

	rules map[string]*Expression
}

// PermissionOption is the option type to create an access control.
type PermissionOption func(*Permission)

// WithRule is an option to grant a given group access to a rule.
func WithRule(rule string, group ...account.ID) PermissionOption {
	return func(perm *Permission) {
		perm.evolve(rule, true, group)
	}
}

// WithExpression is an option to set a rule from its expression.
func WithExpression(rule string, expr *Expression) PermissionOption {
	return func(perm *Permission) {
		perm.rules[rule] = expr
	}
}

// NewPermission returns a new empty instance of an access control.
func NewPermission(opts ...PermissionOption) *Permission {
	perm := &Permission{
		rules: make(map[string]*Expression),
	}

	for _, opt := range opts {
		opt(perm)
	}

	return perm
}

// GetRules returns the sorted list of the rules with at least one group.
func (perm *Permission) GetRules() []string {
	perm.RLock()
	defer perm.RUnlock()

	rules := make([]string, 0, len(perm.rules))
	for rule := range perm.rules {
		rules = append(rules, rule)
	}

	sort.Strings(rules)

	return rules
}

// Evolve grants or removes the access to a group to a given rule.
func (perm *Permission) Evolve(rule string, grant bool, group ...account.ID) {
	perm.Lock()
	perm.evolve(rule, grant, group)
	perm.Unlock()
}

func (perm *Permission) evolve(rule string, grant bool, group []account.ID) {
	expr, ok := perm.rules[rule]
	if !ok {
		if !grant {
			return
		}

		expr = NewExpression()
	}

	expr.Evolve(grant, group)

	if len(expr.matches) == 0 {
		delete(perm.rules, rule)
	} else {
		perm.rules[rule] = expr
	}
}

// Match implements access.Access. It returns nil if the rule exists and the
// group of accounts is associated with it.
func (perm *Permission) Match(rule string, group ...account.ID) error {
	if len(group) == 0 {
		return xerrors.New("expect at least one identity")
	}

	perm.RLock()
	defer perm.RUnlock()

	expr, ok := perm.rules[rule]
	if !ok {
		return xerrors.Errorf("rule '%s' not found", rule)
	}

	err := expr.Match(group)
	if err != nil {
		return xerrors.Errorf("rule '%s': %v", rule, err)
	}

	return nil
}

// PermissionYAML is the YAML document of a permission. Every rule has a list
// of groups of accounts in their text form.
type PermissionYAML struct {
	Rules map[string][][]string `yaml:"rules"`
}

// MarshalYAML implements yaml.Marshaler.
func (perm *Permission) MarshalYAML() (interface{}, error) {
	perm.RLock()
	defer perm.RUnlock()

	doc := PermissionYAML{Rules: make(map[string][][]string, len(perm.rules))}

	for rule, expr := range perm.rules {
		groups := make([][]string, len(expr.matches))

		for i, set := range expr.matches {
			groups[i] = make([]string, len(set))

			for j, ident := range set {
				groups[i][j] = ident.String()
			}
		}

		doc.Rules[rule] = groups
	}

	return doc, nil
}

// LoadPermission returns the permission of the YAML document.
func LoadPermission(data []byte) (*Permission, error) {
	doc := PermissionYAML{}

	err := yaml.UnmarshalStrict(data, &doc)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal permission: %v", err)
	}

	perm := NewPermission()

	for rule, groups := range doc.Rules {
		for _, group := range groups {
			idents := make([]account.ID, len(group))

			for i, text := range group {
				idents[i], err = account.ParseID(text)
				if err != nil {
					return nil, xerrors.Errorf("rule '%s': %v", rule, err)
				}
			}

			perm.evolve(rule, true, idents)
		}
	}

	return perm, nil
}
