// Package access defines the interfaces for the access rights control of the
// accounts.
package access

import (
	"strings"

	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
)

// Access is an abstraction to verify if a group of accounts has access to a
// specific rule.
type Access interface {
	// Match returns nil if the group is allowed to use the rule, otherwise the
	// reason why it is not.
	Match(rule string, group ...account.ID) error
}

// Compile returns a compacted rule from the string segments.
func Compile(segments ...string) string {
	return strings.Join(segments, ":")
}

// InstructionRule returns the rule that allows an account to execute the
// instructions of the kind.
func InstructionRule(kind isi.Kind) string {
	return Compile("isi", kind.Name())
}
