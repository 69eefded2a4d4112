// Package account defines the identity of the accounts of the ledger. An
// account is identified by the public key of its signatory and by the domain
// it is registered in.
package account

import (
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/crypto"
	"go.dedis.ch/ledgertx/crypto/common"
	"golang.org/x/xerrors"
)

var keyFactory = common.NewPublicKeyFactory()

// DomainID is the identifier of a domain.
type DomainID struct {
	name.Name
}

// NewDomainID returns the domain identifier of the name.
func NewDomainID(n name.Name) DomainID {
	return DomainID{Name: n}
}

// ParseDomainID returns the domain identifier of the string if it is a valid
// name.
func ParseDomainID(text string) (DomainID, error) {
	n, err := name.New(text)
	if err != nil {
		return DomainID{}, xerrors.Errorf("invalid domain: %v", err)
	}

	return DomainID{Name: n}, nil
}

// ID is the identifier of an account.
type ID struct {
	signatory crypto.PublicKey
	domain    DomainID
}

// NewID returns the identifier of the account of the signatory in the domain.
func NewID(signatory crypto.PublicKey, domain DomainID) ID {
	return ID{
		signatory: signatory,
		domain:    domain,
	}
}

// ParseID returns the identifier of its text form
// "<algorithm>:<hex public key>@<domain>".
func ParseID(text string) (ID, error) {
	idx := strings.LastIndexByte(text, '@')
	if idx < 0 {
		return ID{}, xerrors.Errorf("missing domain in '%s'", text)
	}

	signatory, err := keyFactory.FromText(text[:idx])
	if err != nil {
		return ID{}, xerrors.Errorf("invalid signatory: %v", err)
	}

	domain, err := ParseDomainID(text[idx+1:])
	if err != nil {
		return ID{}, err
	}

	return NewID(signatory, domain), nil
}

// Signatory returns the public key that signs on behalf of the account.
func (id ID) Signatory() crypto.PublicKey {
	return id.signatory
}

// Domain returns the domain of the account.
func (id ID) Domain() DomainID {
	return id.domain
}

// IsZero returns true if the identifier has never been set.
func (id ID) IsZero() bool {
	return id.signatory == nil && id.domain.IsZero()
}

// Equal returns true when both identifiers are the same.
func (id ID) Equal(other ID) bool {
	if id.signatory == nil || other.signatory == nil {
		return id.signatory == nil && other.signatory == nil && id.domain == other.domain
	}

	return id.domain == other.domain && id.signatory.Equal(other.signatory)
}

// String implements fmt.Stringer. It returns the text form of the identifier.
func (id ID) String() string {
	if id.signatory == nil {
		return "<nil>@" + id.domain.String()
	}

	return id.signatory.String() + "@" + id.domain.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	if id.signatory == nil {
		return nil, xerrors.New("missing signatory")
	}

	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// EncodeBinary implements io.Serializable. It writes the algorithm of the
// signatory, its raw key and the domain.
func (id ID) EncodeBinary(w *io.BinWriter) {
	if id.signatory == nil {
		w.Err = xerrors.New("missing signatory")
		return
	}

	data, err := id.signatory.MarshalBinary()
	if err != nil {
		w.Err = xerrors.Errorf("couldn't marshal signatory: %v", err)
		return
	}

	w.WriteString(id.signatory.Algorithm())
	w.WriteVarBytes(data)
	id.domain.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (id *ID) DecodeBinary(r *io.BinReader) {
	algo := r.ReadString()
	data := r.ReadVarBytes()
	if r.Err != nil {
		return
	}

	signatory, err := keyFactory.FromAlgorithm(algo, data)
	if err != nil {
		r.Err = xerrors.Errorf("invalid signatory: %v", err)
		return
	}

	var domain DomainID
	domain.DecodeBinary(r)
	if r.Err != nil {
		return
	}

	id.signatory = signatory
	id.domain = domain
}
