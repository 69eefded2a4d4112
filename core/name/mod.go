// Package name defines the identifiers of the ledger entities such as the
// domains, the triggers and the metadata keys.
package name

import (
	"strings"
	"unicode"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"golang.org/x/xerrors"
)

// reserved are the characters used by the composite identifiers.
const reserved = "@#$"

// Name is a validated identifier. It is never empty and contains neither a
// whitespace nor one of the reserved characters.
type Name struct {
	value string
}

// New returns the name of the string if it is valid, otherwise an error.
func New(value string) (Name, error) {
	err := check(value)
	if err != nil {
		return Name{}, err
	}

	return Name{value: value}, nil
}

// Must returns the name of the string and panics if it is invalid.
func Must(value string) Name {
	n, err := New(value)
	if err != nil {
		panic(err)
	}

	return n
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return n.value
}

// IsZero returns true if the name has never been set.
func (n Name) IsZero() bool {
	return n.value == ""
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It validates the text.
func (n *Name) UnmarshalText(text []byte) error {
	value, err := New(string(text))
	if err != nil {
		return err
	}

	*n = value

	return nil
}

// EncodeBinary implements io.Serializable.
func (n Name) EncodeBinary(w *io.BinWriter) {
	w.WriteString(n.value)
}

// DecodeBinary implements io.Serializable.
func (n *Name) DecodeBinary(r *io.BinReader) {
	value := r.ReadString()
	if r.Err != nil {
		return
	}

	err := check(value)
	if err != nil {
		r.Err = err
		return
	}

	n.value = value
}

func check(value string) error {
	if value == "" {
		return xerrors.New("empty name")
	}

	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return xerrors.Errorf("name '%s' contains a whitespace", value)
	}

	if strings.ContainsAny(value, reserved) {
		return xerrors.Errorf("name '%s' contains one of '%s'", value, reserved)
	}

	return nil
}
