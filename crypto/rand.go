package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// CryptographicRandomGenerator is cryptographically secure random generator.
//
// - implements io.Reader
type CryptographicRandomGenerator struct{}

// Read implements io.Reader. It fills the given buffer at its capacity as
// long as no error occurred.
func (crg CryptographicRandomGenerator) Read(buffer []byte) (int, error) {
	return rand.Read(buffer)
}

// RandomNonce draws a non-zero 32-bit value from the reader.
func RandomNonce(reader io.Reader) (uint32, error) {
	buffer := make([]byte, 4)

	for {
		_, err := io.ReadFull(reader, buffer)
		if err != nil {
			return 0, xerrors.Errorf("failed to read: %v", err)
		}

		nonce := binary.LittleEndian.Uint32(buffer)
		if nonce != 0 {
			return nonce, nil
		}
	}
}
