package fake

import (
	"hash"
)

// Hash is a fake implementation of a hash whose writes can be configured to
// fail after a given number of calls.
//
// - implements hash.Hash
type Hash struct {
	hash.Hash
	delay int
	err   error
	Call  *Call
}

// NewBadHash returns a hash that fails on the first write.
func NewBadHash() *Hash {
	return NewBadHashWithDelay(0)
}

// NewBadHashWithDelay returns a hash that fails after the given number of
// successful writes.
func NewBadHashWithDelay(delay int) *Hash {
	return &Hash{delay: delay, err: fakeErr}
}

// Write implements io.Writer.
func (h *Hash) Write(in []byte) (int, error) {
	if h.Call != nil {
		h.Call.Add(in)
	}

	if h.delay > 0 {
		h.delay--
		return len(in), nil
	}

	if h.err != nil {
		return 0, h.err
	}

	return len(in), nil
}

// Sum implements hash.Hash.
func (h *Hash) Sum([]byte) []byte {
	return make([]byte, 32)
}

// Size implements hash.Hash.
func (h *Hash) Size() int {
	return 32
}

// HashFactory is a fake implementation of a hash factory.
//
// - implements crypto.HashFactory
type HashFactory struct {
	hash *Hash
}

// NewHashFactory returns a fake hash factory that returns the given hash.
func NewHashFactory(h *Hash) HashFactory {
	return HashFactory{hash: h}
}

// New implements crypto.HashFactory.
func (f HashFactory) New() hash.Hash {
	return f.hash
}
