package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/internal/testing/fake"
)

func TestFileLoader_LoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "alice.key")

	generator := fakeGenerator{
		calls: fake.NewCall(),
	}

	loader := NewFileLoader(path).(fileLoader)

	// Generate..
	data, err := loader.LoadOrCreate(generator)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Equal(t, 1, generator.calls.Len())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "010203\n", string(content))

	// Read from the file..
	data, err = loader.LoadOrCreate(generator)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Equal(t, 1, generator.calls.Len())
}

func TestFileLoader_LoadOrCreateFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.key")

	loader := NewFileLoader(path).(fileLoader)

	_, err := loader.LoadOrCreate(fakeGenerator{calls: fake.NewCall(), err: fake.GetError()})
	require.EqualError(t, err, fake.Err("generator failed"))

	generator := fakeGenerator{calls: fake.NewCall()}

	loader.mkdirFn = func(string, os.FileMode) error {
		return fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while creating directory"))

	loader.mkdirFn = os.MkdirAll
	loader.openFileFn = func(string, int, os.FileMode) (*os.File, error) {
		return nil, fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while creating file"))

	loader.statFn = func(string) (os.FileInfo, error) {
		return nil, nil
	}
	loader.openFn = func(string) (*os.File, error) {
		return nil, fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err,
		fake.Err("failed to load file: while opening file"))
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alice.key")

	require.NoError(t, os.WriteFile(path, []byte("  0a0b \n"), 0600))

	data, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	require.Equal(t, []byte{0xa, 0xb}, data)

	require.NoError(t, os.WriteFile(path, []byte("xyz"), 0600))

	_, err = NewFileLoader(path).Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "malformed key file: ")

	loader := NewFileLoader(path).(fileLoader)
	loader.openFn = func(string) (*os.File, error) {
		return os.Open(dir)
	}
	_, err = loader.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "while reading file: ")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeGenerator struct {
	calls *fake.Call
	err   error
}

func (g fakeGenerator) Generate() ([]byte, error) {
	g.calls.Add("Generate")

	return []byte{1, 2, 3}, g.err
}
