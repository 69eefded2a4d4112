package loader

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// fileLoader is a loader that stores the key in a file as a hexadecimal
// string.
//
// - implements loader.Loader
type fileLoader struct {
	path string

	mkdirFn    func(path string, perms os.FileMode) error
	openFn     func(path string) (*os.File, error)
	openFileFn func(path string, flags int, perms os.FileMode) (*os.File, error)
	statFn     func(path string) (os.FileInfo, error)
}

// NewFileLoader creates a new loader that is using the file given in parameter.
func NewFileLoader(path string) Loader {
	return fileLoader{
		path:       path,
		mkdirFn:    os.MkdirAll,
		openFn:     os.Open,
		openFileFn: os.OpenFile,
		statFn:     os.Stat,
	}
}

// LoadOrCreate implements loader.Loader. It either loads the key from the file
// if it exists, or it generates a new one and stores it in the file. The file
// is only readable by the current user (0400).
func (l fileLoader) LoadOrCreate(g Generator) ([]byte, error) {
	_, err := l.statFn(l.path)
	if !os.IsNotExist(err) {
		data, err := l.Load()
		if err != nil {
			return nil, xerrors.Errorf("failed to load file: %v", err)
		}

		return data, nil
	}

	data, err := g.Generate()
	if err != nil {
		return nil, xerrors.Errorf("generator failed: %v", err)
	}

	err = l.mkdirFn(filepath.Dir(l.path), 0700)
	if err != nil {
		return nil, xerrors.Errorf("while creating directory: %v", err)
	}

	file, err := l.openFileFn(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0400)
	if err != nil {
		return nil, xerrors.Errorf("while creating file: %v", err)
	}

	defer file.Close()

	_, err = io.WriteString(file, hex.EncodeToString(data)+"\n")
	if err != nil {
		return nil, xerrors.Errorf("while writing: %v", err)
	}

	return data, nil
}

// Load implements loader.Loader. It loads the key from the file if it exists,
// otherwise it returns an error.
func (l fileLoader) Load() ([]byte, error) {
	file, err := l.openFn(l.path)
	if err != nil {
		return nil, xerrors.Errorf("while opening file: %v", err)
	}

	defer file.Close()

	text, err := io.ReadAll(file)
	if err != nil {
		return nil, xerrors.Errorf("while reading file: %v", err)
	}

	data, err := hex.DecodeString(string(bytes.TrimSpace(text)))
	if err != nil {
		return nil, xerrors.Errorf("malformed key file: %v", err)
	}

	return data, nil
}
