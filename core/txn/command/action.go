package command

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	"go.dedis.ch/ledgertx/cli"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/metadata"
	"go.dedis.ch/ledgertx/core/name"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/crypto/loader"
	"go.dedis.ch/ledgertx/serde"
	"go.dedis.ch/ledgertx/serde/binary"
	sjson "go.dedis.ch/ledgertx/serde/json"
	"golang.org/x/xerrors"
)

// action defines the different cli actions of the commands. Defining functions
// and printer helps in testing the commands.
type action struct {
	printer io.Writer
	stdin   io.Reader
	clock   clock.Clock

	genSigner func() ([]byte, error)
	newLoader func(path string) loader.Loader

	readFile func(filename string) ([]byte, error)
	saveFile func(path string, force bool, data []byte) error
}

type generator func() ([]byte, error)

func (g generator) Generate() ([]byte, error) {
	return g()
}

func (a action) newKeyAction(flags cli.Flags) error {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		return xerrors.Errorf("failed to load config: %v", err)
	}

	data, err := a.newLoader(cfg.Key).LoadOrCreate(generator(a.genSigner))
	if err != nil {
		return xerrors.Errorf("failed to load or create key: %v", err)
	}

	return a.printAccount(cfg, data)
}

func (a action) showKeyAction(flags cli.Flags) error {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		return xerrors.Errorf("failed to load config: %v", err)
	}

	data, err := a.newLoader(cfg.Key).Load()
	if err != nil {
		return xerrors.Errorf("failed to load key: %v", err)
	}

	return a.printAccount(cfg, data)
}

func (a action) printAccount(cfg Config, data []byte) error {
	_, id, err := makeAccount(cfg, data)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.printer, id)

	return nil
}

func (a action) newTxAction(flags cli.Flags) error {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		return xerrors.Errorf("failed to load config: %v", err)
	}

	data, err := a.newLoader(cfg.Key).Load()
	if err != nil {
		return xerrors.Errorf("failed to load key: %v", err)
	}

	signer, id, err := makeAccount(cfg, data)
	if err != nil {
		return err
	}

	builder := txn.NewBuilderWithClock(cfg.Chain, id, a.clock)

	exec, err := a.parseExecutable(flags)
	if err != nil {
		return xerrors.Errorf("invalid executable: %v", err)
	}

	builder.WithExecutable(exec)

	meta, err := parseMetadata(flags.StringSlice("metadata"))
	if err != nil {
		return xerrors.Errorf("invalid metadata: %v", err)
	}

	builder.WithMetadata(meta)

	nonce := flags.Int("nonce")
	if nonce < 0 || int64(nonce) > int64(^uint32(0)) {
		return xerrors.Errorf("nonce %d out of range", nonce)
	}

	if nonce > 0 {
		builder.SetNonce(uint32(nonce))
	}

	builder.SetTTL(cfg.TTL)

	tx, err := builder.Sign(signer)
	if err != nil {
		return xerrors.Errorf("failed to sign: %v", err)
	}

	out, err := Encode(cfg.Format, tx)
	if err != nil {
		return xerrors.Errorf("failed to encode: %v", err)
	}

	if flags.Path("out") == "" {
		fmt.Fprintln(a.printer, string(out))
		return nil
	}

	err = a.saveFile(flags.Path("out"), flags.Bool("force"), out)
	if err != nil {
		return xerrors.Errorf("failed to save file: %v", err)
	}

	return nil
}

func (a action) verifyTxAction(flags cli.Flags) error {
	tx, err := a.readTx(flags)
	if err != nil {
		return err
	}

	err = tx.VerifySignature()
	if err != nil {
		return xerrors.Errorf("transaction %v: %v", tx.Hash(), err)
	}

	fmt.Fprintf(a.printer, "transaction %v signed by %v is valid\n", tx.Hash(), tx.Authority())

	return nil
}

func (a action) hashTxAction(flags cli.Flags) error {
	tx, err := a.readTx(flags)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.printer, tx.Hash())

	return nil
}

func (a action) decodeTxAction(flags cli.Flags) error {
	tx, err := a.readTx(flags)
	if err != nil {
		return err
	}

	data, err := tx.Serialize(sjson.NewContext())
	if err != nil {
		return xerrors.Errorf("failed to serialize: %v", err)
	}

	var buf bytes.Buffer

	err = json.Indent(&buf, data, "", "  ")
	if err != nil {
		return xerrors.Errorf("failed to indent: %v", err)
	}

	fmt.Fprintln(a.printer, buf.String())

	return nil
}

func (a action) loadConfig(flags cli.Flags) (Config, error) {
	cfg := DefaultConfig

	if flags.Path("config") != "" {
		data, err := a.readFile(flags.Path("config"))
		if err != nil {
			return Config{}, xerrors.Errorf("failed to read file: %v", err)
		}

		cfg, err = LoadConfig(data)
		if err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withFlags(flags)

	err := cfg.check()
	if err != nil {
		return Config{}, xerrors.Errorf("invalid config: %v", err)
	}

	return cfg, nil
}

func (a action) parseExecutable(flags cli.Flags) (txn.Executable, error) {
	texts := flags.StringSlice("instruction")

	if flags.Path("wasm") != "" {
		if len(texts) > 0 {
			return txn.Executable{}, xerrors.New("instructions and wasm are exclusive")
		}

		code, err := a.readFile(flags.Path("wasm"))
		if err != nil {
			return txn.Executable{}, xerrors.Errorf("failed to read file: %v", err)
		}

		return txn.NewWasm(txn.NewWasmSmartContract(code)), nil
	}

	instrs := make([]isi.Instruction, len(texts))
	for i, text := range texts {
		err := instrs[i].UnmarshalJSON([]byte(text))
		if err != nil {
			return txn.Executable{}, xerrors.Errorf("instruction #%d: %v", i, err)
		}
	}

	return txn.NewInstructions(instrs...), nil
}

func (a action) readTx(flags cli.Flags) (txn.SignedTransaction, error) {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("failed to load config: %v", err)
	}

	var data []byte

	if flags.Path("in") == "" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = a.readFile(flags.Path("in"))
	}

	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("failed to read input: %v", err)
	}

	tx, err := Decode(cfg.Format, data)
	if err != nil {
		return txn.SignedTransaction{}, xerrors.Errorf("failed to decode: %v", err)
	}

	return tx, nil
}

func makeAccount(cfg Config, data []byte) (ed25519.Signer, account.ID, error) {
	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return ed25519.Signer{}, account.ID{}, xerrors.Errorf("failed to unmarshal signer: %v", err)
	}

	domain, err := cfg.DomainID()
	if err != nil {
		return ed25519.Signer{}, account.ID{}, err
	}

	return signer, account.NewID(signer.GetPublicKey(), domain), nil
}

// parseMetadata parses the entries formatted as key=<json>.
func parseMetadata(entries []string) (metadata.Metadata, error) {
	meta := metadata.New()

	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return metadata.Metadata{}, xerrors.Errorf("malformed entry '%s'", entry)
		}

		n, err := name.New(key)
		if err != nil {
			return metadata.Metadata{}, xerrors.Errorf("invalid key: %v", err)
		}

		_, err = meta.Insert(n, []byte(value))
		if err != nil {
			return metadata.Metadata{}, err
		}
	}

	return meta, nil
}

func contextOf(format string) serde.Context {
	if format == FormatBinary {
		return binary.NewContext()
	}

	return sjson.NewContext()
}

// Encode returns the transaction in the format. The binary format is encoded
// in hexadecimal so that it can be printed.
func Encode(format string, tx txn.SignedTransaction) ([]byte, error) {
	data, err := tx.Serialize(contextOf(format))
	if err != nil {
		return nil, err
	}

	if format == FormatBinary {
		data = []byte(hex.EncodeToString(data))
	}

	return data, nil
}

// Decode returns the transaction of the data in the format.
func Decode(format string, data []byte) (txn.SignedTransaction, error) {
	data = bytes.TrimSpace(data)

	if format == FormatBinary {
		raw, err := hex.DecodeString(string(data))
		if err != nil {
			return txn.SignedTransaction{}, xerrors.Errorf("malformed hex: %v", err)
		}

		data = raw
	}

	return txn.NewTransactionFactory().TransactionOf(contextOf(format), data)
}

func saveToFile(path string, force bool, data []byte) error {
	if !force && fileExist(path) {
		return xerrors.Errorf("file '%s' already exist, use --force if you "+
			"want to overwrite", path)
	}

	err := os.WriteFile(path, data, 0600)
	if err != nil {
		return xerrors.Errorf("failed to write file: %v", err)
	}

	return nil
}

func fileExist(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
