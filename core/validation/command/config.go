package command

import (
	"context"

	"go.dedis.ch/ledgertx/core/access/darc"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/execution/native"
	"go.dedis.ch/ledgertx/core/execution/wasm"
	"go.dedis.ch/ledgertx/core/history"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/store/kv"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/validation"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// TriggerConfig is the configuration of a data trigger. The instructions are
// JSON objects such as {"Log":{...}}.
type TriggerConfig struct {
	ID           string   `yaml:"id"`
	Filter       string   `yaml:"filter"`
	Authority    string   `yaml:"authority"`
	Instructions []string `yaml:"instructions"`
}

// Config is the configuration of a node.
type Config struct {
	Chain txn.ChainID `yaml:"chain"`
	DB    string      `yaml:"db"`

	// Permission is the path to the YAML permission of the instructions. The
	// instructions are not restricted when it is empty.
	Permission string `yaml:"permission"`

	// Accounts are the registered accounts. Any authority is accepted when it
	// is empty.
	Accounts []string `yaml:"accounts"`

	MaxDepth int               `yaml:"max_depth"`
	MaxSteps int               `yaml:"max_steps"`
	Limits   validation.Limits `yaml:"limits"`
	Wasm     wasm.Config       `yaml:"wasm"`
	Triggers []TriggerConfig   `yaml:"triggers"`
}

// DefaultConfig is the configuration used when no file is provided.
var DefaultConfig = Config{
	Chain:    "ledgertx",
	DB:       "ledgertx.db",
	MaxDepth: execution.DefaultMaxDepth,
	MaxSteps: execution.DefaultMaxSteps,
	Limits:   validation.DefaultLimits,
	Wasm:     wasm.DefaultConfig,
}

// LoadConfig returns the configuration of the YAML document. The missing
// fields keep their default value.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig

	err := yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("couldn't unmarshal config: %v", err)
	}

	if cfg.Chain == "" {
		return Config{}, xerrors.New("missing chain")
	}

	if cfg.DB == "" {
		return Config{}, xerrors.New("missing db path")
	}

	if cfg.MaxDepth <= 0 {
		return Config{}, xerrors.New("max depth must be positive")
	}

	if cfg.MaxSteps <= 0 {
		return Config{}, xerrors.New("max steps must be positive")
	}

	limits := cfg.Limits
	if limits.MaxInstructions < 0 || limits.MaxWasmSize < 0 || limits.MaxMetadataEntries < 0 {
		return Config{}, xerrors.New("limits must not be negative")
	}

	return cfg, nil
}

// node is the set of components that process the entrypoints.
type node struct {
	db      kv.DB
	runtime *wasm.Runtime
	history *history.Store
	service *validation.Service
}

func (a action) openNode(ctx context.Context, cfg Config) (*node, error) {
	rt := wasm.NewRuntime(ctx, cfg.Wasm)

	exec, err := a.newExecution(cfg, rt)
	if err != nil {
		rt.Close()
		return nil, xerrors.Errorf("failed to create execution: %v", err)
	}

	db, err := kv.New(cfg.DB)
	if err != nil {
		rt.Close()
		return nil, xerrors.Errorf("failed to open history: %v", err)
	}

	acceptor := validation.NewAcceptor(cfg.Chain)
	acceptor.Limits = cfg.Limits

	store := history.NewStore(db)

	return &node{
		db:      db,
		runtime: rt,
		history: store,
		service: validation.NewService(acceptor, exec, store),
	}, nil
}

func (n *node) Close() error {
	err := n.runtime.Close()
	if err != nil {
		return xerrors.Errorf("failed to close runtime: %v", err)
	}

	err = n.db.Close()
	if err != nil {
		return xerrors.Errorf("failed to close db: %v", err)
	}

	return nil
}

// newExecution returns the native execution with the handlers of the
// configuration.
func (a action) newExecution(cfg Config, runner native.WasmRunner) (*native.Service, error) {
	opts := []native.Option{
		native.WithMaxDepth(cfg.MaxDepth),
		native.WithMaxSteps(cfg.MaxSteps),
		native.WithWasm(runner),
	}

	var perm *darc.Permission

	if cfg.Permission != "" {
		data, err := a.readFile(cfg.Permission)
		if err != nil {
			return nil, xerrors.Errorf("failed to read permission: %v", err)
		}

		perm, err = darc.LoadPermission(data)
		if err != nil {
			return nil, err
		}

		opts = append(opts, native.WithAccess(perm))
	}

	var registry *native.Registry

	if len(cfg.Accounts) > 0 {
		ids, err := parseAccounts(cfg.Accounts)
		if err != nil {
			return nil, err
		}

		registry = native.NewRegistry(ids...)

		opts = append(opts, native.WithAccounts(registry))
	}

	exec := native.NewExecution(opts...)
	exec.Set(isi.Log, native.NewLogHandler())

	if perm != nil {
		exec.Set(isi.Grant, native.NewGrantHandler(perm))
		exec.Set(isi.Revoke, native.NewRevokeHandler(perm))
	}

	if registry != nil {
		exec.Set(isi.Register, registry)
		exec.Set(isi.Unregister, registry)
	}

	for i, tc := range cfg.Triggers {
		trigger, err := parseTrigger(tc)
		if err != nil {
			return nil, xerrors.Errorf("trigger #%d: %v", i, err)
		}

		exec.AddTrigger(trigger)
	}

	return exec, nil
}

func parseAccounts(texts []string) ([]account.ID, error) {
	ids := make([]account.ID, len(texts))

	for i, text := range texts {
		id, err := account.ParseID(text)
		if err != nil {
			return nil, xerrors.Errorf("account #%d: %v", i, err)
		}

		ids[i] = id
	}

	return ids, nil
}

func parseTrigger(tc TriggerConfig) (native.DataTrigger, error) {
	id, err := txn.ParseTriggerID(tc.ID)
	if err != nil {
		return native.DataTrigger{}, err
	}

	filter, err := isi.ParseKind(tc.Filter)
	if err != nil {
		return native.DataTrigger{}, err
	}

	authority, err := account.ParseID(tc.Authority)
	if err != nil {
		return native.DataTrigger{}, err
	}

	instrs, err := parseInstructions(tc.Instructions)
	if err != nil {
		return native.DataTrigger{}, err
	}

	return native.DataTrigger{
		ID:        id,
		Filter:    filter,
		Authority: authority,
		Step:      txn.NewExecutionStep(instrs...),
	}, nil
}

func parseInstructions(texts []string) ([]isi.Instruction, error) {
	instrs := make([]isi.Instruction, len(texts))

	for i, text := range texts {
		err := instrs[i].UnmarshalJSON([]byte(text))
		if err != nil {
			return nil, xerrors.Errorf("instruction #%d: %v", i, err)
		}
	}

	return instrs, nil
}
