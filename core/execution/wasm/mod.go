// Package wasm implements the runtime of the smart contracts of the
// transactions on top of the wazero WebAssembly engine.
//
// A contract is a module that exports a "_start" function. It has no access
// to the filesystem, the network or the clock of the host.
package wasm

import (
	"context"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"golang.org/x/xerrors"
)

// StartFunction is the name of the function called when a contract starts.
const StartFunction = "_start"

// pageSize is the size of a page of memory of WebAssembly.
const pageSize = 64 * 1024

// Config is the configuration of the runtime.
type Config struct {
	// MemoryLimit is the maximum number of bytes of memory of a contract.
	MemoryLimit uint64 `yaml:"memory_limit"`

	// Timeout is the maximum duration of the execution of a contract.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig is the configuration used when none is provided.
var DefaultConfig = Config{
	MemoryLimit: 16 * 1024 * 1024,
	Timeout:     time.Second,
}

// Runtime runs the smart contracts one at a time.
//
// - implements native.WasmRunner
type Runtime struct {
	sync.Mutex

	runtime wazero.Runtime
	config  Config
}

// NewRuntime returns a new runtime with the configuration.
func NewRuntime(ctx context.Context, cfg Config) *Runtime {
	rcfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)

	if cfg.MemoryLimit > 0 {
		pages := uint32(cfg.MemoryLimit / pageSize)
		if pages == 0 {
			pages = 1
		}

		rcfg = rcfg.WithMemoryLimitPages(pages)
	}

	r := wazero.NewRuntimeWithConfig(ctx, rcfg)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	return &Runtime{
		runtime: r,
		config:  cfg,
	}
}

// Run implements native.WasmRunner. It compiles and instantiates the contract
// which runs its start function. A contract that does not finish in time is
// rejected as too complex.
func (rt *Runtime) Run(authority account.ID, contract txn.WasmSmartContract) error {
	rt.Lock()
	defer rt.Unlock()

	ctx := context.Background()

	if rt.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.config.Timeout)
		defer cancel()
	}

	compiled, err := rt.runtime.CompileModule(ctx, contract.Code())
	if err != nil {
		return xerrors.Errorf("couldn't compile: %v", err)
	}

	defer compiled.Close(ctx)

	modcfg := wazero.NewModuleConfig().
		WithName(authority.String()).
		WithStartFunctions(StartFunction)

	mod, err := rt.runtime.InstantiateModule(ctx, compiled, modcfg)
	if err != nil {
		if ctx.Err() != nil {
			return rejection.Validation{Fail: rejection.ValidationFail{
				Kind: rejection.TooComplex,
			}}
		}

		return xerrors.Errorf("couldn't instantiate: %v", err)
	}

	return mod.Close(ctx)
}

// Close releases the resources of the runtime.
func (rt *Runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := rt.runtime.Close(ctx)
	if err != nil {
		return xerrors.Errorf("couldn't close runtime: %v", err)
	}

	return nil
}
