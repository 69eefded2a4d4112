// Package native implements an execution service that runs the instructions
// of the entrypoints with handlers written in Go and packaged with the
// application.
//
// A handler is registered per instruction kind. A data trigger is registered
// for an instruction kind and fires after every successful instruction of
// that kind, which can itself fire other triggers up to a depth bound. The
// service reports the sequence of the triggers that ran, or the reason why
// the entrypoint has been rejected.
package native

import (
	"go.dedis.ch/ledgertx/core/access"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/isi"
	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
	"golang.org/x/xerrors"
)

// Handler is the interface to implement to execute the instructions of a
// kind natively. A handler can return a rejection reason as the error to
// report it as is.
type Handler interface {
	Execute(step execution.Step) error
}

// HandlerFunc is a function that implements the handler interface.
type HandlerFunc func(step execution.Step) error

// Execute implements native.Handler.
func (fn HandlerFunc) Execute(step execution.Step) error {
	return fn(step)
}

// Accounts is the interface of the registry of the known accounts.
type Accounts interface {
	Exists(id account.ID) bool
}

// WasmRunner is the interface of the runtime of the smart contracts.
type WasmRunner interface {
	Run(authority account.ID, contract txn.WasmSmartContract) error
}

// DataTrigger is a trigger that runs its instructions on behalf of its
// authority after each successful instruction of the filtered kind.
type DataTrigger struct {
	ID        txn.TriggerID
	Filter    isi.Kind
	Authority account.ID
	Step      txn.ExecutionStep
}

// Option is the type of option to create an execution service.
type Option func(*Service)

// WithAccess is an option to check that the authority of an instruction is
// allowed to use its kind.
func WithAccess(a access.Access) Option {
	return func(s *Service) {
		s.access = a
	}
}

// WithAccounts is an option to reject the entrypoints of an authority unknown
// to the registry.
func WithAccounts(accounts Accounts) Option {
	return func(s *Service) {
		s.accounts = accounts
	}
}

// WithWasm is an option to set the runtime of the smart contracts. Without
// it, the smart contracts are rejected.
func WithWasm(runner WasmRunner) Option {
	return func(s *Service) {
		s.wasm = runner
	}
}

// WithMaxDepth is an option to change the depth bound of the chained data
// triggers.
func WithMaxDepth(depth int) Option {
	return func(s *Service) {
		s.maxDepth = depth
	}
}

// WithMaxSteps is an option to change the number of data trigger steps that an
// entrypoint can fire. A non-positive number removes the bound.
func WithMaxSteps(steps int) Option {
	return func(s *Service) {
		s.maxSteps = steps
	}
}

// Service is an execution service for packaged instruction handlers. It is
// not safe to register a handler or a trigger during an execution.
//
// - implements execution.Service
type Service struct {
	handlers map[isi.Kind]Handler
	triggers []DataTrigger
	access   access.Access
	accounts Accounts
	wasm     WasmRunner
	maxDepth int
	maxSteps int
}

// NewExecution returns a new native execution without any handler.
func NewExecution(opts ...Option) *Service {
	s := &Service{
		handlers: make(map[isi.Kind]Handler),
		maxDepth: execution.DefaultMaxDepth,
		maxSteps: execution.DefaultMaxSteps,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Set stores the handler of the instructions of the kind.
func (s *Service) Set(kind isi.Kind, h Handler) {
	s.handlers[kind] = h
}

// AddTrigger registers the data trigger. The triggers fire in their order of
// registration.
func (s *Service) AddTrigger(trigger DataTrigger) {
	s.triggers = append(s.triggers, trigger)
}

// Execute implements execution.Service. It runs the instructions of the
// entrypoint then the data triggers they fire, breadth first.
func (s *Service) Execute(e txn.Entrypoint) (txn.Result, error) {
	var instrs []isi.Instruction

	switch e.Kind() {
	case txn.ExternalKind:
		tx, _ := e.External()

		contract, ok := tx.Instructions().Wasm()
		if ok {
			return s.runWasm(tx.Authority(), contract), nil
		}

		instrs = tx.Instructions().Instructions()
	case txn.TimeKind:
		tt, _ := e.Time()
		instrs = tt.Instructions().Instructions()
	default:
		return txn.Result{}, xerrors.Errorf("unknown entrypoint kind %v", e.Kind())
	}

	authority := e.Authority()

	if s.accounts != nil && !s.accounts.Exists(authority) {
		return txn.NewErr(rejection.AccountDoesNotExist{Account: authority}), nil
	}

	chain := execution.NewTriggerChain(s.maxDepth, s.maxSteps)

	reason := s.run(chain, authority, instrs)
	if reason != nil {
		return txn.NewErr(reason), nil
	}

	return chain.Result(), nil
}

type pending struct {
	trigger DataTrigger
	depth   int
}

func (s *Service) run(chain *execution.TriggerChain, authority account.ID,
	instrs []isi.Instruction) rejection.Reason {

	queue, reason := s.runStep(chain, authority, instrs, 0)
	if reason != nil {
		return reason
	}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		err := chain.Record(next.depth, txn.NewDataTriggerStep(next.trigger.ID, next.trigger.Step))
		if err != nil {
			return asReason(err)
		}

		fired, reason := s.runStep(chain, next.trigger.Authority,
			next.trigger.Step.Instructions(), next.depth)
		if reason != nil {
			return reason
		}

		queue = append(queue, fired...)
	}

	return nil
}

// runStep executes the instructions at the given depth and returns the
// triggers they fire at the next depth. It stops at the first firing that the
// chain refuses.
func (s *Service) runStep(chain *execution.TriggerChain, authority account.ID,
	instrs []isi.Instruction, depth int) ([]pending, rejection.Reason) {

	var fired []pending

	for _, instr := range instrs {
		step := execution.Step{
			Authority:   authority,
			Instruction: instr,
			Depth:       depth,
		}

		reason := s.runInstruction(step)
		if reason != nil {
			return nil, reason
		}

		for _, trigger := range s.triggers {
			if trigger.Filter != instr.Kind() {
				continue
			}

			err := chain.Fire(depth + 1)
			if err != nil {
				return nil, asReason(err)
			}

			fired = append(fired, pending{trigger: trigger, depth: depth + 1})
		}
	}

	return fired, nil
}

func (s *Service) runInstruction(step execution.Step) rejection.Reason {
	kind := step.Instruction.Kind()

	if s.access != nil {
		err := s.access.Match(access.InstructionRule(kind), step.Authority)
		if err != nil {
			return rejection.Validation{Fail: rejection.ValidationFail{
				Kind:   rejection.NotPermitted,
				Reason: err.Error(),
			}}
		}
	}

	h := s.handlers[kind]
	if h == nil {
		return rejection.InstructionExecution{
			Instruction: step.Instruction,
			Reason:      "no handler for the instruction",
		}
	}

	err := h.Execute(step)
	if err != nil {
		var reason rejection.Reason
		if xerrors.As(err, &reason) {
			return reason
		}

		return rejection.InstructionExecution{
			Instruction: step.Instruction,
			Reason:      err.Error(),
		}
	}

	return nil
}

func (s *Service) runWasm(authority account.ID, contract txn.WasmSmartContract) txn.Result {
	if s.accounts != nil && !s.accounts.Exists(authority) {
		return txn.NewErr(rejection.AccountDoesNotExist{Account: authority})
	}

	if s.wasm == nil {
		return txn.NewErr(rejection.WasmExecution{Reason: "smart contracts are not supported"})
	}

	err := s.wasm.Run(authority, contract)
	if err != nil {
		var reason rejection.Reason
		if xerrors.As(err, &reason) {
			return txn.NewErr(reason)
		}

		return txn.NewErr(rejection.WasmExecution{Reason: err.Error()})
	}

	return txn.NewOk(txn.NewDataTriggerSequence())
}

func asReason(err error) rejection.Reason {
	var reason rejection.Reason
	if xerrors.As(err, &reason) {
		return reason
	}

	return rejection.Validation{Fail: rejection.ValidationFail{
		Kind:   rejection.InternalError,
		Reason: err.Error(),
	}}
}
