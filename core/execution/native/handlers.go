package native

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.dedis.ch/ledgertx"
	"go.dedis.ch/ledgertx/core/access/darc"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/execution"
	"go.dedis.ch/ledgertx/core/isi"
	"golang.org/x/xerrors"
)

// LogHandler is the handler of the log instructions. It writes the message
// in the logger at the level of the instruction.
//
// - implements native.Handler
type LogHandler struct {
	logger zerolog.Logger
}

// NewLogHandler returns a log handler that uses the global logger.
func NewLogHandler() LogHandler {
	return NewLogHandlerWithLogger(ledgertx.Logger)
}

// NewLogHandlerWithLogger returns a log handler that uses the logger.
func NewLogHandlerWithLogger(logger zerolog.Logger) LogHandler {
	return LogHandler{logger: logger}
}

type logPayload struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

// Execute implements native.Handler.
func (h LogHandler) Execute(step execution.Step) error {
	var payload logPayload

	err := json.Unmarshal(step.Instruction.Payload(), &payload)
	if err != nil {
		return xerrors.Errorf("couldn't unmarshal payload: %v", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(payload.Level))
	if err != nil {
		return xerrors.Errorf("invalid level: %v", err)
	}

	h.logger.WithLevel(level).
		Str("authority", step.Authority.String()).
		Int("depth", step.Depth).
		Msg(payload.Msg)

	return nil
}

// PermissionHandler is the handler of the grant and revoke instructions. The
// payload names a rule and the group of accounts to add or remove.
//
// - implements native.Handler
type PermissionHandler struct {
	perm  *darc.Permission
	grant bool
}

// NewGrantHandler returns the handler of the grant instructions over the
// permission.
func NewGrantHandler(perm *darc.Permission) PermissionHandler {
	return PermissionHandler{perm: perm, grant: true}
}

// NewRevokeHandler returns the handler of the revoke instructions over the
// permission.
func NewRevokeHandler(perm *darc.Permission) PermissionHandler {
	return PermissionHandler{perm: perm, grant: false}
}

type permissionPayload struct {
	Rule     string       `json:"rule"`
	Accounts []account.ID `json:"accounts"`
}

// Execute implements native.Handler.
func (h PermissionHandler) Execute(step execution.Step) error {
	var payload permissionPayload

	err := json.Unmarshal(step.Instruction.Payload(), &payload)
	if err != nil {
		return xerrors.Errorf("couldn't unmarshal payload: %v", err)
	}

	if payload.Rule == "" {
		return xerrors.New("missing rule")
	}

	if len(payload.Accounts) == 0 {
		return xerrors.New("missing accounts")
	}

	h.perm.Evolve(payload.Rule, h.grant, payload.Accounts...)

	return nil
}

// Registry is an in-memory registry of the accounts. It can be shared between
// goroutines.
//
// - implements native.Accounts
type Registry struct {
	sync.RWMutex

	accounts map[string]account.ID
}

// NewRegistry returns a registry populated with the accounts.
func NewRegistry(ids ...account.ID) *Registry {
	r := &Registry{
		accounts: make(map[string]account.ID),
	}

	for _, id := range ids {
		r.accounts[id.String()] = id
	}

	return r
}

// Exists implements native.Accounts.
func (r *Registry) Exists(id account.ID) bool {
	r.RLock()
	defer r.RUnlock()

	_, found := r.accounts[id.String()]
	return found
}

// Len returns the number of registered accounts.
func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.accounts)
}

type accountPayload struct {
	Account account.ID `json:"account"`
}

// Execute implements native.Handler. It registers the account of a register
// instruction and removes the one of an unregister instruction.
func (r *Registry) Execute(step execution.Step) error {
	var payload accountPayload

	err := json.Unmarshal(step.Instruction.Payload(), &payload)
	if err != nil {
		return xerrors.Errorf("couldn't unmarshal payload: %v", err)
	}

	if payload.Account.IsZero() {
		return xerrors.New("missing account")
	}

	key := payload.Account.String()

	r.Lock()
	defer r.Unlock()

	_, found := r.accounts[key]

	switch step.Instruction.Kind() {
	case isi.Register:
		if found {
			return xerrors.Errorf("account %v already exists", payload.Account)
		}

		r.accounts[key] = payload.Account
	case isi.Unregister:
		if !found {
			return xerrors.Errorf("account %v not found", payload.Account)
		}

		delete(r.accounts, key)
	default:
		return xerrors.Errorf("unsupported instruction '%s'", step.Instruction.Kind().Name())
	}

	return nil
}
