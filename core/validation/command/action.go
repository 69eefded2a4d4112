package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.dedis.ch/ledgertx/cli"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/history"
	"go.dedis.ch/ledgertx/core/txn"
	txcmd "go.dedis.ch/ledgertx/core/txn/command"
	sjson "go.dedis.ch/ledgertx/serde/json"
	"golang.org/x/xerrors"
)

// action defines the different cli actions of the ledger commands. Defining
// functions and printer helps in testing the commands.
type action struct {
	ctx     context.Context
	printer io.Writer

	readFile func(filename string) ([]byte, error)
}

func (a action) processAction(flags cli.Flags) error {
	var entrypoints []txn.Entrypoint

	for _, path := range flags.StringSlice("in") {
		data, err := a.readFile(path)
		if err != nil {
			return xerrors.Errorf("failed to read file: %v", err)
		}

		tx, err := txcmd.Decode(flags.String("format"), data)
		if err != nil {
			return xerrors.Errorf("failed to decode '%s': %v", path, err)
		}

		entrypoints = append(entrypoints, txn.NewExternal(tx))
	}

	return a.withNode(flags, func(n *node) error {
		entries, err := n.service.Process(entrypoints...)
		if err != nil {
			return xerrors.Errorf("failed to process: %v", err)
		}

		for _, entry := range entries {
			a.printEntry(entry)
		}

		refused := len(entrypoints) - len(entries)
		if refused > 0 {
			fmt.Fprintf(a.printer, "%d transaction(s) refused\n", refused)
		}

		return nil
	})
}

func (a action) tickAction(flags cli.Flags) error {
	id, err := txn.ParseTriggerID(flags.String("id"))
	if err != nil {
		return xerrors.Errorf("invalid trigger: %v", err)
	}

	authority, err := account.ParseID(flags.String("authority"))
	if err != nil {
		return xerrors.Errorf("invalid authority: %v", err)
	}

	instrs, err := parseInstructions(flags.StringSlice("instruction"))
	if err != nil {
		return xerrors.Errorf("invalid step: %v", err)
	}

	e := txn.NewTime(txn.NewTimeTriggerEntrypoint(id, txn.NewExecutionStep(instrs...), authority))

	return a.withNode(flags, func(n *node) error {
		entries, err := n.service.Process(e)
		if err != nil {
			return xerrors.Errorf("failed to process: %v", err)
		}

		if len(entries) == 0 {
			fmt.Fprintf(a.printer, "%v already committed\n", e.Hash())
			return nil
		}

		a.printEntry(entries[0])

		return nil
	})
}

func (a action) historyAction(flags cli.Flags) error {
	pred, err := makePredicate(flags)
	if err != nil {
		return err
	}

	return a.withNode(flags, func(n *node) error {
		entries, err := n.history.Filter(pred)
		if err != nil {
			return xerrors.Errorf("failed to read history: %v", err)
		}

		for _, entry := range entries {
			a.printEntry(entry)
		}

		return nil
	})
}

func (a action) showAction(flags cli.Flags) error {
	var hash txn.EntrypointHash

	err := hash.UnmarshalText([]byte(flags.String("hash")))
	if err != nil {
		return xerrors.Errorf("invalid hash: %v", err)
	}

	return a.withNode(flags, func(n *node) error {
		e, err := n.history.Entrypoint(hash)
		if err != nil {
			return xerrors.Errorf("failed to read history: %v", err)
		}

		res, err := n.history.Result(hash)
		if err != nil {
			return xerrors.Errorf("failed to read history: %v", err)
		}

		ctx := sjson.NewContext()

		entrypoint, err := e.Serialize(ctx)
		if err != nil {
			return xerrors.Errorf("failed to serialize entrypoint: %v", err)
		}

		result, err := res.Serialize(ctx)
		if err != nil {
			return xerrors.Errorf("failed to serialize result: %v", err)
		}

		out, err := json.MarshalIndent(struct {
			Entrypoint json.RawMessage `json:"entrypoint"`
			Result     json.RawMessage `json:"result"`
		}{
			Entrypoint: entrypoint,
			Result:     result,
		}, "", "  ")
		if err != nil {
			return xerrors.Errorf("failed to marshal: %v", err)
		}

		fmt.Fprintln(a.printer, string(out))

		return nil
	})
}

func (a action) loadConfig(flags cli.Flags) (Config, error) {
	if flags.Path("config") == "" {
		return DefaultConfig, nil
	}

	data, err := a.readFile(flags.Path("config"))
	if err != nil {
		return Config{}, xerrors.Errorf("failed to read file: %v", err)
	}

	return LoadConfig(data)
}

// withNode opens the node of the configuration for the duration of the
// function.
func (a action) withNode(flags cli.Flags, fn func(*node) error) error {
	cfg, err := a.loadConfig(flags)
	if err != nil {
		return xerrors.Errorf("failed to load config: %v", err)
	}

	n, err := a.openNode(a.ctx, cfg)
	if err != nil {
		return xerrors.Errorf("failed to open node: %v", err)
	}

	err = fn(n)

	closeErr := n.Close()
	if err == nil && closeErr != nil {
		return xerrors.Errorf("failed to close node: %v", closeErr)
	}

	return err
}

func (a action) printEntry(entry history.Entry) {
	fmt.Fprintf(a.printer, "%v %v %v\n", entry.Hash(), entry.Entrypoint.Kind(), entry.Result)
}

func makePredicate(flags cli.Flags) (history.Predicate, error) {
	preds := []history.Predicate{}

	if flags.Bool("rejected") {
		preds = append(preds, func(e history.Entry) bool {
			return !e.Result.IsOK()
		})
	}

	if flags.String("authority") != "" {
		id, err := account.ParseID(flags.String("authority"))
		if err != nil {
			return nil, xerrors.Errorf("invalid authority: %v", err)
		}

		preds = append(preds, func(e history.Entry) bool {
			return e.Entrypoint.Authority().Equal(id)
		})
	}

	if flags.String("trigger") != "" {
		id, err := txn.ParseTriggerID(flags.String("trigger"))
		if err != nil {
			return nil, xerrors.Errorf("invalid trigger: %v", err)
		}

		preds = append(preds, func(e history.Entry) bool {
			return e.Result.ContainsDataTrigger(id)
		})
	}

	return func(e history.Entry) bool {
		for _, pred := range preds {
			if !pred(e) {
				return false
			}
		}

		return true
	}, nil
}
