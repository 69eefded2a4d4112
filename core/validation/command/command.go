// Package command defines the cli commands of a node that processes the
// entrypoints of a chain and keeps their history.
package command

import (
	"context"
	"os"

	"go.dedis.ch/ledgertx/cli"
)

// Initializer implements the initializer of the ledger commands.
//
// - implements cli.Initializer
type Initializer struct{}

// SetCommands implements cli.Initializer.
func (i Initializer) SetCommands(provider cli.Provider) {
	a := action{
		ctx:      context.Background(),
		printer:  os.Stdout,
		readFile: os.ReadFile,
	}

	configFlag := cli.StringFlag{
		Name:    "config",
		Usage:   "path to the YAML configuration of the node",
		EnvVars: []string{"LEDGERTX_NODE_CONFIG"},
	}

	ledger := provider.SetCommand("ledger")
	ledger.SetDescription("process entrypoints and read the history")

	process := ledger.SetSubCommand("process")
	process.SetDescription("admit, execute and commit transactions")
	process.SetFlags(configFlag,
		cli.StringSliceFlag{
			Name:     "in",
			Usage:    "path to a transaction, can be repeated",
			Required: true,
		},
		cli.StringFlag{
			Name:  "format",
			Usage: "encoding of the transactions: [json | binary]",
			Value: "json",
		},
	)
	process.SetAction(a.processAction)

	tick := ledger.SetSubCommand("tick")
	tick.SetDescription("execute and commit a time trigger")
	tick.SetFlags(configFlag,
		cli.StringFlag{
			Name:     "id",
			Usage:    "identifier of the trigger",
			Required: true,
		},
		cli.StringFlag{
			Name:     "authority",
			Usage:    "account on behalf of which the trigger runs",
			Required: true,
		},
		cli.StringSliceFlag{
			Name:  "instruction",
			Usage: "instruction as a JSON object such as {\"Log\":{...}}, can be repeated",
		},
	)
	tick.SetAction(a.tickAction)

	hist := ledger.SetSubCommand("history")
	hist.SetDescription("list the committed entrypoints in their order of commit")
	hist.SetFlags(configFlag,
		cli.BoolFlag{
			Name:  "rejected",
			Usage: "list only the rejected entrypoints",
		},
		cli.StringFlag{
			Name:  "authority",
			Usage: "list only the entrypoints of the account",
		},
		cli.StringFlag{
			Name:  "trigger",
			Usage: "list only the entrypoints that ran the data trigger",
		},
	)
	hist.SetAction(a.historyAction)

	show := ledger.SetSubCommand("show")
	show.SetDescription("print a committed entrypoint and its result as JSON")
	show.SetFlags(configFlag,
		cli.StringFlag{
			Name:     "hash",
			Usage:    "hash of the entrypoint in hexadecimal",
			Required: true,
		},
	)
	show.SetAction(a.showAction)
}
