// Package main provides the cli to manage the keys of the accounts, sign
// transactions and process them on a node.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.dedis.ch/ledgertx"
	"go.dedis.ch/ledgertx/cli"
	"go.dedis.ch/ledgertx/cli/ucli"
	txn "go.dedis.ch/ledgertx/core/txn/command"
	validation "go.dedis.ch/ledgertx/core/validation/command"
)

var builder cli.Builder = ucli.NewBuilder("ledgertx", nil)
var printer io.Writer = os.Stderr

func main() {
	// The standard output is reserved to the results of the commands.
	ledgertx.Logger = ledgertx.Logger.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	err := run(os.Args, initializers()...)
	if err != nil {
		fmt.Fprintf(printer, "%+v\n", err)
	}
}

func initializers() []cli.Initializer {
	return []cli.Initializer{
		txn.Initializer{},
		validation.Initializer{},
	}
}

func run(args []string, inits ...cli.Initializer) error {
	for _, init := range inits {
		init.SetCommands(builder)
	}

	app := builder.Build()
	err := app.Run(args)
	if err != nil {
		return err
	}

	return nil
}
