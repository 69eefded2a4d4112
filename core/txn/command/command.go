// Package command defines the cli commands to manage the key of an account
// and the transactions it signs.
package command

import (
	"os"

	"github.com/benbjohnson/clock"
	"go.dedis.ch/ledgertx/cli"
	"go.dedis.ch/ledgertx/crypto/ed25519"
	"go.dedis.ch/ledgertx/crypto/loader"
)

// Initializer implements the initializer of the key and transaction commands.
//
// - implements cli.Initializer
type Initializer struct{}

// SetCommands implements cli.Initializer.
func (i Initializer) SetCommands(provider cli.Provider) {
	a := action{
		printer: os.Stdout,
		stdin:   os.Stdin,
		clock:   clock.New(),

		genSigner: ed25519.NewSigner().MarshalBinary,
		newLoader: loader.NewFileLoader,
		readFile:  os.ReadFile,
		saveFile:  saveToFile,
	}

	configFlags := []cli.Flag{
		cli.StringFlag{
			Name:    "config",
			Usage:   "path to the YAML configuration",
			EnvVars: []string{"LEDGERTX_CONFIG"},
		},
		cli.StringFlag{
			Name:  "key",
			Usage: "path to the key of the account, overrides the configuration",
		},
		cli.StringFlag{
			Name:  "domain",
			Usage: "domain of the account, overrides the configuration",
		},
	}

	key := provider.SetCommand("key")
	key.SetDescription("manage the key of the account")

	keyNew := key.SetSubCommand("new")
	keyNew.SetDescription("create the key if it does not exist and print the account")
	keyNew.SetFlags(configFlags...)
	keyNew.SetAction(a.newKeyAction)

	keyShow := key.SetSubCommand("show")
	keyShow.SetDescription("print the account of the key")
	keyShow.SetFlags(configFlags...)
	keyShow.SetAction(a.showKeyAction)

	txFlags := withFlags(configFlags,
		cli.StringFlag{
			Name:  "chain",
			Usage: "identifier of the chain, overrides the configuration",
		},
		cli.StringFlag{
			Name:  "format",
			Usage: "encoding of the transaction: [json | binary]",
		},
	)

	tx := provider.SetCommand("tx")
	tx.SetDescription("create and inspect transactions")

	txNew := tx.SetSubCommand("new")
	txNew.SetDescription("create and sign a transaction")
	txNew.SetFlags(withFlags(txFlags,
		cli.StringSliceFlag{
			Name:  "instruction",
			Usage: "instruction as a JSON object such as {\"Log\":{...}}, can be repeated",
		},
		cli.StringFlag{
			Name:  "wasm",
			Usage: "path to a WASM smart contract to execute instead of instructions",
		},
		cli.StringSliceFlag{
			Name:  "metadata",
			Usage: "metadata entry as key=<json>, can be repeated",
		},
		cli.IntFlag{
			Name:  "nonce",
			Usage: "nonce of the transaction, none if zero",
		},
		cli.DurationFlag{
			Name:  "ttl",
			Usage: "time-to-live of the transaction, overrides the configuration",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "if provided, save the transaction to that file",
		},
		cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite the output file if it exists",
		},
	)...)
	txNew.SetAction(a.newTxAction)

	inFlag := cli.StringFlag{
		Name:  "in",
		Usage: "path to the transaction, read from the standard input if empty",
	}

	txVerify := tx.SetSubCommand("verify")
	txVerify.SetDescription("verify the signature of a transaction")
	txVerify.SetFlags(withFlags(txFlags, inFlag)...)
	txVerify.SetAction(a.verifyTxAction)

	txHash := tx.SetSubCommand("hash")
	txHash.SetDescription("print the hash of a transaction")
	txHash.SetFlags(withFlags(txFlags, inFlag)...)
	txHash.SetAction(a.hashTxAction)

	txDecode := tx.SetSubCommand("decode")
	txDecode.SetDescription("print a transaction as indented JSON")
	txDecode.SetFlags(withFlags(txFlags, inFlag)...)
	txDecode.SetAction(a.decodeTxAction)
}

func withFlags(base []cli.Flag, flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, base...), flags...)
}
