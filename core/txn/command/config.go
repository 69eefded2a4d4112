package command

import (
	"time"

	"go.dedis.ch/ledgertx/cli"
	"go.dedis.ch/ledgertx/core/account"
	"go.dedis.ch/ledgertx/core/txn"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	// FormatJSON encodes the transactions as JSON documents.
	FormatJSON = "json"
	// FormatBinary encodes the transactions as hexadecimal binary payloads.
	FormatBinary = "binary"
)

// Config is the configuration of the commands. The flags of a command override
// the values of its configuration.
type Config struct {
	Chain  txn.ChainID   `yaml:"chain"`
	Domain string        `yaml:"domain"`
	Key    string        `yaml:"key"`
	TTL    time.Duration `yaml:"ttl"`
	Format string        `yaml:"format"`
}

// DefaultConfig is the configuration used when no file is provided.
var DefaultConfig = Config{
	Chain:  "ledgertx",
	Domain: "wonderland",
	Key:    "ledgertx.key",
	Format: FormatJSON,
}

// LoadConfig returns the configuration of the YAML document. The missing
// fields keep their default value.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig

	err := yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("couldn't unmarshal config: %v", err)
	}

	return cfg, nil
}

// DomainID returns the domain of the configuration.
func (c Config) DomainID() (account.DomainID, error) {
	return account.ParseDomainID(c.Domain)
}

func (c Config) check() error {
	if c.Chain == "" {
		return xerrors.New("missing chain")
	}

	if c.Key == "" {
		return xerrors.New("missing key path")
	}

	if c.TTL < 0 {
		return xerrors.New("negative ttl")
	}

	switch c.Format {
	case FormatJSON, FormatBinary:
	default:
		return xerrors.Errorf("unknown format '%s'", c.Format)
	}

	_, err := c.DomainID()
	if err != nil {
		return err
	}

	return nil
}

// withFlags returns the configuration updated with the flags that are set.
func (c Config) withFlags(flags cli.Flags) Config {
	if flags.String("chain") != "" {
		c.Chain = txn.ChainID(flags.String("chain"))
	}

	if flags.String("domain") != "" {
		c.Domain = flags.String("domain")
	}

	if flags.Path("key") != "" {
		c.Key = flags.Path("key")
	}

	if flags.Duration("ttl") != 0 {
		c.TTL = flags.Duration("ttl")
	}

	if flags.String("format") != "" {
		c.Format = flags.String("format")
	}

	return c
}
