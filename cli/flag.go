package cli

import "time"

// StringFlag is the definition of a flag parsed as a string.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    string

	// EnvVars are the environment variables read, in order, when the flag is
	// not set on the command line.
	EnvVars []string
}

// Flag implements cli.Flag.
func (flag StringFlag) Flag() {}

// StringSliceFlag is the definition of a flag parsed as a slice of strings.
// The flag can be repeated.
//
// - implements cli.Flag
type StringSliceFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    []string
	EnvVars  []string
}

// Flag implements cli.Flag.
func (flag StringSliceFlag) Flag() {}

// DurationFlag is the definition of a flag parsed as a duration such as
// "1m30s".
//
// - implements cli.Flag
type DurationFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    time.Duration
	EnvVars  []string
}

// Flag implements cli.Flag.
func (flag DurationFlag) Flag() {}

// IntFlag is the definition of a flag parsed as an integer.
//
// - implements cli.Flag
type IntFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    int
	EnvVars  []string
}

// Flag implements cli.Flag.
func (flag IntFlag) Flag() {}

// BoolFlag is the definition of a flag parsed as a boolean. It is true when
// present without a value.
//
// - implements cli.Flag
type BoolFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    bool
	EnvVars  []string
}

// Flag implements cli.Flag.
func (flag BoolFlag) Flag() {}
