package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// ErrUsage is returned when the arguments of a command cannot be parsed.
var ErrUsage = errors.New("invalid usage")

// NewFlagSet creates a flag set for one command invocation.
// Parse errors are returned instead of exiting.
func NewFlagSet(cmd Command) *pflag.FlagSet {
	flags := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	flags.Usage = func() {}
	return flags
}

// Parse parses args into flags and returns the remaining positional arguments.
// At least min positional arguments are required.
func Parse(cmd Command, flags *pflag.FlagSet, args []string, min int) ([]string, error) {
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v, usage: %s", ErrUsage, err, cmd.Usage())
	}

	if flags.NArg() < min {
		return nil, fmt.Errorf("%w: usage: %s", ErrUsage, cmd.Usage())
	}
	return flags.Args(), nil
}
