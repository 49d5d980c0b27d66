package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/tympanix/gosh/internal/shellerr"
)

var errUsageShown = errors.New("usage shown")

func newFlagSet(name, usage string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: %s %s\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args and returns the operands. On -h/--help pflag has
// already printed the usage and errUsageShown is returned.
func parseFlags(fs *pflag.FlagSet, args []string) ([]string, error) {
	err := fs.Parse(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return nil, errUsageShown
	case err != nil:
		return nil, shellerr.New(shellerr.InvalidOption, fs.Name(), err.Error())
	}
	return fs.Args(), nil
}
