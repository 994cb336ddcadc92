// Package cmdutil holds the small pieces every someipctl subcommand
// shares: the synced global flag values and the output-format dispatch,
// mirroring the shape of the teacher's client-side cmdutil without the
// remote-auth machinery a local encode/decode tool has no use for.
package cmdutil

import (
	"io"

	"github.com/marmos91/someip/internal/cli/output"
)

// GlobalFlags holds the values of rootCmd's persistent flags, synced by
// PersistentPreRun so subcommands can read them without a cobra.Command
// reference.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	NoColor    bool
}

// Flags is the package-level instance subcommands read from.
var Flags GlobalFlags

// Printer builds an output.Printer for w using the synced --output and
// --no-color flags, defaulting to table format on an unparsable value.
func Printer(w io.Writer) *output.Printer {
	format, err := output.ParseFormat(Flags.Output)
	if err != nil {
		format = output.FormatTable
	}
	return output.NewPrinter(w, format, !Flags.NoColor)
}
