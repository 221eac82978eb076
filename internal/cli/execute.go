package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/cli/commandmeta"
	"github.com/portalkit/portalkit/internal/cli/common"
)

type Dependencies struct {
	Contexts config.ContextService
	Resolve  common.StoreResolver
	Getenv   func(string) string
}

func (d Dependencies) commandDependencies() common.CommandDependencies {
	return common.CommandDependencies{
		Contexts: d.Contexts,
		Resolve:  d.Resolve,
		Getenv:   d.Getenv,
	}
}

// exitCodes maps error categories to process exit codes. Anything else
// exits with 1.
var exitCodes = map[faults.ErrorCategory]int{
	faults.ValidationError: 2,
	faults.NotFoundError:   3,
	faults.AuthError:       4,
	faults.ConflictError:   5,
	faults.TransportError:  6,
	faults.TooLargeError:   7,
}

// Execute runs the command line in os.Args and reports the outcome on stderr.
func Execute(deps Dependencies) error {
	getenv := deps.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	root := NewRootCommand(deps)
	executed, err := root.ExecuteC()
	status := newStatusLine(os.Args[1:], executed, getenv)
	stderr := root.ErrOrStderr()

	if err != nil {
		if status.enabled {
			status.writeError(stderr, err)
		} else {
			_, _ = fmt.Fprintln(stderr, strings.TrimSpace(err.Error()))
		}
		return err
	}
	if status.enabled {
		status.writeOK(stderr)
	}
	return nil
}

func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		return 1
	}
	if code, ok := exitCodes[typedErr.Category]; ok {
		return code
	}
	return 1
}

// statusLine is the "[OK]" or "[ERROR]" line printed after commands that
// change a store.
type statusLine struct {
	enabled bool
	color   bool
}

func newStatusLine(args []string, executed *cobra.Command, getenv func(string) string) statusLine {
	switches := scanStatusSwitches(args)
	path := ""
	if executed != nil {
		path = strings.TrimSpace(executed.CommandPath())
	}

	line := statusLine{
		enabled: !switches.noStatus && !isHelpOrCompletion(args) && commandmeta.EmitsExecutionStatusPath(path),
		color:   !switches.noColor && strings.TrimSpace(getenv("NO_COLOR")) == "",
	}
	if term := strings.ToLower(strings.TrimSpace(getenv("TERM"))); term == "" || term == "dumb" {
		line.color = false
	}
	return line
}

func (s statusLine) writeOK(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s command executed successfully.\n", s.label(w, "OK", "32"))
}

func (s statusLine) writeError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s command execution failed: %s.\n", s.label(w, "ERROR", "31"), strings.TrimSpace(err.Error()))
}

func (s statusLine) label(w io.Writer, text string, colorCode string) string {
	label := "[" + text + "]"
	if !s.color || !common.IsTerminalWriter(w) {
		return label
	}
	return "\x1b[1;" + colorCode + "m" + label + "\x1b[0m"
}

type statusSwitches struct {
	noStatus bool
	noColor  bool
}

// scanStatusSwitches reads --no-status and --no-color from raw arguments, so
// they apply even when cobra rejected the command line.
func scanStatusSwitches(args []string) statusSwitches {
	flags := pflag.NewFlagSet("status", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)

	var switches statusSwitches
	flags.BoolVarP(&switches.noStatus, "no-status", "n", false, "")
	flags.BoolVar(&switches.noColor, "no-color", false, "")
	if err := flags.Parse(args); err != nil {
		return statusSwitches{
			noStatus: slices.Contains(args, "--no-status") || slices.Contains(args, "-n"),
			noColor:  slices.Contains(args, "--no-color"),
		}
	}
	return switches
}

func isHelpOrCompletion(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
