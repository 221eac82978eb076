package common

import "github.com/spf13/cobra"

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type GlobalFlags struct {
	Context   string
	Debug     bool
	LogFormat string
	NoStatus  bool
	NoColor   bool
	Output    string
	Query     string
}

// OutputOptions returns the output settings carried by the flags.
func (f *GlobalFlags) OutputOptions() OutputOptions {
	if f == nil {
		return OutputOptions{Format: OutputAuto}
	}
	return OutputOptions{Format: f.Output, Query: f.Query}
}

type InputFlags struct {
	Payload string
	Format  string

	fallbackFormat string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.Context, "context", "c", "", "context name")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug logging")
	command.PersistentFlags().StringVar(&flags.LogFormat, "log-format", LogFormatConsole, "log format: console|json")
	command.PersistentFlags().BoolVarP(&flags.NoStatus, "no-status", "n", false, "hide status output")
	command.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "disable color output")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	command.PersistentFlags().StringVar(&flags.Query, "jq", "", "jq filter applied to structured output")
	RegisterFlagValueCompletions(command, "output", outputCompletionValues)
	RegisterFlagValueCompletions(command, "log-format", []string{LogFormatConsole, LogFormatJSON})
}

func BindInputFlags(command *cobra.Command, flags *InputFlags, defaultFormat string, formats ...string) {
	command.Flags().StringVarP(&flags.Payload, "payload", "f", "", "input file path (use '-' to read from stdin)")
	flags.fallbackFormat = defaultFormat
	command.Flags().StringVarP(&flags.Format, "format", "i", "", "input format (default: from the --payload extension, else "+defaultFormat+")")
	if len(formats) > 0 {
		RegisterFlagValueCompletions(command, "format", formats)
	}
}
