package template

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
	"github.com/portalkit/portalkit/stringtemplate"
)

func NewCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "template",
		Short: "Render and parse path templates",
		Args:  cobra.NoArgs,
	}
	command.AddCommand(newRenderCommand(), newParseCommand(globalFlags))
	return command
}

func newRenderCommand() *cobra.Command {
	var partial bool

	command := &cobra.Command{
		Use:     "render <template> [key=value...]",
		Short:   "Substitute placeholder values into a template",
		Example: "  portalkit template render 'templates/{{locale}}/translation.json' locale=ja",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			compiled, err := stringtemplate.Compile(args[0])
			if err != nil {
				return err
			}
			values, err := common.ParseAssignments(args[1:])
			if err != nil {
				return err
			}

			var rendered string
			if partial {
				rendered = compiled.RenderPartial(values, nil)
			} else {
				rendered, err = compiled.Render(values)
				if err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(command.OutOrStdout(), rendered)
			return err
		},
	}

	command.Flags().BoolVar(&partial, "partial", false, "keep placeholders without a value instead of failing")
	return command
}

func newParseCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "parse <template> <input>",
		Short:   "Recover placeholder values from a concrete string",
		Example: "  portalkit template parse 'templates/{{locale}}/translation.json' templates/ja/translation.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			compiled, err := stringtemplate.Compile(args[0])
			if err != nil {
				return err
			}
			values, ok, err := compiled.Parse(args[1])
			if err != nil {
				return err
			}
			if !ok {
				return common.ValidationError(fmt.Sprintf("%q does not match template %q", args[1], compiled.String()), nil)
			}

			return common.WriteOutput(command, globalFlags.OutputOptions(), map[string]string(values), func(w io.Writer, value map[string]string) error {
				keys := make([]string, 0, len(value))
				for key := range value {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					if _, err := fmt.Fprintf(w, "%s=%s\n", key, value[key]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
