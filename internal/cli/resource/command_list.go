package resource

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	readapp "github.com/portalkit/portalkit/internal/app/resource/read"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var fromWorkingCopy bool
	var fromBackend bool
	var locales []string

	command := &cobra.Command{
		Use:   "list",
		Short: "List the resources held by the backend or the working copy",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			source, err := readapp.NormalizeSource(fromWorkingCopy, fromBackend)
			if err != nil {
				return err
			}
			requested, err := resolveLocales(locales)
			if err != nil {
				return err
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}

			readDeps := readapp.Dependencies{WorkingCopy: stores.WorkingCopy}
			request := readapp.ListRequest{Source: source}
			if source == readapp.SourceBackend {
				backend, err := common.RequireBackend(stores)
				if err != nil {
					return err
				}
				readDeps.Backend = backend
				request.Locales, err = workflow.ResolveLocales(command.Context(), requested, stores.Context.Locales, backend)
				if err != nil {
					return err
				}
			}

			result, err := readapp.List(command.Context(), readDeps, request)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result.OutputValue, func(w io.Writer, _ any) error {
				for _, line := range result.TextLines {
					if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}

	bindSourceFlags(command, &fromWorkingCopy, &fromBackend)
	bindLocaleFlag(command, &locales, deps)
	return command
}
