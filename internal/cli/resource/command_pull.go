package resource

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/app/resource/pull"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newPullCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var locales []string
	var dryRun bool

	command := &cobra.Command{
		Use:   "pull",
		Short: "Copy the backend resources into the working copy",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			requested, err := resolveLocales(locales)
			if err != nil {
				return err
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			backend, workingCopy, err := requireSyncStores(stores)
			if err != nil {
				return err
			}

			result, err := pull.Execute(command.Context(), pull.Dependencies{
				Backend:     backend,
				WorkingCopy: workingCopy,
				Locales:     stores.Context.Locales,
			}, pull.Request{Locales: requested, DryRun: dryRun})
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderPullResult)
		},
	}

	bindLocaleFlag(command, &locales, deps)
	command.Flags().BoolVar(&dryRun, "dry-run", false, "report the changes without writing the working copy")
	return command
}

func renderPullResult(w io.Writer, result pull.Result) error {
	for _, path := range result.Written {
		if _, err := fmt.Fprintf(w, "write  %s\n", path); err != nil {
			return err
		}
	}
	for _, path := range result.Deleted {
		if _, err := fmt.Fprintf(w, "delete %s\n", path); err != nil {
			return err
		}
	}
	suffix := ""
	if result.DryRun {
		suffix = " (dry run)"
	}
	_, err := fmt.Fprintf(w, "%d written, %d deleted, %d unchanged%s\n", len(result.Written), len(result.Deleted), result.Unchanged, suffix)
	return err
}
