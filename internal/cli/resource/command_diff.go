package resource

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/app/resource/plan"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newDiffCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var locales []string

	command := &cobra.Command{
		Use:   "diff",
		Short: "Compare the working copy with the backend",
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

			result, err := plan.Execute(command.Context(), plan.Dependencies{
				Backend:     backend,
				WorkingCopy: workingCopy,
				Locales:     stores.Context.Locales,
			}, plan.Request{Locales: requested})
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderPlan)
		},
	}

	bindLocaleFlag(command, &locales, deps)
	return command
}

func renderPlan(w io.Writer, value plan.Plan) error {
	if !value.NeedUpdate() {
		_, err := fmt.Fprintln(w, "no changes")
		return err
	}
	for _, change := range value.Changes {
		if _, err := fmt.Fprintf(w, "%s %s\n", changeMarker(change.Action), change.Path); err != nil {
			return err
		}
	}
	return nil
}

func changeMarker(action plan.ChangeAction) string {
	switch action {
	case plan.ActionNew:
		return "+"
	case plan.ActionDelete:
		return "-"
	default:
		return "~"
	}
}
