package resource

import (
	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/app/resource/plan"
	"github.com/portalkit/portalkit/internal/app/resource/save"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newRemoveLocaleCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var yes bool
	var keepLocal bool

	command := &cobra.Command{
		Use:   "remove-locale <locale>",
		Short: "Delete every resource of one locale from the backend",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(command *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return common.CompleteContextLocales(command, deps, toComplete)
		},
		RunE: func(command *cobra.Command, args []string) error {
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			backend, err := common.RequireBackend(stores)
			if err != nil {
				return err
			}

			planned, err := plan.RemoveLocale(command.Context(), plan.Dependencies{Backend: backend}, args[0])
			if err != nil {
				return err
			}

			saveDeps := save.Dependencies{Backend: backend}
			mirror := !keepLocal && stores.WorkingCopy != nil
			if mirror {
				saveDeps.WorkingCopy = stores.WorkingCopy
			}
			return applyPlan(command, planned, saveDeps, globalFlags, pushOptions{yes: yes, mirror: mirror})
		},
	}

	command.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletions without prompting")
	command.Flags().BoolVar(&keepLocal, "keep-local", false, "keep the locale files in the working copy")
	return command
}
