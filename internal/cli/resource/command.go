package resource

import (
	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/internal/cli/common"
	"github.com/portalkit/portalkit/resource"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "resource",
		Short: "Read, pull, diff and push application resources",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newGetCommand(deps, globalFlags),
		newListCommand(deps, globalFlags),
		newPullCommand(deps, globalFlags),
		newDiffCommand(deps, globalFlags),
		newPushCommand(deps, globalFlags),
		newRemoveLocaleCommand(deps, globalFlags),
	)

	return command
}

func bindSourceFlags(command *cobra.Command, fromWorkingCopy *bool, fromBackend *bool) {
	command.Flags().BoolVar(fromWorkingCopy, "working-copy", false, "read from the local working copy")
	command.Flags().BoolVar(fromBackend, "backend", false, "read from the backend (default)")
}

func bindLocaleFlag(command *cobra.Command, locales *[]string, deps common.CommandDependencies) {
	command.Flags().StringSliceVarP(locales, "locale", "l", nil, "locale to manage (repeatable; default: context locales, then the app supported languages)")
	common.RegisterLocaleFlagCompletion(command, deps)
}

// resolveLocales validates explicit locales before any store is contacted.
func resolveLocales(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	return resource.NormalizeLocales(requested)
}

func requireSyncStores(stores common.Stores) (workflow.Backend, workflow.WorkingCopy, error) {
	backend, err := common.RequireBackend(stores)
	if err != nil {
		return nil, nil, err
	}
	workingCopy, err := common.RequireWorkingCopy(stores)
	if err != nil {
		return nil, nil, err
	}
	return backend, workingCopy, nil
}
