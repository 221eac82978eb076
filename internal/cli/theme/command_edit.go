package theme

import (
	"github.com/spf13/cobra"

	themeapp "github.com/portalkit/portalkit/internal/app/theme"
	"github.com/portalkit/portalkit/internal/cli/common"
	themedomain "github.com/portalkit/portalkit/theme"
)

func newResetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var target string
	var onBackend bool

	command := &cobra.Command{
		Use:   "reset",
		Short: "Remove the theme declarations so the defaults apply",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			parsedTarget, err := themedomain.ParseTarget(target)
			if err != nil {
				return err
			}
			themeDeps, err := resolveStore(command, deps, onBackend)
			if err != nil {
				return err
			}
			result, err := themeapp.Reset(command.Context(), themeDeps, parsedTarget)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderWriteResult)
		},
	}

	bindTargetFlag(command, &target, string(themedomain.Light))
	bindStoreFlag(command, &onBackend)
	return command
}

func newMigrateCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var onBackend bool

	command := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite a media query dark theme into the class based form",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			themeDeps, err := resolveStore(command, deps, onBackend)
			if err != nil {
				return err
			}
			result, err := themeapp.Migrate(command.Context(), themeDeps)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderWriteResult)
		},
	}

	bindStoreFlag(command, &onBackend)
	return command
}

func newEnsureDeclarationCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var target string
	var onBackend bool

	command := &cobra.Command{
		Use:   "ensure-declaration [--] <property> <value>",
		Short: "Add a declaration to the theme ruleset unless it is already set",
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			parsedTarget, err := themedomain.ParseTarget(target)
			if err != nil {
				return err
			}
			themeDeps, err := resolveStore(command, deps, onBackend)
			if err != nil {
				return err
			}
			result, err := themeapp.EnsureDeclaration(command.Context(), themeDeps, parsedTarget, themedomain.Declaration{
				Property: args[0],
				Value:    args[1],
			})
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderWriteResult)
		},
	}

	bindTargetFlag(command, &target, string(themedomain.Light))
	bindStoreFlag(command, &onBackend)
	return command
}
