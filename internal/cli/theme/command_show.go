package theme

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	themeapp "github.com/portalkit/portalkit/internal/app/theme"
	"github.com/portalkit/portalkit/internal/cli/common"
	themedomain "github.com/portalkit/portalkit/theme"
)

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var target string
	var onBackend bool

	command := &cobra.Command{
		Use:   "show",
		Short: "Show the decoded theme",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			targets := []themedomain.Target{themedomain.Light, themedomain.Dark}
			if target != targetBoth {
				parsed, err := themedomain.ParseTarget(target)
				if err != nil {
					return err
				}
				targets = []themedomain.Target{parsed}
			}

			themeDeps, err := resolveStore(command, deps, onBackend)
			if err != nil {
				return err
			}

			results := make([]themeapp.ShowResult, 0, len(targets))
			for _, current := range targets {
				result, err := themeapp.Show(command.Context(), themeDeps, current)
				if err != nil {
					return err
				}
				results = append(results, result)
			}

			return common.WriteOutput(command, globalFlags.OutputOptions(), results, func(w io.Writer, value []themeapp.ShowResult) error {
				for _, item := range value {
					state := "defaults"
					if item.Customised {
						state = "customised"
					}
					if _, err := fmt.Fprintf(w, "%s theme (%s, %s)\n", item.Target, state, item.Path); err != nil {
						return err
					}
					if err := renderTheme(w, "  ", item.Theme); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	bindTargetFlag(command, &target, targetBoth)
	bindStoreFlag(command, &onBackend)
	return command
}
