package theme

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	themeapp "github.com/portalkit/portalkit/internal/app/theme"
	"github.com/portalkit/portalkit/internal/cli/common"
	themedomain "github.com/portalkit/portalkit/theme"
)

const targetBoth = "both"

var targetCompletionValues = []string{string(themedomain.Light), string(themedomain.Dark)}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "theme",
		Short: "Show and edit the customisable theme",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newShowCommand(deps, globalFlags),
		newSetCommand(deps, globalFlags),
		newResetCommand(deps, globalFlags),
		newMigrateCommand(deps, globalFlags),
		newEnsureDeclarationCommand(deps, globalFlags),
		newValidateCommand(globalFlags),
		newEncodeCommand(),
		newDecodeCommand(globalFlags),
	)

	return command
}

func bindTargetFlag(command *cobra.Command, target *string, defaultValue string) {
	command.Flags().StringVarP(target, "target", "t", defaultValue, "theme target: light or dark")
	values := targetCompletionValues
	if defaultValue == targetBoth {
		values = append([]string{targetBoth}, targetCompletionValues...)
	}
	common.RegisterFlagValueCompletions(command, "target", values)
}

func bindStoreFlag(command *cobra.Command, onBackend *bool) {
	command.Flags().BoolVar(onBackend, "backend", false, "operate on the backend instead of the working copy")
}

// resolveStore picks the store the theme commands read and write. The
// working copy is the default.
func resolveStore(command *cobra.Command, deps common.CommandDependencies, onBackend bool) (themeapp.Dependencies, error) {
	stores, err := common.ResolveStores(command, deps)
	if err != nil {
		return themeapp.Dependencies{}, err
	}
	if onBackend {
		backend, err := common.RequireBackend(stores)
		if err != nil {
			return themeapp.Dependencies{}, err
		}
		return themeapp.Dependencies{Store: backend}, nil
	}
	workingCopy, err := common.RequireWorkingCopy(stores)
	if err != nil {
		return themeapp.Dependencies{}, err
	}
	return themeapp.Dependencies{Store: workingCopy}, nil
}

func renderTheme(w io.Writer, indent string, value themedomain.CustomisableTheme) error {
	lines := [][2]string{
		{"cardAlignment", string(value.CardAlignment)},
		{"backgroundColor", value.BackgroundColor},
		{"primaryButton.backgroundColor", value.PrimaryButton.BackgroundColor},
		{"primaryButton.labelColor", value.PrimaryButton.LabelColor},
		{"primaryButton.borderRadius", value.PrimaryButton.BorderRadius.String()},
		{"inputField.borderRadius", value.InputField.BorderRadius.String()},
		{"link.color", value.Link.Color},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s%-30s %s\n", indent, line[0]+":", line[1]); err != nil {
			return err
		}
	}
	return nil
}

func renderWriteResult(w io.Writer, result themeapp.WriteResult) error {
	status := "unchanged"
	switch {
	case result.Deleted:
		status = "deleted"
	case result.Changed:
		status = "updated"
	}
	if _, err := fmt.Fprintf(w, "%s %s (%s)\n", status, result.Path, result.Target); err != nil {
		return err
	}
	if result.Theme != nil {
		return renderTheme(w, "  ", *result.Theme)
	}
	return nil
}
