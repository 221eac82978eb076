package theme

import (
	"strings"

	"github.com/spf13/cobra"

	themeapp "github.com/portalkit/portalkit/internal/app/theme"
	"github.com/portalkit/portalkit/internal/cli/common"
	themedomain "github.com/portalkit/portalkit/theme"
)

type setFlags struct {
	cardAlignment             string
	backgroundColor           string
	primaryButtonColor        string
	primaryButtonLabelColor   string
	primaryButtonBorderRadius string
	inputFieldBorderRadius    string
	linkColor                 string
}

func newSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var target string
	var onBackend bool
	var values setFlags

	command := &cobra.Command{
		Use:   "set",
		Short: "Change theme fields, keeping the rest of the stylesheet",
		Example: strings.Join([]string{
			"  portalkit theme set --target light --background-color '#ffffff' --card-alignment start",
			"  portalkit theme set --target dark --primary-button-border-radius full",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			parsedTarget, err := themedomain.ParseTarget(target)
			if err != nil {
				return err
			}
			patch, err := buildPatch(command, values)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return common.ValidationError("at least one theme field flag is required", nil)
			}

			themeDeps, err := resolveStore(command, deps, onBackend)
			if err != nil {
				return err
			}
			result, err := themeapp.Set(command.Context(), themeDeps, parsedTarget, patch)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderWriteResult)
		},
	}

	bindTargetFlag(command, &target, string(themedomain.Light))
	bindStoreFlag(command, &onBackend)
	flags := command.Flags()
	flags.StringVar(&values.cardAlignment, "card-alignment", "", "card alignment: start, center or end")
	flags.StringVar(&values.backgroundColor, "background-color", "", "page background color")
	flags.StringVar(&values.primaryButtonColor, "primary-button-color", "", "primary button background color")
	flags.StringVar(&values.primaryButtonLabelColor, "primary-button-label-color", "", "primary button label color")
	flags.StringVar(&values.primaryButtonBorderRadius, "primary-button-border-radius", "", "primary button border radius: none, full, or a CSS length")
	flags.StringVar(&values.inputFieldBorderRadius, "input-field-border-radius", "", "input field border radius: none, full, or a CSS length")
	flags.StringVar(&values.linkColor, "link-color", "", "link color")
	common.RegisterFlagValueCompletions(command, "card-alignment", []string{
		string(themedomain.AlignmentStart),
		string(themedomain.AlignmentCenter),
		string(themedomain.AlignmentEnd),
	})
	return command
}

// buildPatch collects the flags the user set. Unset flags leave the field
// unchanged.
func buildPatch(command *cobra.Command, values setFlags) (themedomain.Patch, error) {
	var patch themedomain.Patch
	changed := command.Flags().Changed

	if changed("card-alignment") {
		alignment, err := themedomain.ParseAlignment(values.cardAlignment)
		if err != nil {
			return themedomain.Patch{}, err
		}
		patch.CardAlignment = &alignment
	}
	if changed("background-color") {
		patch.BackgroundColor = stringPointer(values.backgroundColor)
	}
	if changed("primary-button-color") {
		patch.PrimaryButtonColor = stringPointer(values.primaryButtonColor)
	}
	if changed("primary-button-label-color") {
		patch.PrimaryButtonLabelColor = stringPointer(values.primaryButtonLabelColor)
	}
	if changed("primary-button-border-radius") {
		style := themedomain.ParseBorderRadiusStyle(values.primaryButtonBorderRadius)
		patch.PrimaryButtonBorderRadius = &style
	}
	if changed("input-field-border-radius") {
		style := themedomain.ParseBorderRadiusStyle(values.inputFieldBorderRadius)
		patch.InputFieldBorderRadius = &style
	}
	if changed("link-color") {
		patch.LinkColor = stringPointer(values.linkColor)
	}
	return patch, nil
}

func stringPointer(value string) *string {
	trimmed := strings.TrimSpace(value)
	return &trimmed
}
