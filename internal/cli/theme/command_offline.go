package theme

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
	themedomain "github.com/portalkit/portalkit/theme"
)

const formatCSS = "css"

type validateReport struct {
	Valid      bool                    `json:"valid" yaml:"valid"`
	Violations []themedomain.Violation `json:"violations" yaml:"violations"`
}

func newValidateCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a theme document",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			value, err := readTheme(command, input)
			if err != nil {
				return err
			}

			report := validateReport{Valid: true, Violations: []themedomain.Violation{}}
			validationErr := themedomain.Validate(value)
			if validationErr != nil {
				var detail *themedomain.ValidationError
				if !errors.As(validationErr, &detail) {
					return validationErr
				}
				report.Valid = false
				report.Violations = detail.Violations
			}

			if err := common.WriteOutput(command, globalFlags.OutputOptions(), report, func(w io.Writer, value validateReport) error {
				if value.Valid {
					_, err := fmt.Fprintln(w, "theme is valid")
					return err
				}
				for _, violation := range value.Violations {
					if _, err := fmt.Fprintf(w, "%s: %s (%s)\n", violation.Location, violation.Message, violation.Kind); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}
			return validationErr
		},
	}

	common.BindInputFlags(command, &input, common.OutputYAML, common.OutputJSON, common.OutputYAML)
	return command
}

func newEncodeCommand() *cobra.Command {
	var input common.InputFlags
	var target string

	command := &cobra.Command{
		Use:   "encode",
		Short: "Print the CSS ruleset for a theme document",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			parsedTarget, err := themedomain.ParseTarget(target)
			if err != nil {
				return err
			}
			value, err := readTheme(command, input)
			if err != nil {
				return err
			}
			if err := themedomain.Validate(value); err != nil {
				return err
			}
			_, err = fmt.Fprint(command.OutOrStdout(), themedomain.EncodeString(value, parsedTarget.Selector()))
			return err
		},
	}

	common.BindInputFlags(command, &input, common.OutputYAML, common.OutputJSON, common.OutputYAML)
	bindTargetFlag(command, &target, string(themedomain.Light))
	return command
}

func newDecodeCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	var input common.InputFlags
	var target string

	command := &cobra.Command{
		Use:   "decode",
		Short: "Decode the theme of a stylesheet",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			parsedTarget, err := themedomain.ParseTarget(target)
			if err != nil {
				return err
			}
			if format := common.InputFormat(input); format != formatCSS {
				return common.ValidationError(fmt.Sprintf("theme decode reads css, not %s", format), nil)
			}
			data, err := common.ReadInput(command, input)
			if err != nil {
				return err
			}
			sheet, err := themedomain.ParseString(string(data))
			if err != nil {
				return common.ValidationError("input is not valid CSS", err)
			}

			decoded := themedomain.DecodeTarget(sheet, parsedTarget)
			return common.WriteOutput(command, globalFlags.OutputOptions(), decoded, func(w io.Writer, value themedomain.CustomisableTheme) error {
				return renderTheme(w, "", value)
			})
		},
	}

	common.BindInputFlags(command, &input, formatCSS, formatCSS)
	bindTargetFlag(command, &target, string(themedomain.Light))
	return command
}

func readTheme(command *cobra.Command, input common.InputFlags) (themedomain.CustomisableTheme, error) {
	data, err := common.ReadInput(command, input)
	if err != nil {
		return themedomain.CustomisableTheme{}, err
	}
	return common.DecodeInputData[themedomain.CustomisableTheme](data, common.InputFormat(input))
}
