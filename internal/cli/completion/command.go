package completion

import (
	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

func NewCommand() *cobra.Command {
	command := &cobra.Command{
		Use:       "completion <shell>",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactArgs(1),
		ValidArgs: shells,
		RunE: func(command *cobra.Command, args []string) error {
			root := command.Root()
			out := command.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return common.ValidationError("unsupported shell: use bash, zsh, fish, or powershell", nil)
			}
		},
	}
	return command
}
