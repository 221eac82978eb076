package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/internal/cli/common"
	"github.com/portalkit/portalkit/internal/cli/completion"
	"github.com/portalkit/portalkit/internal/cli/config"
	"github.com/portalkit/portalkit/internal/cli/repo"
	resourcecmd "github.com/portalkit/portalkit/internal/cli/resource"
	templatecmd "github.com/portalkit/portalkit/internal/cli/template"
	themecmd "github.com/portalkit/portalkit/internal/cli/theme"
	"github.com/portalkit/portalkit/internal/cli/version"
	"github.com/portalkit/portalkit/internal/logging"
)

func NewRootCommand(deps Dependencies) *cobra.Command {
	commandDeps := deps.commandDependencies()
	var globalFlags common.GlobalFlags

	root := &cobra.Command{
		Use:   "portalkit",
		Short: "Manage the localized resources and theme of a portal application",
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		Args: cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if err := common.ValidateOutputOptions(command.CommandPath(), globalFlags.OutputOptions()); err != nil {
				return err
			}

			logger, err := logging.New(logging.Level(globalFlags.Debug), globalFlags.LogFormat, command.ErrOrStderr())
			if err != nil {
				return common.ValidationError("invalid --log-format: use console or json", err)
			}

			commandContext := command.Context()
			if commandContext == nil {
				commandContext = context.Background()
			}
			commandContext = common.WithSelectedContext(commandContext, globalFlags.Context)
			commandContext = debugctx.WithEnabled(commandContext, globalFlags.Debug)
			commandContext = debugctx.WithLogger(commandContext, logger)
			command.SetContext(commandContext)

			logger.Debug("root flags",
				zap.String("context", globalFlags.Context),
				zap.String("output", globalFlags.Output),
				zap.String("jq", globalFlags.Query),
				zap.Bool("noStatus", globalFlags.NoStatus),
				zap.Bool("noColor", globalFlags.NoColor),
				zap.String("command", command.CommandPath()),
			)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	common.BindGlobalFlags(root, &globalFlags)
	common.RegisterContextFlagCompletion(root, commandDeps)
	root.PersistentFlags().BoolP("help", "h", false, "help for command")

	addGroup(root, "resources", "Resource Commands:",
		resourcecmd.NewCommand(commandDeps, &globalFlags),
		themecmd.NewCommand(commandDeps, &globalFlags),
		templatecmd.NewCommand(&globalFlags),
	)
	addGroup(root, "setup", "Setup Commands:",
		config.NewCommand(commandDeps, &globalFlags),
		repo.NewCommand(commandDeps, &globalFlags),
	)
	addGroup(root, "other", "Other Commands:",
		completion.NewCommand(),
		version.NewCommand(&globalFlags),
	)

	showUsageOnMissingArgs(root)

	return root
}

func addGroup(root *cobra.Command, id string, title string, commands ...*cobra.Command) {
	root.AddGroup(&cobra.Group{ID: id, Title: title})
	for _, command := range commands {
		command.GroupID = id
		root.AddCommand(command)
	}
}

// showUsageOnMissingArgs prints the usage of a command that was run without
// the positional arguments it requires. Other errors stay terse.
func showUsageOnMissingArgs(command *cobra.Command) {
	if validate := command.Args; validate != nil {
		command.Args = func(command *cobra.Command, args []string) error {
			err := validate(command, args)
			if err != nil && len(args) == 0 && declaresArgs(command) && strings.Contains(err.Error(), "received 0") {
				_, _ = fmt.Fprintln(command.ErrOrStderr(), strings.TrimRight(command.UsageString(), "\n"))
			}
			return err
		}
	}
	for _, child := range command.Commands() {
		showUsageOnMissingArgs(child)
	}
}

func declaresArgs(command *cobra.Command) bool {
	use := command.Use
	return strings.ContainsAny(use, "<[")
}
