package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/internal/cli/common"
)

const redactedToken = "<redacted>"

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return newCommandWithPrompter(deps, globalFlags, terminalPrompter{})
}

func newCommandWithPrompter(deps common.CommandDependencies, globalFlags *common.GlobalFlags, prompter prompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage contexts",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newPrintTemplateCommand(),
		newAddCommand(deps),
		newUpdateCommand(deps),
		newDeleteCommand(deps, prompter),
		newListCommand(deps, globalFlags),
		newUseCommand(deps, prompter),
		newShowCommand(deps, globalFlags),
		newCurrentCommand(deps, globalFlags),
		newValidateCommand(deps),
		newCheckCommand(deps, globalFlags),
	)

	return command
}

type prompter interface {
	IsInteractive(command *cobra.Command) bool
	Select(command *cobra.Command, prompt string, options []string) (string, error)
	Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error)
}

type terminalPrompter struct{}

func (terminalPrompter) IsInteractive(command *cobra.Command) bool {
	return common.IsInteractiveTerminal(command)
}

func (terminalPrompter) Select(command *cobra.Command, prompt string, options []string) (string, error) {
	return common.PromptSelect(command, prompt, options)
}

func (terminalPrompter) Confirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	return common.PromptConfirm(command, prompt, defaultYes)
}

func newPrintTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "print-template",
		Short: "Print a context catalog template with guidance comments",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, err := io.WriteString(command.OutOrStdout(), contextTemplateYAML)
			return err
		},
	}
}

type contextSummary struct {
	Name       string   `json:"name" yaml:"name"`
	Current    bool     `json:"current" yaml:"current"`
	Endpoint   string   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	AppID      string   `json:"appId,omitempty" yaml:"appId,omitempty"`
	Repository string   `json:"repository,omitempty" yaml:"repository,omitempty"`
	Locales    []string `json:"locales,omitempty" yaml:"locales,omitempty"`
}

func summarize(item configdomain.Context, current string) contextSummary {
	summary := contextSummary{
		Name:    item.Name,
		Current: item.Name == current,
		Locales: item.Locales,
	}
	if item.Backend != nil {
		summary.Endpoint = item.Backend.Endpoint
		summary.AppID = item.Backend.AppID
	}
	switch {
	case item.Repository.Git != nil:
		summary.Repository = "git:" + item.Repository.BaseDir()
	case item.Repository.Filesystem != nil:
		summary.Repository = "filesystem:" + item.Repository.BaseDir()
	}
	return summary
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			items, err := contexts.List(command.Context())
			if err != nil {
				return err
			}
			current := ""
			if cfg, err := contexts.GetCurrent(command.Context()); err == nil {
				current = cfg.Name
			}

			summaries := make([]contextSummary, 0, len(items))
			for _, item := range items {
				summaries = append(summaries, summarize(item, current))
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), summaries, func(w io.Writer, value []contextSummary) error {
				for _, item := range value {
					marker := " "
					if item.Current {
						marker = "*"
					}
					if _, err := fmt.Fprintf(w, "%s %s\n", marker, item.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newUseCommand(deps common.CommandDependencies, prompter prompter) *cobra.Command {
	command := &cobra.Command{
		Use:   "use [name]",
		Short: "Set the current context (interactive when name is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContext(command, contexts, prompter, "use")
				if err != nil {
					return err
				}
			}
			return contexts.SetCurrent(command.Context(), name)
		},
	}
	registerContextArgCompletion(command, deps)
	return command
}

func newDeleteCommand(deps common.CommandDependencies, prompter prompter) *cobra.Command {
	var yes bool

	command := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a context (interactive when name is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			name := ""
			if len(args) > 0 {
				name = args[0]
			} else {
				name, err = selectContext(command, contexts, prompter, "delete")
				if err != nil {
					return err
				}
			}

			if !yes && prompter.IsInteractive(command) {
				confirmed, err := prompter.Confirm(command, fmt.Sprintf("Delete context %q?", name), false)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err := fmt.Fprintln(command.OutOrStdout(), "delete cancelled")
					return err
				}
			}
			return contexts.Delete(command.Context(), name)
		},
	}
	command.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	registerContextArgCompletion(command, deps)
	return command
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var showSecrets bool

	command := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved context selected by --context or the current one",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			shown, err := contexts.ResolveContext(command.Context(), configdomain.ContextSelection{
				Name:      strings.TrimSpace(globalFlags.Context),
				Overrides: configdomain.EnvOverrides(getenv(deps)),
			})
			if err != nil {
				return err
			}
			if !showSecrets {
				shown = redact(shown)
			}

			options := globalFlags.OutputOptions()
			if options.Format == common.OutputAuto || options.Format == common.OutputText {
				options.Format = common.OutputYAML
			}
			return common.WriteOutput[configdomain.Context](command, options, shown, nil)
		},
	}
	command.Flags().BoolVar(&showSecrets, "show-secrets", false, "print backend tokens instead of redacting them")
	return command
}

func newCurrentCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the current context",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			current, err := contexts.GetCurrent(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), summarize(current, current.Name), func(w io.Writer, value contextSummary) error {
				_, err := fmt.Fprintln(w, value.Name)
				return err
			})
		},
	}
}

func selectContext(command *cobra.Command, contexts configdomain.ContextService, prompter prompter, action string) (string, error) {
	if !prompter.IsInteractive(command) {
		return "", common.ValidationError(fmt.Sprintf("context name is required for %s", action), nil)
	}
	items, err := contexts.List(command.Context())
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", common.ValidationError("no contexts are configured: run portalkit config add", nil)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return prompter.Select(command, fmt.Sprintf("Select context to %s", action), names)
}

func registerContextArgCompletion(command *cobra.Command, deps common.CommandDependencies) {
	command.ValidArgsFunction = func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return common.CompleteContextNames(deps, toComplete)
	}
}

func redact(cfg configdomain.Context) configdomain.Context {
	if cfg.Backend == nil || cfg.Backend.Auth == nil || cfg.Backend.Auth.Token == "" {
		return cfg
	}
	backend := *cfg.Backend
	auth := *backend.Auth
	auth.Token = redactedToken
	backend.Auth = &auth
	cfg.Backend = &backend
	return cfg
}

func getenv(deps common.CommandDependencies) func(string) string {
	if deps.Getenv != nil {
		return deps.Getenv
	}
	return os.Getenv
}
