package config

import (
	"strings"

	"github.com/spf13/cobra"

	configdomain "github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/internal/cli/common"
)

type addFlags struct {
	input         common.InputFlags
	endpoint      string
	appID         string
	token         string
	tokenEnv      string
	filesystemDir string
	gitDir        string
	locales       []string
	setCurrent    bool
}

func newAddCommand(deps common.CommandDependencies) *cobra.Command {
	var flags addFlags

	command := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a context from flags or from a YAML document",
		Example: strings.Join([]string{
			"  portalkit config add prod --endpoint https://admin.example.com --app-id myapp --token-env PROD_TOKEN --git ./portal",
			"  portalkit config add staging -f context.yaml --set-current",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}

			var cfg configdomain.Context
			if flags.input.Payload != "" {
				cfg, err = decodeContext(command, flags.input)
				if err != nil {
					return err
				}
			} else {
				cfg, err = contextFromFlags(flags)
				if err != nil {
					return err
				}
			}
			cfg.Name = strings.TrimSpace(args[0])

			if err := contexts.Create(command.Context(), cfg); err != nil {
				return err
			}
			if flags.setCurrent {
				return contexts.SetCurrent(command.Context(), cfg.Name)
			}
			return nil
		},
	}

	common.BindInputFlags(command, &flags.input, common.OutputYAML, common.OutputJSON, common.OutputYAML)
	command.Flags().StringVar(&flags.endpoint, "endpoint", "", "admin API endpoint of the backend")
	command.Flags().StringVar(&flags.appID, "app-id", "", "application id on the backend")
	command.Flags().StringVar(&flags.token, "token", "", "admin API token stored in the catalog")
	command.Flags().StringVar(&flags.tokenEnv, "token-env", "", "environment variable holding the admin API token")
	command.Flags().StringVar(&flags.filesystemDir, "filesystem", "", "working copy directory without version control")
	command.Flags().StringVar(&flags.gitDir, "git", "", "working copy directory tracked by git")
	command.Flags().StringSliceVar(&flags.locales, "locale", nil, "locales managed by this context (repeatable)")
	command.Flags().BoolVar(&flags.setCurrent, "set-current", false, "make the new context current")
	command.MarkFlagsMutuallyExclusive("filesystem", "git")
	command.MarkFlagsMutuallyExclusive("token", "token-env")
	return command
}

func contextFromFlags(flags addFlags) (configdomain.Context, error) {
	cfg := configdomain.Context{Locales: flags.locales}

	if flags.endpoint != "" || flags.appID != "" {
		cfg.Backend = &configdomain.Backend{
			Endpoint: strings.TrimSpace(flags.endpoint),
			AppID:    strings.TrimSpace(flags.appID),
		}
		if flags.token != "" || flags.tokenEnv != "" {
			cfg.Backend.Auth = &configdomain.BackendAuth{Token: flags.token, TokenEnv: flags.tokenEnv}
		}
	} else if flags.token != "" || flags.tokenEnv != "" {
		return configdomain.Context{}, common.ValidationError("--token and --token-env need --endpoint and --app-id", nil)
	}

	switch {
	case flags.gitDir != "":
		cfg.Repository.Git = &configdomain.GitRepository{Local: configdomain.GitLocal{BaseDir: flags.gitDir}}
	case flags.filesystemDir != "":
		cfg.Repository.Filesystem = &configdomain.FilesystemRepository{BaseDir: flags.filesystemDir}
	}

	if cfg.Repository.BaseDir() == "" {
		return configdomain.Context{}, common.ValidationError("a context needs a working copy: use --git or --filesystem", nil)
	}
	return cfg, nil
}

func newUpdateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "update",
		Short: "Replace a context with the document read from input",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContext(command, input)
			if err != nil {
				return err
			}
			return contexts.Update(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input, common.OutputYAML, common.OutputJSON, common.OutputYAML)
	return command
}

func newValidateCommand(deps common.CommandDependencies) *cobra.Command {
	var input common.InputFlags

	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a context document without storing it",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			contexts, err := common.RequireContexts(deps)
			if err != nil {
				return err
			}
			cfg, err := decodeContext(command, input)
			if err != nil {
				return err
			}
			return contexts.Validate(command.Context(), cfg)
		},
	}

	common.BindInputFlags(command, &input, common.OutputYAML, common.OutputJSON, common.OutputYAML)
	return command
}

func decodeContext(command *cobra.Command, input common.InputFlags) (configdomain.Context, error) {
	data, err := common.ReadInput(command, input)
	if err != nil {
		return configdomain.Context{}, err
	}
	return common.DecodeInputData[configdomain.Context](data, common.InputFormat(input))
}
