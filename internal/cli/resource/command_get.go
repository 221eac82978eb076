package resource

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	readapp "github.com/portalkit/portalkit/internal/app/resource/read"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var fromWorkingCopy bool
	var fromBackend bool

	command := &cobra.Command{
		Use:   "get <path>",
		Short: "Read one resource",
		Example: strings.Join([]string{
			"  portalkit resource get templates/en/translation.json",
			"  portalkit resource get --working-copy static/authgear-authflowv2-light-theme.css",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			source, err := readapp.NormalizeSource(fromWorkingCopy, fromBackend)
			if err != nil {
				return err
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}

			logger := debugctx.Logger(command.Context())
			logger.Debug("resource get requested", zap.String("path", args[0]), zap.String("source", source))

			readDeps := readapp.Dependencies{Backend: stores.Backend, WorkingCopy: stores.WorkingCopy}
			result, err := readapp.Execute(command.Context(), readDeps, readapp.Request{Path: args[0], Source: source})
			if err != nil {
				logger.Debug("resource get failed", zap.String("path", args[0]), zap.Error(err))
				return err
			}

			return common.WriteOutput(command, globalFlags.OutputOptions(), result.OutputValue, func(w io.Writer, _ any) error {
				for _, line := range result.TextLines {
					if _, writeErr := fmt.Fprintln(w, line); writeErr != nil {
						return writeErr
					}
				}
				return nil
			})
		},
	}

	bindSourceFlags(command, &fromWorkingCopy, &fromBackend)
	return command
}
