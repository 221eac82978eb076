package resource

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/internal/app/resource/plan"
	"github.com/portalkit/portalkit/internal/app/resource/save"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func newPushCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var locales []string
	var yes bool
	var ignoreConflict bool

	command := &cobra.Command{
		Use:   "push",
		Short: "Write the working copy changes to the backend",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			requested, err := resolveLocales(locales)
			if err != nil {
				return err
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			backend, workingCopy, err := requireSyncStores(stores)
			if err != nil {
				return err
			}

			planned, err := plan.Execute(command.Context(), plan.Dependencies{
				Backend:     backend,
				WorkingCopy: workingCopy,
				Locales:     stores.Context.Locales,
			}, plan.Request{Locales: requested})
			if err != nil {
				return err
			}

			return applyPlan(command, planned, save.Dependencies{Backend: backend}, globalFlags, pushOptions{
				yes:            yes,
				ignoreConflict: ignoreConflict,
			})
		},
	}

	bindLocaleFlag(command, &locales, deps)
	command.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletions without prompting")
	command.Flags().BoolVar(&ignoreConflict, "ignore-conflict", false, "overwrite backend resources changed since they were read")
	return command
}

type pushOptions struct {
	yes            bool
	ignoreConflict bool
	mirror         bool
}

// applyPlan writes a plan to the backend. Deletions need --yes, or a
// confirmation when running on a terminal.
func applyPlan(command *cobra.Command, planned plan.Plan, deps save.Dependencies, globalFlags *common.GlobalFlags, options pushOptions) error {
	if !planned.NeedUpdate() {
		return common.WriteOutput(command, globalFlags.OutputOptions(), save.Result{Written: []string{}, Deleted: []string{}}, renderSaveResult)
	}

	allowDeletions := options.yes
	if planned.HasDeletions() && !allowDeletions && common.IsInteractiveTerminal(command) {
		if err := renderPlan(command.OutOrStdout(), planned); err != nil {
			return err
		}
		confirmed, err := common.PromptConfirm(command, fmt.Sprintf("Delete %d resource(s) from the backend?", len(planned.Diff.Deleted)), false)
		if err != nil {
			return err
		}
		if !confirmed {
			return common.ValidationError("push cancelled", nil)
		}
		allowDeletions = true
	}

	result, err := save.Execute(command.Context(), deps, planned.Diff.Updates(), save.ExecuteOptions{
		IgnoreConflict:      options.ignoreConflict,
		AllowDeletions:      allowDeletions,
		MirrorToWorkingCopy: options.mirror,
	})
	if err != nil {
		return err
	}
	debugctx.Logger(command.Context()).Debug("push finished",
		zap.Int("written", len(result.Written)),
		zap.Int("deleted", len(result.Deleted)),
	)
	return common.WriteOutput(command, globalFlags.OutputOptions(), result, renderSaveResult)
}

func renderSaveResult(w io.Writer, result save.Result) error {
	if len(result.Written) == 0 && len(result.Deleted) == 0 {
		_, err := fmt.Fprintln(w, "nothing to push")
		return err
	}
	for _, path := range result.Written {
		if _, err := fmt.Fprintf(w, "pushed  %s\n", path); err != nil {
			return err
		}
	}
	for _, path := range result.Deleted {
		if _, err := fmt.Fprintf(w, "deleted %s\n", path); err != nil {
			return err
		}
	}
	return nil
}
