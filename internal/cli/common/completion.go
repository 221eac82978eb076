package common

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/config"
)

// completionTimeout bounds catalog reads done while the shell waits.
const completionTimeout = 2 * time.Second

var outputCompletionValues = []string{OutputAuto, OutputText, OutputJSON, OutputYAML}

type selectedContextKey struct{}

// WithSelectedContext records the --context value for the commands run below
// the root.
func WithSelectedContext(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, selectedContextKey{}, strings.TrimSpace(name))
}

// SelectedContext returns the context name recorded by WithSelectedContext.
// Empty selects the current context of the catalog.
func SelectedContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(selectedContextKey{}).(string)
	return name
}

func RegisterFlagValueCompletions(command *cobra.Command, flagName string, values []string) {
	_ = command.RegisterFlagCompletionFunc(flagName, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteValues(values, toComplete)
	})
}

func RegisterContextFlagCompletion(command *cobra.Command, deps CommandDependencies) {
	_ = command.RegisterFlagCompletionFunc("context", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteContextNames(deps, toComplete)
	})
}

// RegisterLocaleFlagCompletion completes --locale with the locales of the
// context named by --context, or of the current context.
func RegisterLocaleFlagCompletion(command *cobra.Command, deps CommandDependencies) {
	_ = command.RegisterFlagCompletionFunc("locale", func(command *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return CompleteContextLocales(command, deps, toComplete)
	})
}

func CompleteContextNames(deps CommandDependencies, toComplete string) ([]string, cobra.ShellCompDirective) {
	service, err := RequireContexts(deps)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	items, err := service.List(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return CompleteValues(names, toComplete)
}

func CompleteContextLocales(command *cobra.Command, deps CommandDependencies, toComplete string) ([]string, cobra.ShellCompDirective) {
	service, err := RequireContexts(deps)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	name, _ := command.Flags().GetString("context")
	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	cfg, err := service.ResolveContext(ctx, config.ContextSelection{Name: name})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return CompleteValues(cfg.Locales, toComplete)
}

// CompleteValues returns the distinct non-blank values starting with
// toComplete, sorted.
func CompleteValues(values []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := strings.TrimSpace(toComplete)
	matches := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || !strings.HasPrefix(value, prefix) {
			continue
		}
		matches = append(matches, value)
	}
	slices.Sort(matches)
	return slices.Compact(matches), cobra.ShellCompDirectiveNoFileComp
}
