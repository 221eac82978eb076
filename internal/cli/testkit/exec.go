package testkit

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/internal/cli/common"
)

// Cobra mutates flag annotations while serving completions, so parallel tests
// take turns executing commands.
var executeMu sync.Mutex

type Result struct {
	Stdout string
	Stderr string
}

func Execute(command *cobra.Command, stdin string, args ...string) (Result, error) {
	executeMu.Lock()
	defer executeMu.Unlock()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetIn(strings.NewReader(stdin))
	command.SetArgs(args)

	err := command.ExecuteContext(context.Background())
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// StaticResolver resolves every selection to stores and records the last
// selection it was asked for.
type StaticResolver struct {
	mu        sync.Mutex
	Stores    common.Stores
	Err       error
	selection config.ContextSelection
}

func (r *StaticResolver) Resolve(_ context.Context, selection config.ContextSelection) (common.Stores, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection = selection
	if r.Err != nil {
		return common.Stores{}, r.Err
	}
	return r.Stores, nil
}

func (r *StaticResolver) LastSelection() config.ContextSelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection
}

// NewHarness mounts command under a bare root carrying the global flags.
func NewHarness(command func(*common.GlobalFlags) *cobra.Command) *cobra.Command {
	flags := &common.GlobalFlags{}
	root := &cobra.Command{Use: "portalkit", SilenceUsage: true, SilenceErrors: true}
	common.BindGlobalFlags(root, flags)
	root.AddCommand(command(flags))
	return root
}

func RegisteredPaths(command *cobra.Command, prefix []string) [][]string {
	paths := make([][]string, 0)
	for _, child := range command.Commands() {
		name := child.Name()
		if name == "help" || strings.HasPrefix(name, "__") {
			continue
		}
		current := append(append([]string{}, prefix...), name)
		paths = append(paths, current)
		paths = append(paths, RegisteredPaths(child, current)...)
	}
	return paths
}

func JoinPath(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, " ")
}
