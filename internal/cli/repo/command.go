package repo

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
	"github.com/portalkit/portalkit/repository"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "repo",
		Short: "Manage the local working copy",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(
		newInitCommand(deps),
		newCheckCommand(deps),
		newStatusCommand(deps, globalFlags),
		newCommitCommand(deps, globalFlags),
		newHistoryCommand(deps, globalFlags),
		newTreeCommand(deps, globalFlags),
	)
	return command
}

func newInitCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the working copy directory, and the git repository when configured",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			sync, err := resolveSync(command, deps)
			if err != nil {
				return err
			}
			return sync.Init(command.Context())
		},
	}
}

func newCheckCommand(deps common.CommandDependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the working copy is usable",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			sync, err := resolveSync(command, deps)
			if err != nil {
				return err
			}
			return sync.Check(command.Context())
		},
	}
}

func newStatusCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show uncommitted working copy changes",
		Example: strings.Join([]string{
			"  portalkit repo status",
			"  portalkit repo status --output json",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			sync, err := resolveSync(command, deps)
			if err != nil {
				return err
			}
			report, err := sync.SyncStatus(command.Context())
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), report, renderStatusText)
		},
	}
}

type commitOutput struct {
	Committed bool `json:"committed" yaml:"committed"`
}

func newCommitCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var message string

	command := &cobra.Command{
		Use:     "commit",
		Short:   "Commit working copy changes (git repositories only)",
		Example: `  portalkit repo commit -m "update login copy"`,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			trimmed := strings.TrimSpace(message)
			if trimmed == "" {
				return common.ValidationError("flag --message is required", nil)
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			committer, err := common.RequireCommitter(stores)
			if err != nil {
				return err
			}
			committed, err := committer.Commit(command.Context(), trimmed)
			if err != nil {
				return err
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), commitOutput{Committed: committed}, renderCommitText)
		},
	}

	command.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return command
}

func newHistoryCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var maxCount int
	var paths []string
	var oneline bool

	command := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log"},
		Short:   "Show working copy history (git repositories only)",
		Example: strings.Join([]string{
			"  portalkit repo history --max-count 10",
			"  portalkit repo history --path templates/en/translation.json --oneline",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			if maxCount < 0 {
				return common.ValidationError("--max-count must not be negative", nil)
			}
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			reader, err := common.RequireHistory(stores)
			if err != nil {
				return err
			}
			entries, err := reader.History(command.Context(), repository.HistoryFilter{MaxCount: maxCount, Paths: paths})
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []repository.HistoryEntry{}
			}
			return common.WriteOutput(command, globalFlags.OutputOptions(), entries, func(w io.Writer, value []repository.HistoryEntry) error {
				return renderHistoryText(w, value, oneline)
			})
		},
	}

	command.Flags().IntVar(&maxCount, "max-count", 0, "limit the number of commits")
	command.Flags().StringArrayVar(&paths, "path", nil, "limit history to commits touching a path (repeatable)")
	command.Flags().BoolVar(&oneline, "oneline", false, "compact one-line output")
	return command
}

func newTreeCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show the files of the working copy as a tree",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}
			workingCopy, err := common.RequireWorkingCopy(stores)
			if err != nil {
				return err
			}
			paths, err := workingCopy.ListPaths(command.Context())
			if err != nil {
				return err
			}
			sort.Strings(paths)
			return common.WriteOutput(command, globalFlags.OutputOptions(), paths, func(w io.Writer, value []string) error {
				_, err := io.WriteString(w, renderTree(value))
				return err
			})
		},
	}
}

func resolveSync(command *cobra.Command, deps common.CommandDependencies) (repository.RepositorySync, error) {
	stores, err := common.ResolveStores(command, deps)
	if err != nil {
		return nil, err
	}
	return common.RequireRepositorySync(stores)
}

func renderStatusText(w io.Writer, report repository.SyncReport) error {
	if _, err := fmt.Fprintf(w, "state: %s\n", report.State); err != nil {
		return err
	}
	for _, path := range report.ChangedPaths {
		if _, err := fmt.Fprintf(w, "  %s\n", path); err != nil {
			return err
		}
	}
	return nil
}

func renderCommitText(w io.Writer, value commitOutput) error {
	if value.Committed {
		_, err := fmt.Fprintln(w, "committed")
		return err
	}
	_, err := fmt.Fprintln(w, "nothing to commit")
	return err
}

func renderHistoryText(w io.Writer, entries []repository.HistoryEntry, oneline bool) error {
	for idx, entry := range entries {
		hash := strings.TrimSpace(entry.Hash)
		if oneline {
			if len(hash) > 12 {
				hash = hash[:12]
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", hash, strings.TrimSpace(entry.Subject)); err != nil {
				return err
			}
			continue
		}

		if idx > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "commit %s\nAuthor: %s\nDate:   %s\n\n    %s\n",
			hash,
			strings.TrimSpace(entry.Author),
			entry.Date.Format(time.RFC3339),
			strings.TrimSpace(entry.Subject),
		); err != nil {
			return err
		}
	}
	return nil
}

type treeNode struct {
	children map[string]*treeNode
}

// renderTree draws slash separated paths as an indented tree with box
// drawing connectors.
func renderTree(paths []string) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, path := range paths {
		node := root
		for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
			if part == "" {
				continue
			}
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}}
				node.children[part] = child
			}
			node = child
		}
	}

	var lines []string
	appendTreeLines(&lines, root, "")
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func appendTreeLines(lines *[]string, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for idx, name := range names {
		connector, nextPrefix := "├── ", prefix+"│   "
		if idx == len(names)-1 {
			connector, nextPrefix = "└── ", prefix+"    "
		}
		*lines = append(*lines, prefix+connector+name)
		appendTreeLines(lines, node.children[name], nextPrefix)
	}
}
