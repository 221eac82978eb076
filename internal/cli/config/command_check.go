package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
)

type checkStatus string

const (
	checkOK   checkStatus = "ok"
	checkFail checkStatus = "fail"
	checkSkip checkStatus = "skip"
)

type checkResult struct {
	Component string      `json:"component" yaml:"component"`
	Status    checkStatus `json:"status" yaml:"status"`
	Details   string      `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string      `json:"error,omitempty" yaml:"error,omitempty"`
}

type checkReport struct {
	Context    string        `json:"context" yaml:"context"`
	Passed     bool          `json:"passed" yaml:"passed"`
	Components []checkResult `json:"components" yaml:"components"`
}

func newCheckCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   "Check that the backend and the repository of a context are reachable",
		Example: "  portalkit --context prod config check --output json",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			stores, err := common.ResolveStores(command, deps)
			if err != nil {
				return err
			}

			report := checkReport{Context: stores.Context.Name, Passed: true}

			backend := checkResult{Component: "backend", Status: checkSkip, Details: "not configured"}
			if stores.Backend != nil {
				backend.Details = stores.Context.Backend.Endpoint
				if _, err := stores.Backend.ReadConfig(command.Context()); err != nil {
					backend.Status = checkFail
					backend.Error = err.Error()
				} else {
					backend.Status = checkOK
				}
			}

			repository := checkResult{Component: "repository", Status: checkSkip, Details: "not configured"}
			if stores.RepositorySync != nil {
				repository.Details = stores.Context.Repository.BaseDir()
				if err := stores.RepositorySync.Check(command.Context()); err != nil {
					repository.Status = checkFail
					repository.Error = err.Error()
				} else {
					repository.Status = checkOK
				}
			}

			report.Components = []checkResult{backend, repository}
			failed := 0
			for _, item := range report.Components {
				if item.Status == checkFail {
					failed++
				}
			}
			report.Passed = failed == 0

			if err := common.WriteOutput(command, globalFlags.OutputOptions(), report, renderCheckReport); err != nil {
				return err
			}
			if failed > 0 {
				return common.ValidationError(fmt.Sprintf("config check failed for context %q: %d component(s) unavailable", report.Context, failed), nil)
			}
			return nil
		},
	}
}

func renderCheckReport(w io.Writer, report checkReport) error {
	if _, err := fmt.Fprintf(w, "context %s\n", report.Context); err != nil {
		return err
	}
	for _, item := range report.Components {
		line := fmt.Sprintf("  %-10s %-4s %s", item.Component, item.Status, item.Details)
		if item.Error != "" {
			line += ": " + item.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
