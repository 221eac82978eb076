package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/common"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
}

func NewCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the portalkit version",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			value := info{Version: Version, Commit: Commit, BuildDate: BuildDate}
			return common.WriteOutput(command, globalFlags.OutputOptions(), value, func(w io.Writer, item info) error {
				_, err := fmt.Fprintf(w, "portalkit %s (%s) %s\n", item.Version, item.Commit, item.BuildDate)
				return err
			})
		},
	}
}
