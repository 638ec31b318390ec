package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/ux"
	"github.com/felixgeelhaar/feedfort/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var versionVerbose bool

func init() {
	versionCmd.Flags().BoolVar(&versionVerbose, "full", false, "show detailed version information")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	flags, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	info := version.GetInfo()

	text := fmt.Sprintf("feedfort %s", info.Short())
	if versionVerbose {
		text = info.String()
	}

	f, err := ux.NewFormatter(flags.Format, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: info, Render: text})
}
