package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/tui"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

var rootCmd = &cobra.Command{
	Use:   "feedfort",
	Short: "Employee feedback client",
	Long: `feedfort is a terminal client for the employee feedback API.

Run without a subcommand to open the full-screen interface: log in, record
daily ratings, positive/negative occurrences and probation reviews, browse the
history and, as an administrator, manage users, sectors, employees and rating
attributes.

The subcommands expose the read-only reports for scripting.

Examples:
  feedfort
  feedfort login -u maria
  feedfort history --tipo negativa --format json
  feedfort export --out feedbacks.xlsx`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		return tui.Run(cmd.Context(), env.App())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command bound to ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// PrintError writes err with its recovery suggestions
func PrintError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Erro: %v\n", ux.EnhanceError(err))
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $FEEDFORT_HOME/config.yaml)")
	flags.String("api-url", "", "backend URL, overrides api.url")
	flags.StringP("format", "o", "text", "output format (text, json, yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "log to stderr as well as the log file")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ux.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}
