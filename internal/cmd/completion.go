package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(feedfort completion bash)

Zsh:
  $ feedfort completion zsh > "${fpath[1]}/_feedfort"

Fish:
  $ feedfort completion fish > ~/.config/fish/completions/feedfort.fish

PowerShell:
  PS> feedfort completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func completeFeedbackTypes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(domain.AllFeedbackTypes))
	for i, t := range domain.AllFeedbackTypes {
		out[i] = t.String() + "\t" + t.Title()
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func runCompletion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	switch args[0] {
	case "bash":
		return rootCmd.GenBashCompletionV2(out, true)
	case "zsh":
		return rootCmd.GenZshCompletion(out)
	case "fish":
		return rootCmd.GenFishCompletion(out, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(out)
	}
	return nil
}
