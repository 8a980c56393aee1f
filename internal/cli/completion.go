package cli

import "github.com/spf13/cobra"

// completionCmd generates shell completion scripts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for tokengate.

To load completions:

Bash:
  $ source <(tokengate completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tokengate completion bash > /etc/bash_completion.d/tokengate
  # macOS:
  $ tokengate completion bash > $(brew --prefix)/etc/bash_completion.d/tokengate

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tokengate completion zsh > "${fpath[1]}/_tokengate"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tokengate completion fish | source

  # To load completions for each session, execute once:
  $ tokengate completion fish > ~/.config/fish/completions/tokengate.fish

PowerShell:
  PS> tokengate completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tokengate completion powershell > tokengate.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(completionCmd)
}
