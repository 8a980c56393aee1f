package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// walkCommands visits every command in the tree depth-first.
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, sub := range cmd.Commands() {
		walkCommands(sub, fn)
	}
}

// enrichParentLong lists the available subcommands of a parent command, other
// than the root, at the end of its Long description.
func enrichParentLong(cmd *cobra.Command) {
	if !cmd.HasParent() || !cmd.HasAvailableSubCommands() {
		return
	}

	width := 0
	for _, sub := range cmd.Commands() {
		width = max(width, len(sub.Name()))
	}

	var sb strings.Builder
	sb.WriteString(cmd.Long)
	sb.WriteString("\n\nSubcommands:\n")
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			fmt.Fprintf(&sb, "  %-*s  %s\n", width, sub.Name(), sub.Short)
		}
	}
	cmd.Long = strings.TrimRight(sb.String(), "\n")
}
