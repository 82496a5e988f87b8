package commands

import (
	"github.com/moasq/pbxpatch/internal/pbxserver"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp",
		Short:  "Run the pbxpatch MCP server",
		Long:   "Starts the pbxpatch MCP server over stdio. Lets an MCP client register source files in a project through typed tool calls.",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pbxserver.Run(cmd.Context(), Version, logger)
		},
	}
}
