package cmd

import (
	"github.com/huangsam/ahp/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the AHP MCP server",
	Long:    `Launch an MCP server on stdio that lets AI agents compute weights, evaluate and aggregate experts via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager, publisher)
	},
}
