package cmd

import (
	"github.com/hackwatch/hackwatch/internal/hostfetch"
	"github.com/hackwatch/hackwatch/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Hackwatch MCP server",
	Long:  `Launch an MCP server that allows AI agents to analyze submissions and query recorded flags via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The shared setup logs only to stderr, keeping stdout clean
		// for the protocol stream.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		client := hostfetch.NewClient(cfg)
		return mcp.StartMCPServer(rootCtx, cfg, client, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
