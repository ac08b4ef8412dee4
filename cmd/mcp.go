package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mvidal/gymbuddy/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long: `Run gymbuddy as an MCP (Model Context Protocol) server over stdio,
exposing routines, the exercise catalog, and workout history as tools.

Add to your client's MCP config:

  {
    "mcpServers": {
      "gymbuddy": { "command": "gymbuddy", "args": ["mcp"] }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := getApp()
		if err != nil {
			return err
		}

		srv := mcp.NewServer(app.Repo, app.Catalog, app.History)
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
