package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-smile/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server speaks over stdio and provides tools for the timer, the quote
collection and the smile history.

The timer it controls lives in the server process; its position is saved
when the server exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol, so notes go to stderr
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Starting MCP server on stdio (Ctrl+C to stop)")

		ctx := setupSignalHandler()
		server := mcp.NewServer(app.state, Version)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
