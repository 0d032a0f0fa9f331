package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/legis/internal/adapters/driving/mcp"
)

var mcpListen string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose bills, members and committees to model clients",
	Long: `Serves the legislative record tools over the Model Context Protocol and
lists what a connected client will be offered.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the record and analysis tools",
	Long: `Serves every lookup of the record facade as a tool, plus the upstream
status and bill text as resources. Answers carry the same provenance as the
CLI: origin, health mode and whether the data is degraded.

Without --listen the server speaks JSON-RPC on stdin/stdout, which is what a
desktop client launching legis as a subprocess expects. With --listen it
serves the streamable HTTP transport on that address until interrupted.

Examples:
  legis mcp serve
  legis mcp serve --listen 127.0.0.1:8765
  legis --config-dir ./offline mcp serve

Client entry:
  "legis": {"command": "legis", "args": ["mcp", "serve"]}

Run 'legis mcp tools' for the tool and resource list.`,
	RunE: runMCPServe,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools and resources the server offers",
	RunE:  runMCPTools,
}

func init() {
	mcpServeCmd.Flags().StringVarP(&mcpListen, "listen", "l", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd, mcpToolsCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Records:  recordService,
		Health:   healthService,
		Analysis: analysisService,
	})
	if err != nil {
		return err
	}

	if mcpListen == "" {
		return server.Run(cmd.Context())
	}
	cmd.Printf("Serving MCP over HTTP on %s\n", mcpListen)
	return server.RunHTTP(cmd.Context(), mcpListen)
}

func runMCPTools(cmd *cobra.Command, _ []string) error {
	catalog := mcp.Catalog()
	if jsonOutput {
		return writeJSON(cmd, catalog)
	}

	cmd.Println("Tools")
	for _, o := range catalog {
		if o.Kind == "tool" {
			cmd.Printf("  %-22s %s\n", o.Name, o.Description)
		}
	}
	cmd.Println()
	cmd.Println("Resources")
	for _, o := range catalog {
		if o.Kind == "resource" {
			cmd.Printf("  %-28s %-16s %s\n", o.URI, o.MIMEType, o.Description)
		}
	}
	return nil
}
