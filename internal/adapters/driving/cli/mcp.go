package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = pipeline(&cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can query and
extend the index.

Tools: query, retrieve, ingest. Resource: pdfrag://index/stats.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead. The HTTP listener binds to 127.0.0.1 unless
--host says otherwise, and it has no authentication. Over HTTP the ingest
tool reads server-side paths, so it is only offered with --allow-ingest.

Examples:
  pdfrag mcp serve
  pdfrag mcp serve --port 8080
  pdfrag mcp serve --port 8080 --host 0.0.0.0

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "pdfrag": {
        "command": "/path/to/pdfrag",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
})

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", defaultMCPHost, "HTTP bind address")
	mcpServeCmd.Flags().Bool("allow-ingest", false, "offer the ingest tool over HTTP")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

// defaultMCPHost keeps the unauthenticated HTTP transport off the network.
const defaultMCPHost = "127.0.0.1"

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}
	allowIngest, err := cmd.Flags().GetBool("allow-ingest")
	if err != nil {
		return fmt.Errorf("getting allow-ingest flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts(port > 0, allowIngest))
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := mcpAddr(host, port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// mcpPorts wires the services. Over HTTP, ingest is left out unless
// explicitly allowed.
func mcpPorts(overHTTP, allowIngest bool) *mcp.Ports {
	ports := &mcp.Ports{
		Query: queryService,
		Index: indexService,
	}
	if !overHTTP || allowIngest {
		ports.Ingest = ingestService
	}
	return ports
}

func mcpAddr(host string, port int) string {
	if host == "" {
		host = defaultMCPHost
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
