// construct-mcp exposes a subset of the construct-api endpoints as MCP
// tools over stdio, for AI assistants that speak the protocol.
//
// Usage:
//
//	CONSTRUCT_API_URL=http://localhost:8080 \
//	CONSTRUCT_API_TOKEN=<bearer token> \
//	construct-mcp serve
package main

import (
	"fmt"
	"os"

	"github.com/buildledger/construct-api/internal/mcptool"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("construct-mcp v%s\n", mcptool.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	baseURL := os.Getenv("CONSTRUCT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("CONSTRUCT_API_TOKEN")

	api := mcptool.NewAPIClient(baseURL, token)
	s := mcptool.NewServer(api)

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `construct-mcp v%s — MCP adapter for construct-api

Usage:
  construct-mcp serve    Start the MCP server (stdio transport)

Environment:
  CONSTRUCT_API_URL      API base URL (default http://localhost:8080)
  CONSTRUCT_API_TOKEN    Bearer token for API calls
`, mcptool.Version)
}
