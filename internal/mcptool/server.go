package mcptool

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer wires the MCP server with every tool registered against the
// given API client. This is the adapter's composition root; no business
// logic lives here.
func NewServer(api *APIClient) *server.MCPServer {
	s := server.NewMCPServer(
		"construct-api",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Tools for a construction-management backend: clients, "+
				"proposals, project schedules, action items and financial "+
				"reports. Every tool maps to one API call under the "+
				"configured tenant credential.",
		),
	)

	listClients := NewListClientsTool(api)
	s.AddTool(listClients.Definition(), listClients.Handle)

	getClient := NewGetClientTool(api)
	s.AddTool(getClient.Definition(), getClient.Handle)

	createClient := NewCreateClientTool(api)
	s.AddTool(createClient.Definition(), createClient.Handle)

	listProposals := NewListProposalsTool(api)
	s.AddTool(listProposals.Definition(), listProposals.Handle)

	createProposal := NewCreateProposalTool(api)
	s.AddTool(createProposal.Definition(), createProposal.Handle)

	getActionItem := NewGetActionItemTool(api)
	s.AddTool(getActionItem.Definition(), getActionItem.Handle)

	createActionItem := NewCreateActionItemTool(api)
	s.AddTool(createActionItem.Definition(), createActionItem.Handle)

	listSchedules := NewListSchedulesTool(api)
	s.AddTool(listSchedules.Definition(), listSchedules.Handle)

	varianceReport := NewVarianceReportTool(api)
	s.AddTool(varianceReport.Definition(), varianceReport.Handle)

	return s
}
