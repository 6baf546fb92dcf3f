package mcptool

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListClientsTool handles the list_clients MCP tool
type ListClientsTool struct {
	api *APIClient
}

// NewListClientsTool creates a ListClientsTool with the given API client
func NewListClientsTool(api *APIClient) *ListClientsTool {
	return &ListClientsTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *ListClientsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_clients",
		mcp.WithDescription(
			"List construction clients for the authenticated tenant. "+
				"Supports substring search and pagination.",
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring match on name and email."),
		),
		mcp.WithString("page",
			mcp.Description("Page number, starting at 1."),
		),
		mcp.WithString("limit",
			mcp.Description("Page size, 1-100 (default 20)."),
		),
	)
}

// Handle processes the list_clients tool call
func (t *ListClientsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	for _, key := range []string{"search", "page", "limit"} {
		if value := req.GetString(key, ""); value != "" {
			query.Set(key, value)
		}
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/clients", query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// GetClientTool handles the get_client MCP tool
type GetClientTool struct {
	api *APIClient
}

// NewGetClientTool creates a GetClientTool with the given API client
func NewGetClientTool(api *APIClient) *GetClientTool {
	return &GetClientTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *GetClientTool) Definition() mcp.Tool {
	return mcp.NewTool("get_client",
		mcp.WithDescription("Fetch one construction client by id."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Client UUID."),
		),
	)
}

// Handle processes the get_client tool call
func (t *GetClientTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// CreateClientTool handles the create_client MCP tool
type CreateClientTool struct {
	api *APIClient
}

// NewCreateClientTool creates a CreateClientTool with the given API client
func NewCreateClientTool(api *APIClient) *CreateClientTool {
	return &CreateClientTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *CreateClientTool) Definition() mcp.Tool {
	return mcp.NewTool("create_client",
		mcp.WithDescription("Create a construction client under the authenticated tenant."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Client name."),
		),
		mcp.WithString("email_address",
			mcp.Description("Primary email address."),
		),
		mcp.WithString("phone",
			mcp.Description("Primary phone number."),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes."),
		),
	)
}

// Handle processes the create_client tool call
func (t *CreateClientTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]interface{}{
		"name": req.GetString("name", ""),
	}
	for _, key := range []string{"email_address", "phone", "notes"} {
		if value := req.GetString(key, ""); value != "" {
			payload[key] = value
		}
	}

	body, err := t.api.Call(ctx, http.MethodPost, "/clients", nil, payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// ListProposalsTool handles the list_proposals MCP tool
type ListProposalsTool struct {
	api *APIClient
}

// NewListProposalsTool creates a ListProposalsTool with the given API client
func NewListProposalsTool(api *APIClient) *ListProposalsTool {
	return &ListProposalsTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *ListProposalsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_proposals",
		mcp.WithDescription("List proposals for the authenticated tenant."),
		mcp.WithString("client_id",
			mcp.Description("Filter by client UUID."),
		),
		mcp.WithString("status",
			mcp.Description("Filter by proposal status."),
		),
		mcp.WithString("page",
			mcp.Description("Page number, starting at 1."),
		),
		mcp.WithString("limit",
			mcp.Description("Page size, 1-100 (default 20)."),
		),
	)
}

// Handle processes the list_proposals tool call
func (t *ListProposalsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	for _, key := range []string{"client_id", "status", "page", "limit"} {
		if value := req.GetString(key, ""); value != "" {
			query.Set(key, value)
		}
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/proposals", query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// CreateProposalTool handles the create_proposal MCP tool
type CreateProposalTool struct {
	api *APIClient
}

// NewCreateProposalTool creates a CreateProposalTool with the given API client
func NewCreateProposalTool(api *APIClient) *CreateProposalTool {
	return &CreateProposalTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *CreateProposalTool) Definition() mcp.Tool {
	return mcp.NewTool("create_proposal",
		mcp.WithDescription("Create a proposal for an existing client."),
		mcp.WithString("client_id",
			mcp.Required(),
			mcp.Description("Client UUID the proposal belongs to."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Proposal title."),
		),
		mcp.WithString("status",
			mcp.Description("Proposal status (default draft)."),
		),
		mcp.WithNumber("amount",
			mcp.Description("Proposal amount."),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes."),
		),
	)
}

// Handle processes the create_proposal tool call
func (t *CreateProposalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]interface{}{
		"client_id": req.GetString("client_id", ""),
		"title":     req.GetString("title", ""),
	}
	if status := req.GetString("status", ""); status != "" {
		payload["status"] = status
	}
	if amount := req.GetFloat("amount", 0); amount != 0 {
		payload["amount"] = amount
	}
	if notes := req.GetString("notes", ""); notes != "" {
		payload["notes"] = notes
	}

	body, err := t.api.Call(ctx, http.MethodPost, "/proposals", nil, payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// GetActionItemTool handles the get_action_item MCP tool
type GetActionItemTool struct {
	api *APIClient
}

// NewGetActionItemTool creates a GetActionItemTool with the given API client
func NewGetActionItemTool(api *APIClient) *GetActionItemTool {
	return &GetActionItemTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *GetActionItemTool) Definition() mcp.Tool {
	return mcp.NewTool("get_action_item",
		mcp.WithDescription(
			"Fetch one action item with its cost or schedule change, "+
				"comments and supervisor assignments.",
		),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Action item UUID."),
		),
	)
}

// Handle processes the get_action_item tool call
func (t *GetActionItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/action-items/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// CreateActionItemTool handles the create_action_item MCP tool
type CreateActionItemTool struct {
	api *APIClient
}

// NewCreateActionItemTool creates a CreateActionItemTool with the given API client
func NewCreateActionItemTool(api *APIClient) *CreateActionItemTool {
	return &CreateActionItemTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *CreateActionItemTool) Definition() mcp.Tool {
	return mcp.NewTool("create_action_item",
		mcp.WithDescription(
			"Create an action item on a project schedule. "+
				"action_type_id 1 is a cost change, 2 is a schedule change.",
		),
		mcp.WithString("project_schedule_id",
			mcp.Required(),
			mcp.Description("Project schedule UUID."),
		),
		mcp.WithNumber("action_type_id",
			mcp.Required(),
			mcp.Description("1 for cost change, 2 for schedule change."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Action item title."),
		),
		mcp.WithString("description",
			mcp.Description("Detailed description."),
		),
		mcp.WithString("comment",
			mcp.Description("Optional first comment."),
		),
	)
}

// Handle processes the create_action_item tool call
func (t *CreateActionItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]interface{}{
		"project_schedule_id": req.GetString("project_schedule_id", ""),
		"action_type_id":      int(req.GetFloat("action_type_id", 0)),
		"title":               req.GetString("title", ""),
	}
	if description := req.GetString("description", ""); description != "" {
		payload["description"] = description
	}
	if comment := req.GetString("comment", ""); comment != "" {
		payload["comment"] = comment
	}

	body, err := t.api.Call(ctx, http.MethodPost, "/action-items", nil, payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// ListSchedulesTool handles the list_schedules MCP tool
type ListSchedulesTool struct {
	api *APIClient
}

// NewListSchedulesTool creates a ListSchedulesTool with the given API client
func NewListSchedulesTool(api *APIClient) *ListSchedulesTool {
	return &ListSchedulesTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *ListSchedulesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_schedules",
		mcp.WithDescription("List project schedules for the authenticated tenant."),
		mcp.WithString("client_id",
			mcp.Description("Filter by client UUID."),
		),
		mcp.WithString("status",
			mcp.Description("Filter by schedule status."),
		),
		mcp.WithString("page",
			mcp.Description("Page number, starting at 1."),
		),
		mcp.WithString("limit",
			mcp.Description("Page size, 1-100 (default 20)."),
		),
	)
}

// Handle processes the list_schedules tool call
func (t *ListSchedulesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	for _, key := range []string{"client_id", "status", "page", "limit"} {
		if value := req.GetString(key, ""); value != "" {
			query.Set(key, value)
		}
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/schedules", query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}

// VarianceReportTool handles the financial_variance_report MCP tool
type VarianceReportTool struct {
	api *APIClient
}

// NewVarianceReportTool creates a VarianceReportTool with the given API client
func NewVarianceReportTool(api *APIClient) *VarianceReportTool {
	return &VarianceReportTool{api: api}
}

// Definition returns the MCP tool definition for registration
func (t *VarianceReportTool) Definition() mcp.Tool {
	return mcp.NewTool("financial_variance_report",
		mcp.WithDescription(
			"Budget versus ledger actuals per project schedule for the "+
				"authenticated tenant.",
		),
		mcp.WithString("page",
			mcp.Description("Page number, starting at 1."),
		),
		mcp.WithString("limit",
			mcp.Description("Page size, 1-100 (default 20)."),
		),
	)
}

// Handle processes the financial_variance_report tool call
func (t *VarianceReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	for _, key := range []string{"page", "limit"} {
		if value := req.GetString(key, ""); value != "" {
			query.Set(key, value)
		}
	}

	body, err := t.api.Call(ctx, http.MethodGet, "/reports/financial-variance", query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(body), nil
}
