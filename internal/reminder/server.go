package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "reminder"
	serverVersion = "1.0.0"
)

// Server is the MCP server for reminder management. It proxies tool calls
// to the backend reminder API.
type Server struct {
	mcpServer *server.MCPServer
	client    *Client
}

// NewServer creates a new Reminder MCP server backed by the given API client.
func NewServer(client *Client) *Server {
	s := &Server{
		client: client,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder with a title, due date, optional description and priority"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("due_date", mcp.Required(), mcp.Description("Due date in RFC3339 format (e.g. 2025-01-15T09:00:00Z)")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("priority", mcp.Description("Priority: low, medium, high, urgent (default: medium)")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders, optionally filtered by status (pending, completed, snoozed, cancelled)"),
			mcp.WithString("status", mcp.Description("Filter by status, or empty for all")),
		),
		s.handleListReminders,
	)

	// get_due_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get all pending reminders that are due now or overdue"),
		),
		s.handleGetDueReminders,
	)

	// complete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)

	// snooze_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("snooze_reminder",
			mcp.WithDescription("Snooze a reminder until a later time"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("until", mcp.Required(), mcp.Description("New due time in RFC3339 format")),
		),
		s.handleSnoozeReminder,
	)

	// delete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	// update_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields (title, description, due_date, priority)"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("due_date", mcp.Description("New due date in RFC3339 format")),
			mcp.WithString("priority", mcp.Description("New priority: low, medium, high, urgent")),
		),
		s.handleUpdateReminder,
	)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	dueDateStr := req.GetString("due_date", "")
	description := req.GetString("description", "")
	priority := req.GetString("priority", "")

	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	if dueDateStr == "" {
		return mcp.NewToolResultError("due_date is required"), nil
	}

	dueDate, err := time.Parse(time.RFC3339, dueDateStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid due_date format: %v (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)), nil
	}

	if priority == "" {
		priority = PriorityMedium
	}

	r := Reminder{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
	}

	added, err := s.client.Create(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(added, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")

	reminders, err := s.client.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if status != "" {
		filtered := reminders[:0]
		for _, r := range reminders {
			if r.Status == status {
				filtered = append(filtered, r)
			}
		}
		reminders = filtered
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders, err := s.client.Pending(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	now := time.Now()
	var due []Reminder
	for _, r := range reminders {
		if !r.DueDate.After(now) {
			due = append(due, r)
		}
	}

	if len(due) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	output, _ := json.MarshalIndent(due, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.client.Complete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s marked as completed.", id)), nil
}

func (s *Server) handleSnoozeReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	untilStr := req.GetString("until", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	if untilStr == "" {
		return mcp.NewToolResultError("until is required"), nil
	}

	until, err := time.Parse(time.RFC3339, untilStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid until format: %v (use RFC3339)", err)), nil
	}

	if err := s.client.Snooze(ctx, id, until); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to snooze reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s snoozed until %s.", id, until.Format(time.RFC3339))), nil
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.client.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	var fields UpdateFields
	if title := req.GetString("title", ""); title != "" {
		fields.Title = &title
	}
	if description := req.GetString("description", ""); description != "" {
		fields.Description = &description
	}
	if dueDateStr := req.GetString("due_date", ""); dueDateStr != "" {
		dueDate, err := time.Parse(time.RFC3339, dueDateStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_date format: %v (use RFC3339)", err)), nil
		}
		fields.DueDate = &dueDate
	}
	if priority := req.GetString("priority", ""); priority != "" {
		fields.Priority = &priority
	}

	updated, err := s.client.Update(ctx, id, fields)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}

	output, _ := json.MarshalIndent(updated, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}
