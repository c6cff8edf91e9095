// Command mcp-reminder provides an MCP server for reminder management.
//
// This server provides tools for creating, listing, snoozing, and managing
// reminders stored by the reminder backend service.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	REMINDER_API_URL  Base URL of the reminder backend (default: http://localhost:8000)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/reminderd/internal/reminder"
)

const defaultAPIURL = "http://localhost:8000"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	apiURL := os.Getenv("REMINDER_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	client := reminder.NewClient(apiURL, 10*time.Second)
	s := reminder.NewServer(client)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Reminder management via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    REMINDER_API_URL  Base URL of the reminder backend service
                      Default: http://localhost:8000

TOOLS:
    add_reminder       Add a new reminder (title, due_date, description, priority)
    list_reminders     List all reminders (optional status filter)
    get_due_reminders  Get pending reminders that are due or overdue
    complete_reminder  Mark a reminder as completed
    snooze_reminder    Snooze a reminder until a later time
    delete_reminder    Delete a reminder permanently
    update_reminder    Update reminder fields (title, description, due_date, priority)

CONFIGURATION:
    Add to ~/.reminderd/mcp.json:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
