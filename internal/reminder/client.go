package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the backend reminder API over REST/JSON.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a reminder API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error string `json:"error"`
}

// List returns all reminders known to the backend.
func (c *Client) List(ctx context.Context) ([]Reminder, error) {
	var reminders []Reminder
	if err := c.do(ctx, http.MethodGet, "/api/reminders/list", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// Pending returns reminders the backend still considers pending.
func (c *Client) Pending(ctx context.Context) ([]Reminder, error) {
	var reminders []Reminder
	if err := c.do(ctx, http.MethodGet, "/api/reminders/pending", nil, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// Create adds a new reminder and returns it with the backend-assigned ID.
func (c *Client) Create(ctx context.Context, r Reminder) (*Reminder, error) {
	var created Reminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies partial updates to a reminder.
func (c *Client) Update(ctx context.Context, id string, fields UpdateFields) (*Reminder, error) {
	var updated Reminder
	path := fmt.Sprintf("/api/reminders/%s", id)
	if err := c.do(ctx, http.MethodPatch, path, fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Complete marks a reminder as completed.
func (c *Client) Complete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/reminders/%s/complete", id)
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

// Snooze pushes a reminder's due date to the given time and marks it snoozed.
func (c *Client) Snooze(ctx context.Context, id string, until time.Time) error {
	path := fmt.Sprintf("/api/reminders/%s/snooze", id)
	body := map[string]string{"until": until.UTC().Format(time.RFC3339)}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// Delete removes a reminder permanently.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/reminders/%s", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("reminder API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("reminder API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("reminder API error: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
