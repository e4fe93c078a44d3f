package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Client talks to the liftlog sync server over HTTP. It implements Remote.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the sync server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Available pings the server with a short deadline.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/v1/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// Fetch retrieves the owner's full sync state.
func (c *Client) Fetch(ctx context.Context, owner string) (*models.SyncState, error) {
	var state models.SyncState
	if err := c.do(ctx, http.MethodGet, c.ownerPath(owner), nil, &state); err != nil {
		return nil, fmt.Errorf("fetching sync state: %w", err)
	}
	return &state, nil
}

// Push upserts the owner's full sync state.
func (c *Client) Push(ctx context.Context, owner string, state *models.SyncState) error {
	if err := c.do(ctx, http.MethodPut, c.ownerPath(owner), state, nil); err != nil {
		return fmt.Errorf("pushing sync state: %w", err)
	}
	return nil
}

// UpsertProgram pushes a single program document.
func (c *Client) UpsertProgram(ctx context.Context, owner string, p models.Program) error {
	path := c.ownerPath(owner) + "/programs/" + url.PathEscape(p.ID)
	if err := c.do(ctx, http.MethodPut, path, p, nil); err != nil {
		return fmt.Errorf("upserting program: %w", err)
	}
	return nil
}

// DeleteProgram deletes a single program by id.
func (c *Client) DeleteProgram(ctx context.Context, owner, id string) error {
	path := c.ownerPath(owner) + "/programs/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	return nil
}

// SetActiveProgram records the owner's active-program choice.
func (c *Client) SetActiveProgram(ctx context.Context, owner, id string) error {
	path := c.ownerPath(owner) + "/active-program"
	body := map[string]string{"active_program_id": id}
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("setting active program: %w", err)
	}
	return nil
}

// UpsertWorkoutLog pushes a single workout-log document.
func (c *Client) UpsertWorkoutLog(ctx context.Context, owner string, l models.WorkoutLog) error {
	path := c.ownerPath(owner) + "/workouts/" + url.PathEscape(l.ID)
	if err := c.do(ctx, http.MethodPut, path, l, nil); err != nil {
		return fmt.Errorf("upserting workout log: %w", err)
	}
	return nil
}

// DeleteWorkoutLog deletes a single workout log by id.
func (c *Client) DeleteWorkoutLog(ctx context.Context, owner, id string) error {
	path := c.ownerPath(owner) + "/workouts/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting workout log: %w", err)
	}
	return nil
}

func (c *Client) ownerPath(owner string) string {
	return "/api/v1/sync/" + url.PathEscape(owner)
}

// do sends one request with the API key header, optionally encoding a JSON
// body and decoding a JSON response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}
