package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// creates a new API client from GEMIWELL_API_ENDPOINT and GEMIWELL_TOKEN
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("GEMIWELL_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &APIClient{
		endpoint: endpoint,
		token:    os.Getenv("GEMIWELL_TOKEN"),
		httpClient: &http.Client{
			Timeout: chatRequestTimeout,
		},
	}
}

// sends a chat query; a moderated failure is an answer with refused set, not an error
func (c *APIClient) Ask(ctx context.Context, query string) (*ChatResponseMsg, error) {
	var result chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat", chatRequest{Query: query}, &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		return &ChatResponseMsg{query: query, answer: result.Error, refused: true}, nil
	}

	return &ChatResponseMsg{query: query, answer: result.Advice}, nil
}

// loads the most recent stored messages, oldest first
func (c *APIClient) History(ctx context.Context) ([]ChatMessage, error) {
	var result historyResponse
	path := fmt.Sprintf("/api/v1/chat/messages?limit=%d", historyLimit)

	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	return result.Messages, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp apiErrorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// returns a tea.Cmd that sends a chat query
func (c *APIClient) AskCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()

		resp, err := c.Ask(ctx, query)
		if err != nil {
			return ChatErrorMsg{query: query, err: err}
		}

		return *resp
	}
}

// returns a tea.Cmd that loads stored history
func (c *APIClient) HistoryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		messages, err := c.History(ctx)
		if err != nil {
			return ChatErrorMsg{err: fmt.Errorf("failed to load history: %w", err)}
		}

		return HistoryMsg{messages: messages}
	}
}
