package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// NotFoundSentinel is the marker the model is instructed to lead with when
// it cannot verify the requested player.
const NotFoundSentinel = "PLAYER_NOT_FOUND:"

// scoutInstructions is the system prompt for report generation.
const scoutInstructions = `You are a professional basketball scout. Write a detailed scouting report in Markdown for the requested player.

Rules:
- Title the report "# Scouting Report — <Full Legal Name> (<Team>)" using the player's full canonical name, not the name as typed by the requester.
- Follow the title with bold info fields, one per line: **Player:**, **Team:**, **League:**, **Season:**, **Position:**.
- Then write sections "### Strengths", "### Weaknesses", "### Season Snapshot", "### Last 3 Games", "### Grades" and "### Final Verdict".
- Base the report only on what you know about the real player. Do not invent statistics.
- If you cannot identify a real professional player matching the request, respond with a single line starting with "PLAYER_NOT_FOUND:" followed by a short reason, and nothing else.`

// Client is a client for an OpenAI compatible chat completions API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// Chat sends a chat completion request and returns the first choice
// together with its token usage.
func (c *Client) Chat(ctx context.Context, messages []Message, params ChatParams) (string, Usage, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	model := params.Model
	if model == "" {
		model = c.Model
	}
	payload := ChatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", Usage{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", Usage{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, chatResp.Usage, nil
}

// GenerateReport asks the model for a scouting report on the given player.
// A sentinel response is returned as a normal report; callers decide what
// to do with it via IsSubjectNotFound.
func (c *Client) GenerateReport(ctx context.Context, req ReportRequest) (*Report, error) {
	orBlank := func(s string) string {
		if s == "" {
			return "(not provided)"
		}
		return s
	}

	userPrompt := fmt.Sprintf(`Player: %s

Provided team (may be blank): %s
Provided league (may be blank): %s
Provided season (may be blank): %s

Write the scouting report now.`,
		req.Player, orBlank(req.Team), orBlank(req.League), orBlank(req.Season))

	messages := []Message{
		{Role: "system", Content: scoutInstructions},
		{Role: "user", Content: userPrompt},
	}

	content, usage, err := c.Chat(ctx, messages, ChatParams{Temperature: 0.4})
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	return &Report{
		Markdown: strings.TrimSpace(content),
		Usage:    usage,
	}, nil
}

// IsSubjectNotFound reports whether a generated report is the sentinel the
// model emits when it cannot verify the requested player.
func IsSubjectNotFound(reportMD string) bool {
	return strings.HasPrefix(strings.TrimSpace(reportMD), NotFoundSentinel)
}

// ModelsResponse represents the response from the /v1/models endpoint.
type ModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CheckModel verifies that the configured model is served by the backend.
// Used at startup so a misconfigured model name fails fast instead of on
// the first paid request.
func (c *Client) CheckModel(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return fmt.Errorf("failed to decode models response: %w", err)
	}

	for _, m := range modelsResp.Data {
		if m.ID == c.Model {
			return nil
		}
	}
	return fmt.Errorf("model %q not served by %s", c.Model, c.BaseURL)
}
