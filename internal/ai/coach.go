// Package ai is the coaching client for an OpenAI-compatible
// chat-completions endpoint. It is best-effort glue: every failure path
// degrades to a canned response, and nothing in the core packages
// depends on it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const systemPrompt = `You are LeadStar, a supportive leadership and personal-growth coach.
Keep replies short, concrete, and encouraging. When a clear next step exists,
append exactly one JSON object of the form
{"action": "suggest_task"|"add_goal"|"journal_prompt", ...} after your reply.`

// cannedReplies are the deterministic fallbacks used whenever the coach
// service is unreachable or returns something unusable
var cannedReplies = []string{
	"I couldn't reach your coach right now, but here's a thought: pick the one task you've been avoiding and give it just ten minutes today.",
	"Your coach is offline for a moment. In the meantime, jot down one thing that went well this week and why you think it worked.",
	"I can't generate a fresh reply right now. A classic that always helps: write down tomorrow's three priorities before you finish today.",
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is a parsed coach response. Fallback marks canned output.
type Reply struct {
	Text     string `json:"text"`
	Action   Action `json:"action,omitempty"`
	Fallback bool   `json:"fallback"`
}

// Client calls the chat-completions endpoint. Configuration is injected
// at construction; there are no package-level credentials.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a coach client. An empty API key is allowed; every
// chat then resolves to a canned reply.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Chat sends the system prompt plus the conversation to the model and
// parses the reply. Transport errors, non-200 responses, and empty
// completions all fall back to a canned reply; a malformed embedded
// action is dropped while the text is kept.
func (c *Client) Chat(ctx context.Context, messages []Message) Reply {
	if c.apiKey == "" {
		return c.fallback(messages)
	}

	text, err := c.complete(ctx, messages)
	if err != nil {
		c.logger.Warn("coach request failed, using canned reply", zap.Error(err))
		return c.fallback(messages)
	}
	if strings.TrimSpace(text) == "" {
		return c.fallback(messages)
	}

	reply := Reply{Text: strings.TrimSpace(text)}

	if raw, rest, ok := extractJSONObject(text); ok {
		action, err := decodeAction(raw)
		if err != nil {
			// Not a recognized action: keep the full text untouched
			c.logger.Debug("ignoring unparseable coach action", zap.Error(err))
		} else {
			reply.Action = action
			if rest != "" {
				reply.Text = rest
			}
		}
	}

	return reply
}

// complete performs one chat-completions round trip
func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	apiMessages := make([]apiMessage, 0, len(messages)+1)
	apiMessages = append(apiMessages, apiMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		apiMessages = append(apiMessages, apiMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := apiRequest{
		Model:    c.model,
		Messages: apiMessages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling coach API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d)", resp.StatusCode)
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	return result.Choices[0].Message.Content, nil
}

// fallback picks a canned reply deterministically from the last user
// message, so the same question gets the same answer
func (c *Client) fallback(messages []Message) Reply {
	var last string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			last = messages[i].Content
			break
		}
	}
	return Reply{
		Text:     cannedReplies[len(last)%len(cannedReplies)],
		Fallback: true,
	}
}

// --- chat-completions wire types ---

type apiRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message apiMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
