// Package assistant proxies chat requests to an AI completion provider,
// priming each conversation with a dental-practice system prompt.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 60 * time.Second

	systemPrompt = "You are a helpful assistant for a dental practice. " +
		"You help the front office answer questions about scheduling, recall intervals, " +
		"common procedures, and patient communication. You never give a clinical diagnosis; " +
		"for clinical questions, direct staff to the treating dentist."
)

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the JSON body for POST /assistant/chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// ChatResponse is the reply returned to the caller.
type ChatResponse struct {
	Message Message `json:"message"`
	Model   string  `json:"model"`
}

// ProviderError carries a failing response from the completion provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("assistant provider returned %d: %s", e.StatusCode, e.Body)
}

// Config holds provider connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg    Config
	httpc  *http.Client
	logger zerolog.Logger
}

// NewClient constructs a Client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: defaultTimeout},
		logger: logger.With().Str("component", "assistant").Logger(),
	}
}

// completionRequest is the provider wire format.
type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat forwards the conversation to the provider with the practice system
// prompt prepended and returns the first completion choice.
func (c *Client) Chat(ctx context.Context, messages []Message) (*ChatResponse, error) {
	payload := completionRequest{
		Model:    c.cfg.Model,
		Messages: append([]Message{{Role: "system", Content: systemPrompt}}, messages...),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call assistant provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read assistant response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("assistant provider error")
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var completion completionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("decode assistant response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("assistant provider returned no choices")
	}

	return &ChatResponse{
		Message: completion.Choices[0].Message,
		Model:   completion.Model,
	}, nil
}

// Handler exposes the assistant over HTTP.
type Handler struct {
	client *Client
}

// NewHandler creates a new Handler.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers assistant routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/assistant/chat", h.HandleChat)
}

// HandleChat handles POST /assistant/chat. Provider failures are forwarded
// with the upstream status code.
func (h *Handler) HandleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "messages is required")
	}

	resp, err := h.client.Chat(c.Request().Context(), req.Messages)
	if err != nil {
		if perr, ok := err.(*ProviderError); ok {
			return echo.NewHTTPError(perr.StatusCode, perr.Body)
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
