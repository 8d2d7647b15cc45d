// Package gemini provides the Gemini client used for lead scoring and
// outreach message generation. This is part of the platform layer.
package gemini

import (
	"context"
	"fmt"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/config"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client calls the Gemini API. The API key is supplied per request because
// keys are drawn from a shared pool, one per processed lead.
type Client struct {
	model string
}

// NewClient creates a Gemini client for the configured model.
func NewClient(cfg config.AIConfig) *Client {
	model := cfg.GetGeminiModel()
	if model == "" {
		model = defaultModel
	}
	return &Client{model: model}
}

// ScoreResult is the parsed outcome of a scoring call.
type ScoreResult struct {
	Score int
	Raw   string
}

// MessageResult is the parsed outcome of a message generation call.
type MessageResult struct {
	Subject string
	Message string
	Raw     string
}

// ScoreLead sends the scoring prompt and returns the parsed score.
func (c *Client) ScoreLead(ctx context.Context, apiKey, prompt string) (ScoreResult, error) {
	raw, err := c.generate(ctx, apiKey, prompt)
	if err != nil {
		return ScoreResult{}, err
	}

	score, err := parseScore(raw)
	if err != nil {
		return ScoreResult{}, err
	}

	return ScoreResult{Score: score, Raw: raw}, nil
}

// GenerateMessage sends the message prompt and returns the parsed
// subject and body.
func (c *Client) GenerateMessage(ctx context.Context, apiKey, prompt string) (MessageResult, error) {
	raw, err := c.generate(ctx, apiKey, prompt)
	if err != nil {
		return MessageResult{}, err
	}

	subject, message, err := parseMessage(raw)
	if err != nil {
		return MessageResult{}, err
	}

	return MessageResult{Subject: subject, Message: message, Raw: raw}, nil
}

func (c *Client) generate(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	return text, nil
}
