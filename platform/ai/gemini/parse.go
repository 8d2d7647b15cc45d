package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparsableResponse marks a provider response that could not be read
// into the expected shape. Callers treat it as a scoring failure, never as
// a default score.
var ErrUnparsableResponse = errors.New("unparsable gemini response")

type scorePayload struct {
	Score *int `json:"score"`
}

type messagePayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// parseScore extracts a 0..100 integer score from the raw response text.
func parseScore(raw string) (int, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return 0, err
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	if payload.Score == nil {
		return 0, fmt.Errorf("%w: missing score field", ErrUnparsableResponse)
	}
	if *payload.Score < 0 || *payload.Score > 100 {
		return 0, fmt.Errorf("%w: score %d out of range", ErrUnparsableResponse, *payload.Score)
	}

	return *payload.Score, nil
}

// parseMessage extracts a non-empty subject and message body.
func parseMessage(raw string) (string, string, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return "", "", err
	}

	var payload messagePayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}

	subject := strings.TrimSpace(payload.Subject)
	message := strings.TrimSpace(payload.Message)
	if subject == "" || message == "" {
		return "", "", fmt.Errorf("%w: empty subject or message", ErrUnparsableResponse)
	}

	return subject, message, nil
}

// extractJSON tolerates markdown fences and prose around the JSON object
// the model was asked for.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrUnparsableResponse)
	}

	return text[start : end+1], nil
}
