package gemini

import (
	"errors"
	"testing"
)

func TestParseScorePlainJSON(t *testing.T) {
	score, err := parseScore(`{"score": 72}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 72 {
		t.Fatalf("expected 72, got %d", score)
	}
}

func TestParseScoreMarkdownFenced(t *testing.T) {
	raw := "```json\n{\"score\": 45}\n```"
	score, err := parseScore(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 45 {
		t.Fatalf("expected 45, got %d", score)
	}
}

func TestParseScoreWithSurroundingProse(t *testing.T) {
	raw := "Here is the evaluation you asked for: {\"score\": 88} — let me know!"
	score, err := parseScore(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 88 {
		t.Fatalf("expected 88, got %d", score)
	}
}

func TestParseScoreMissingFieldIsError(t *testing.T) {
	_, err := parseScore(`{"confidence": 0.9}`)
	if !errors.Is(err, ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}

func TestParseScoreOutOfRangeIsError(t *testing.T) {
	for _, raw := range []string{`{"score": -1}`, `{"score": 101}`} {
		if _, err := parseScore(raw); !errors.Is(err, ErrUnparsableResponse) {
			t.Fatalf("expected ErrUnparsableResponse for %s, got %v", raw, err)
		}
	}
}

func TestParseScoreBoundaryValues(t *testing.T) {
	for raw, want := range map[string]int{`{"score": 0}`: 0, `{"score": 100}`: 100} {
		score, err := parseScore(raw)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", raw, err)
		}
		if score != want {
			t.Fatalf("expected %d, got %d", want, score)
		}
	}
}

func TestParseScoreNonJSONIsError(t *testing.T) {
	_, err := parseScore("I cannot evaluate this lead.")
	if !errors.Is(err, ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}

func TestParseMessageHappyPath(t *testing.T) {
	subject, message, err := parseMessage(`{"subject": "Quick intro", "message": "Hi Ada, ..."}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Quick intro" || message != "Hi Ada, ..." {
		t.Fatalf("unexpected fields: %q / %q", subject, message)
	}
}

func TestParseMessagePartialPayloadIsError(t *testing.T) {
	cases := []string{
		`{"subject": "Quick intro"}`,
		`{"message": "Hi Ada"}`,
		`{"subject": "  ", "message": "Hi"}`,
	}
	for _, raw := range cases {
		if _, _, err := parseMessage(raw); !errors.Is(err, ErrUnparsableResponse) {
			t.Fatalf("expected ErrUnparsableResponse for %s, got %v", raw, err)
		}
	}
}

func TestParseMessageTrimsWhitespace(t *testing.T) {
	subject, message, err := parseMessage(`{"subject": "  Hello  ", "message": "  Body  "}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Hello" || message != "Body" {
		t.Fatalf("expected trimmed fields, got %q / %q", subject, message)
	}
}
