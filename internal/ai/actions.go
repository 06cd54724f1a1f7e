package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Action is the closed set of structured follow-ups the coach can embed
// in a reply. The concrete type carries the payload; decoding happens
// once, at the boundary where the model's JSON is parsed.
type Action interface {
	ActionKind() string
}

// SuggestTaskAction proposes a task for the user to schedule
type SuggestTaskAction struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	RepeatKind  string `json:"repeat_kind,omitempty"`
}

func (SuggestTaskAction) ActionKind() string { return "suggest_task" }

// AddGoalAction proposes a new goal
type AddGoalAction struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

func (AddGoalAction) ActionKind() string { return "add_goal" }

// JournalPromptAction suggests a reflection prompt
type JournalPromptAction struct {
	Prompt string `json:"prompt"`
}

func (JournalPromptAction) ActionKind() string { return "journal_prompt" }

// decodeAction validates and decodes one raw action object into its
// typed variant. Unknown kinds and missing required fields are errors;
// the caller drops the action and keeps the reply text.
func decodeAction(raw []byte) (Action, error) {
	var head struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decoding action envelope: %w", err)
	}

	switch head.Action {
	case "suggest_task":
		var a SuggestTaskAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding suggest_task: %w", err)
		}
		if strings.TrimSpace(a.Title) == "" {
			return nil, fmt.Errorf("suggest_task requires a title")
		}
		return a, nil
	case "add_goal":
		var a AddGoalAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding add_goal: %w", err)
		}
		if strings.TrimSpace(a.Title) == "" {
			return nil, fmt.Errorf("add_goal requires a title")
		}
		return a, nil
	case "journal_prompt":
		var a JournalPromptAction
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decoding journal_prompt: %w", err)
		}
		if strings.TrimSpace(a.Prompt) == "" {
			return nil, fmt.Errorf("journal_prompt requires a prompt")
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", head.Action)
	}
}

// extractJSONObject finds the first balanced JSON object in free text.
// Returns the object bytes, the text with the object removed, and
// whether one was found. String contents are brace-counted correctly.
func extractJSONObject(text string) ([]byte, string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, text, false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				obj := text[start : i+1]
				rest := strings.TrimSpace(text[:start] + text[i+1:])
				return []byte(obj), rest, true
			}
		}
	}

	return nil, text, false
}
