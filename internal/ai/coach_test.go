package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": content}},
				},
			})
		} else {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"type": "server_error", "message": "boom"},
			})
		}
	}))
}

func TestChat(t *testing.T) {
	messages := []Message{{Role: "user", Content: "How do I build a morning routine?"}}

	t.Run("plain text reply", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "Start with one anchor habit.")
		defer srv.Close()

		client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, nil)
		reply := client.Chat(context.Background(), messages)

		assert.Equal(t, "Start with one anchor habit.", reply.Text)
		assert.Nil(t, reply.Action)
		assert.False(t, reply.Fallback)
	})

	t.Run("reply with embedded action", func(t *testing.T) {
		content := `Try journaling about it. {"action":"suggest_task","title":"Morning pages","repeat_kind":"daily"} Let me know how it goes.`
		srv := chatServer(t, http.StatusOK, content)
		defer srv.Close()

		client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, nil)
		reply := client.Chat(context.Background(), messages)

		assert.False(t, reply.Fallback)
		assert.Equal(t, "Try journaling about it.  Let me know how it goes.", reply.Text)
		require.NotNil(t, reply.Action)
		assert.Equal(t, "suggest_task", reply.Action.ActionKind())
		task, ok := reply.Action.(SuggestTaskAction)
		require.True(t, ok)
		assert.Equal(t, "Morning pages", task.Title)
		assert.Equal(t, "daily", task.RepeatKind)
	})

	t.Run("malformed action keeps the full text", func(t *testing.T) {
		content := `Some advice. {"action":"suggest_task"} more advice.`
		srv := chatServer(t, http.StatusOK, content)
		defer srv.Close()

		client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, nil)
		reply := client.Chat(context.Background(), messages)

		assert.Nil(t, reply.Action)
		assert.Equal(t, content, reply.Text)
	})

	t.Run("server error falls back to a canned reply", func(t *testing.T) {
		srv := chatServer(t, http.StatusInternalServerError, "")
		defer srv.Close()

		client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second, nil)
		reply := client.Chat(context.Background(), messages)

		assert.True(t, reply.Fallback)
		assert.Contains(t, cannedReplies, reply.Text)
	})

	t.Run("missing api key skips the network entirely", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", "test-model", time.Second, nil)
		reply := client.Chat(context.Background(), messages)

		assert.True(t, reply.Fallback)
		assert.Contains(t, cannedReplies, reply.Text)
	})

	t.Run("fallback is deterministic per question", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", "test-model", time.Second, nil)
		first := client.Chat(context.Background(), messages)
		second := client.Chat(context.Background(), messages)
		assert.Equal(t, first.Text, second.Text)
	})
}

func TestDecodeAction(t *testing.T) {
	t.Run("suggest task", func(t *testing.T) {
		a, err := decodeAction([]byte(`{"action":"suggest_task","title":"Weekly 1:1 prep"}`))
		require.NoError(t, err)
		assert.Equal(t, "suggest_task", a.ActionKind())
	})

	t.Run("add goal", func(t *testing.T) {
		a, err := decodeAction([]byte(`{"action":"add_goal","title":"Speak at a meetup","category":"career"}`))
		require.NoError(t, err)
		goal, ok := a.(AddGoalAction)
		require.True(t, ok)
		assert.Equal(t, "career", goal.Category)
	})

	t.Run("journal prompt", func(t *testing.T) {
		a, err := decodeAction([]byte(`{"action":"journal_prompt","prompt":"What drained you today?"}`))
		require.NoError(t, err)
		assert.Equal(t, "journal_prompt", a.ActionKind())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := decodeAction([]byte(`{"action":"delete_account"}`))
		assert.Error(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := decodeAction([]byte(`{"action":"add_goal","title":"  "}`))
		assert.Error(t, err)
	})
}

func TestExtractJSONObject(t *testing.T) {
	t.Run("object in the middle", func(t *testing.T) {
		obj, rest, ok := extractJSONObject(`before {"a":1} after`)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":1}`, string(obj))
		assert.Equal(t, "before  after", rest)
	})

	t.Run("nested braces", func(t *testing.T) {
		obj, _, ok := extractJSONObject(`x {"a":{"b":2}} y`)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":{"b":2}}`, string(obj))
	})

	t.Run("braces inside strings do not confuse the scanner", func(t *testing.T) {
		obj, _, ok := extractJSONObject(`{"a":"open { and close }"}`)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":"open { and close }"}`, string(obj))
	})

	t.Run("escaped quote inside string", func(t *testing.T) {
		obj, _, ok := extractJSONObject(`{"a":"say \"hi\" {"}`)
		require.True(t, ok)
		assert.Equal(t, `{"a":"say \"hi\" {"}`, string(obj))
	})

	t.Run("no object", func(t *testing.T) {
		_, rest, ok := extractJSONObject("just words")
		assert.False(t, ok)
		assert.Equal(t, "just words", rest)
	})

	t.Run("unbalanced object", func(t *testing.T) {
		_, _, ok := extractJSONObject(`{"a":1`)
		assert.False(t, ok)
	})
}
