package handlers

import (
	"net/http"

	"github.com/KristianFossum/leadstar-go/internal/ai"
	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ChatRequest carries the conversation so far. The client sends the full
// history each turn; the server holds no chat state.
type ChatRequest struct {
	Messages []ai.Message `json:"messages" binding:"required,min=1"`
}

// CoachChat relays a conversation to the AI coach and returns its reply.
// When the coach proposes an action (suggest a task, add a goal, offer a
// journal prompt), the parsed action rides along with its kind; applying
// it is the client's decision, never automatic.
func CoachChat(coach *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.GetAuthUserID(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		for _, m := range req.Messages {
			if m.Role != "user" && m.Role != "assistant" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Message role must be 'user' or 'assistant'"})
				return
			}
		}

		reply := coach.Chat(c.Request.Context(), req.Messages)

		resp := gin.H{
			"text":     reply.Text,
			"fallback": reply.Fallback,
		}
		if reply.Action != nil {
			resp["action"] = reply.Action
			resp["action_kind"] = reply.Action.ActionKind()
		}

		c.JSON(http.StatusOK, resp)
	}
}
