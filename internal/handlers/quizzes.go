package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Leadership archetypes scored by the personality quiz. Every question's
// choice at index i contributes one point to archetypes[i].
var archetypes = []string{"Visionary", "Strategist", "Connector", "Builder"}

var personalityQuestions = []models.QuizQuestion{
	{
		ID:     1,
		Prompt: "When your team faces a hard problem, your first instinct is to",
		Choices: []string{
			"Paint a picture of where you want to end up",
			"Break it down and map the options",
			"Get everyone in a room to talk it through",
			"Roll up your sleeves and prototype something",
		},
	},
	{
		ID:     2,
		Prompt: "The part of a project you enjoy most is",
		Choices: []string{
			"Setting the direction at the start",
			"Planning the route and the milestones",
			"Keeping people aligned and energized",
			"Shipping the thing",
		},
	},
	{
		ID:     3,
		Prompt: "A colleague asks for feedback on a rough idea. You",
		Choices: []string{
			"Connect it to the bigger opportunity it could become",
			"Probe the assumptions behind it",
			"Ask how it landed with the rest of the team",
			"Suggest the smallest version they could try today",
		},
	},
	{
		ID:     4,
		Prompt: "Under deadline pressure you tend to",
		Choices: []string{
			"Re-anchor everyone on why the work matters",
			"Cut scope ruthlessly based on the plan",
			"Check in on how people are holding up",
			"Go heads-down and clear the critical path yourself",
		},
	},
	{
		ID:     5,
		Prompt: "You would rather be known as someone who",
		Choices: []string{
			"Sees around corners",
			"Never gets caught off guard",
			"Brings out the best in others",
			"Gets things done",
		},
	},
	{
		ID:     6,
		Prompt: "Meetings are at their best when",
		Choices: []string{
			"They end with a shared sense of direction",
			"They end with a clear decision and owners",
			"Everyone had a voice",
			"They are short enough to get back to real work",
		},
	},
	{
		ID:     7,
		Prompt: "When you learn a new skill, you prefer to",
		Choices: []string{
			"Imagine what it unlocks before diving in",
			"Study the fundamentals first",
			"Learn alongside someone else",
			"Learn by doing, mistakes included",
		},
	},
	{
		ID:     8,
		Prompt: "Your biggest frustration at work is",
		Choices: []string{
			"Thinking too small",
			"Decisions made on gut feel alone",
			"People talking past each other",
			"Endless discussion with nothing shipped",
		},
	},
}

// scorePersonality tallies each answer's choice index into its archetype
// and returns the per-archetype scores with the winner. Ties break toward
// the earlier archetype in the list so a given answer set always produces
// the same result.
func scorePersonality(answers []int) (string, map[string]int) {
	scores := map[string]int{}
	for _, a := range archetypes {
		scores[a] = 0
	}

	for _, choice := range answers {
		if choice >= 0 && choice < len(archetypes) {
			scores[archetypes[choice]]++
		}
	}

	winner := archetypes[0]
	for _, a := range archetypes[1:] {
		if scores[a] > scores[winner] {
			winner = a
		}
	}

	return winner, scores
}

// GetPersonalityQuiz returns the fixed personality quiz questions
func GetPersonalityQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"quiz_key":  "personality",
		"questions": personalityQuestions,
		"count":     len(personalityQuestions),
	})
}

// SubmitPersonalityQuiz scores a submission, stores the result and
// awards XP. Retakes replace the stored archetype but still award.
func SubmitPersonalityQuiz(engine *progression.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.QuizSubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		if len(req.Answers) != len(personalityQuestions) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Wrong number of answers",
				"details": gin.H{
					"expected": len(personalityQuestions),
					"got":      len(req.Answers),
				},
			})
			return
		}

		for i, choice := range req.Answers {
			if choice < 0 || choice >= len(personalityQuestions[i].Choices) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Answer out of range", "question": personalityQuestions[i].ID})
				return
			}
		}

		archetype, scores := scorePersonality(req.Answers)

		scoresJSON, err := json.Marshal(scores)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode scores"})
			return
		}

		result := models.QuizResult{
			ID:        uuid.New(),
			UserID:    userID,
			QuizKey:   "personality",
			Archetype: archetype,
			Scores:    string(scoresJSON),
		}

		err = db.QueryRow(c.Request.Context(), `
			INSERT INTO quiz_results (id, user_id, quiz_key, archetype, scores, taken_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING taken_at
		`, result.ID, result.UserID, result.QuizKey, result.Archetype, result.Scores).Scan(&result.TakenAt)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save quiz result", "details": err.Error()})
			return
		}

		resp := gin.H{
			"result": result,
			"scores": scores,
		}
		for k, v := range awardAndStreak(c, engine, userID, progression.CategoryQuizComplete) {
			resp[k] = v
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// ListQuizResults returns the user's past quiz results, newest first
func ListQuizResults(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	rows, err := db.Query(c.Request.Context(), `
		SELECT id, user_id, quiz_key, archetype, scores, taken_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY taken_at DESC
		LIMIT 50
	`, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query quiz results", "details": err.Error()})
		return
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var r models.QuizResult
		err := rows.Scan(&r.ID, &r.UserID, &r.QuizKey, &r.Archetype, &r.Scores, &r.TakenAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse quiz result", "details": err.Error()})
			return
		}
		results = append(results, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}
