package handlers

import (
	"net/http"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListGroups returns all skill-sharing groups with member counts,
// optionally filtered by skill
func ListGroups(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	skill := c.Query("skill")

	query := `
		SELECT g.id, g.name, g.description, g.skill, g.created_by, g.created_at, g.updated_at,
			COUNT(m.user_id) AS member_count
		FROM groups g
		LEFT JOIN group_members m ON m.group_id = g.id
	`
	params := []interface{}{}
	if skill != "" {
		query += ` WHERE g.skill = $1`
		params = append(params, skill)
	}
	query += `
		GROUP BY g.id
		ORDER BY member_count DESC, g.created_at DESC
		LIMIT 100
	`

	rows, err := db.Query(c.Request.Context(), query, params...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query groups", "details": err.Error()})
		return
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Skill, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt, &g.MemberCount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse group data", "details": err.Error()})
			return
		}
		groups = append(groups, g)
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
		"count":  len(groups),
	})
}

// CreateGroup creates a group with the caller as its owner
func CreateGroup(c *gin.Context) {
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

	var req models.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	group := models.Group{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Skill:       req.Skill,
		CreatedBy:   userID,
		MemberCount: 1,
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	err = tx.QueryRow(c.Request.Context(), `
		INSERT INTO groups (id, name, description, skill, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, group.ID, group.Name, group.Description, group.Skill, group.CreatedBy).Scan(&group.CreatedAt, &group.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group", "details": err.Error()})
		return
	}

	_, err = tx.Exec(c.Request.Context(), `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, 'owner', NOW())
	`, group.ID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add owner membership", "details": err.Error()})
		return
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// JoinGroup adds the caller as a member. Joining twice is a no-op.
func JoinGroup(c *gin.Context) {
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

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	var exists bool
	err = db.QueryRow(c.Request.Context(), `
		SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)
	`, groupID).Scan(&exists)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query group", "details": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	_, err = db.Exec(c.Request.Context(), `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES ($1, $2, 'member', NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, groupID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined group", "group_id": groupID})
}

// LeaveGroup removes the caller's membership. The owner cannot leave
// their own group.
func LeaveGroup(c *gin.Context) {
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

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	var role string
	err = db.QueryRow(c.Request.Context(), `
		SELECT role FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&role)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query membership", "details": err.Error()})
		}
		return
	}

	if role == "owner" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group owner cannot leave; delete the group instead"})
		return
	}

	_, err = db.Exec(c.Request.Context(), `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left group", "group_id": groupID})
}

// ListGroupPosts returns a group's posts, newest first. Members only.
func ListGroupPosts(c *gin.Context) {
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

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	var isMember bool
	err = db.QueryRow(c.Request.Context(), `
		SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&isMember)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query membership", "details": err.Error()})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "Membership required to view posts"})
		return
	}

	rows, err := db.Query(c.Request.Context(), `
		SELECT p.id, p.group_id, p.user_id, u.username, p.content, p.created_at
		FROM group_posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.group_id = $1
		ORDER BY p.created_at DESC
		LIMIT 100
	`, groupID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query posts", "details": err.Error()})
		return
	}
	defer rows.Close()

	posts := []models.GroupPost{}
	for rows.Next() {
		var p models.GroupPost
		err := rows.Scan(&p.ID, &p.GroupID, &p.UserID, &p.AuthorName, &p.Content, &p.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse post data", "details": err.Error()})
			return
		}
		posts = append(posts, p)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// CreateGroupPost shares a post into a group and awards XP. Members only.
func CreateGroupPost(engine *progression.Engine) gin.HandlerFunc {
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

		groupID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
			return
		}

		var req models.GroupPostCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		var isMember bool
		err = db.QueryRow(c.Request.Context(), `
			SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
		`, groupID, userID).Scan(&isMember)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query membership", "details": err.Error()})
			return
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "Membership required to post"})
			return
		}

		post := models.GroupPost{
			ID:      uuid.New(),
			GroupID: groupID,
			UserID:  userID,
			Content: req.Content,
		}

		err = db.QueryRow(c.Request.Context(), `
			INSERT INTO group_posts (id, group_id, user_id, content, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING created_at
		`, post.ID, post.GroupID, post.UserID, post.Content).Scan(&post.CreatedAt)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post", "details": err.Error()})
			return
		}

		if username, ok := middleware.GetAuthUsername(c); ok {
			post.AuthorName = username
		}

		resp := gin.H{"post": post}
		for k, v := range awardAndStreak(c, engine, userID, progression.CategoryGroupShare) {
			resp[k] = v
		}

		c.JSON(http.StatusCreated, resp)
	}
}
