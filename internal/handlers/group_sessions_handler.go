package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/internal/store"
)

// GroupSessionsHandler serves the course group-session bulk endpoints. Group
// sessions are platform-side entities; they bypass the per-mentor session
// store and go straight to the platform client.
type GroupSessionsHandler struct {
	registry *store.Registry
}

// NewGroupSessionsHandler creates a new GroupSessionsHandler
func NewGroupSessionsHandler(registry *store.Registry) *GroupSessionsHandler {
	return &GroupSessionsHandler{
		registry: registry,
	}
}

func (h *GroupSessionsHandler) session(c *gin.Context) (*store.DashboardSession, bool) {
	return dashboardSession(c, h.registry)
}

type createGroupSessionsRequest struct {
	Course   string                          `json:"course" binding:"required"`
	Group    string                          `json:"group" binding:"required"`
	Sessions []models.GroupMentorshipSession `json:"sessions" binding:"required,min=1,dive"`
}

// CreateGroupSessions handles POST /api/v1/mentor/group-sessions
// Bulk-creates recurring group sessions for one course group.
func (h *GroupSessionsHandler) CreateGroupSessions(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req createGroupSessionsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	created, err := sess.Manager.AddCourseGroupSessions(c.Request.Context(), req.Course, req.Group, req.Sessions)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Failed to create group sessions", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sessions": created})
}

type deleteGroupSessionsRequest struct {
	SessionIDs []string `json:"sessionIds" binding:"required,min=1"`
}

// DeleteGroupSessions handles DELETE /api/v1/mentor/group-sessions
// Bulk-deletes group sessions by id.
func (h *GroupSessionsHandler) DeleteGroupSessions(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req deleteGroupSessionsRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	if err := sess.Manager.DeleteGroupSessions(c.Request.Context(), req.SessionIDs); err != nil {
		respondError(c, http.StatusBadGateway, "Failed to delete group sessions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": len(req.SessionIDs)})
}
