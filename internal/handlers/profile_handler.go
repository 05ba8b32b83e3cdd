package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorbridge/dashboard-api/internal/middleware"
	"github.com/mentorbridge/dashboard-api/internal/store"
)

// ProfileHandler serves the profile snapshot endpoints and the dashboard
// session lifecycle. Mentor and mentee snapshots are fetched lazily: a cache
// hit is served as-is, a miss triggers a refresh from the platform.
type ProfileHandler struct {
	registry *store.Registry
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(registry *store.Registry) *ProfileHandler {
	return &ProfileHandler{
		registry: registry,
	}
}

// Logout handles DELETE /api/v1/mentor/session
// Drops the caller's dashboard session; every store clears its credential
// and snapshot. The next authenticated request starts from a blank session.
func (h *ProfileHandler) Logout(c *gin.Context) {
	username, ok := middleware.GetMentorUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.registry.Drop(username)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// GetMentorProfile handles GET /api/v1/mentor/profile
func (h *ProfileHandler) GetMentorProfile(c *gin.Context) {
	sess, ok := dashboardSession(c, h.registry)
	if !ok {
		return
	}

	snapshot, found := sess.Profile.Snapshot()
	if !found {
		if err := sess.Profile.Refresh(c.Request.Context()); err != nil {
			respondError(c, http.StatusBadGateway, "Failed to fetch profile", err)
			return
		}
		snapshot, found = sess.Profile.Snapshot()
		if !found {
			respondError(c, http.StatusBadGateway, "Failed to fetch profile", nil)
			return
		}
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetMenteeProfile handles GET /api/v1/mentee/profile
func (h *ProfileHandler) GetMenteeProfile(c *gin.Context) {
	sess, ok := dashboardSession(c, h.registry)
	if !ok {
		return
	}

	snapshot, found := sess.Mentee.Snapshot()
	if !found {
		if err := sess.Mentee.Refresh(c.Request.Context()); err != nil {
			respondError(c, http.StatusBadGateway, "Failed to fetch profile", err)
			return
		}
		snapshot, found = sess.Mentee.Snapshot()
		if !found {
			respondError(c, http.StatusBadGateway, "Failed to fetch profile", nil)
			return
		}
	}

	c.JSON(http.StatusOK, snapshot)
}

// adminSession resolves the dashboard session and makes sure its admin
// snapshot is populated, refreshing it on a cache miss
func (h *ProfileHandler) adminSession(c *gin.Context) (*store.DashboardSession, bool) {
	sess, ok := dashboardSession(c, h.registry)
	if !ok {
		return nil, false
	}

	if _, found := sess.Admin.Snapshot(); !found {
		if err := sess.Admin.Refresh(c.Request.Context()); err != nil {
			respondError(c, http.StatusBadGateway, "Failed to fetch admin data", err)
			return nil, false
		}
	}
	return sess, true
}

// GetCourseGroups handles GET /api/v1/admin/courses/:course/groups
func (h *ProfileHandler) GetCourseGroups(c *gin.Context) {
	sess, ok := h.adminSession(c)
	if !ok {
		return
	}

	course := c.Param("course")
	groups := sess.Admin.GetCourseGroups(course)
	if groups == nil {
		respondError(c, http.StatusNotFound, "Course not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"course": course, "groups": groups})
}

// GetMentorByPhone handles GET /api/v1/admin/mentors/by-phone/:phone
func (h *ProfileHandler) GetMentorByPhone(c *gin.Context) {
	sess, ok := h.adminSession(c)
	if !ok {
		return
	}

	username, found := sess.Admin.GetMentorUsernameByPhone(c.Param("phone"))
	if !found {
		respondError(c, http.StatusNotFound, "Mentor not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username})
}
