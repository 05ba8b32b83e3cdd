package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorbridge/dashboard-api/internal/middleware"
	"github.com/mentorbridge/dashboard-api/internal/store"
	"github.com/mentorbridge/dashboard-api/pkg/dateutil"
	pkgerrors "github.com/mentorbridge/dashboard-api/pkg/errors"
)

// SessionsHandler serves the mentor scheduling endpoints. Every request is
// bound to a per-mentor dashboard session from the registry; the session owns
// the stateful store and the platform client.
type SessionsHandler struct {
	registry *store.Registry
}

// NewSessionsHandler creates a new SessionsHandler
func NewSessionsHandler(registry *store.Registry) *SessionsHandler {
	return &SessionsHandler{
		registry: registry,
	}
}

// dashboardSession resolves the caller's dashboard session, responding 401
// when the credential middleware left nothing behind
func dashboardSession(c *gin.Context, registry *store.Registry) (*store.DashboardSession, bool) {
	credential, ok := middleware.GetCredential(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	username, ok := middleware.GetMentorUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	return registry.GetOrCreate(username, credential), true
}

func (h *SessionsHandler) session(c *gin.Context) (*store.DashboardSession, bool) {
	return dashboardSession(c, h.registry)
}

// GetMentees handles GET /api/v1/mentor/mentees
// The list is fail-soft: on any upstream problem it is empty, never an error.
func (h *SessionsHandler) GetMentees(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	mentees := sess.Manager.FetchMenteeList(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"mentees": mentees})
}

// GetSessions handles GET /api/v1/mentor/sessions
// Returns all three session views plus the transient UI state.
func (h *SessionsHandler) GetSessions(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionsByDate":      sess.Store.SessionsByDate(),
		"sessionsByDayOfWeek": sess.Store.SessionsByDayOfWeek(),
		"calendarMeetings":    sess.Store.CalendarMeetings(),
		"modal":               sess.Store.Modal(),
		"actionLoading":       sess.Store.ActionLoading(),
		"actionError":         sess.Store.ActionError(),
	})
}

type addSessionRequest struct {
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime        string `json:"endTime" binding:"required,datetime=15:04"`
	MenteeUsername string `json:"menteeUsername" binding:"required"`
	MenteeFullName string `json:"menteeFullName" binding:"required"`
}

// AddSession handles POST /api/v1/mentor/sessions
// Creates an ad-hoc session within the booking window.
func (h *SessionsHandler) AddSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req addSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	err := sess.Store.AddNewSession(c.Request.Context(), store.AddForm{
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		MenteeUsername: req.MenteeUsername,
		MenteeFullName: req.MenteeFullName,
	})
	if err != nil {
		h.respondMutationError(c, sess, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionsByDate":      sess.Store.SessionsByDate(),
		"sessionsByDayOfWeek": sess.Store.SessionsByDayOfWeek(),
		"calendarMeetings":    sess.Store.CalendarMeetings(),
	})
}

type updateSessionRequest struct {
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
}

// UpdateSession handles PUT /api/v1/mentor/sessions/:id
// Changes a session's time range in place.
func (h *SessionsHandler) UpdateSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	var req updateSessionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	err := sess.Store.UpdateSession(c.Request.Context(), sessionID, store.EditForm{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.respondMutationError(c, sess, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionsByDate":   sess.Store.SessionsByDate(),
		"calendarMeetings": sess.Store.CalendarMeetings(),
	})
}

// CancelSession handles DELETE /api/v1/mentor/sessions/:id
// A day_of_week query parameter selects a single-occurrence recurring cancel;
// without it the cancel is permanent.
func (h *SessionsHandler) CancelSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		respondError(c, http.StatusBadRequest, "Invalid session ID", nil)
		return
	}

	var err error
	if dow := c.Query("day_of_week"); dow != "" {
		if !dateutil.IsValidDayOfWeek(dow) {
			respondError(c, http.StatusBadRequest, "Invalid day_of_week value", nil)
			return
		}
		err = sess.Store.CancelRecurringSession(c.Request.Context(), sessionID, dateutil.DayOfWeek(dow))
	} else {
		err = sess.Store.CancelSession(c.Request.Context(), sessionID)
	}
	if err != nil {
		h.respondMutationError(c, sess, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionsByDate":      sess.Store.SessionsByDate(),
		"sessionsByDayOfWeek": sess.Store.SessionsByDayOfWeek(),
		"calendarMeetings":    sess.Store.CalendarMeetings(),
	})
}

type openModalRequest struct {
	Kind string `json:"kind" binding:"required,oneof=edit add cancel"`
}

// OpenModal handles POST /api/v1/mentor/sessions/:id/modal
// Opens one of the three dialogs. The add dialog ignores the path id; edit and
// cancel silently skip unknown ids, leaving the modal closed.
func (h *SessionsHandler) OpenModal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req openModalRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		respondBindError(c, bindErr)
		return
	}

	sessionID := c.Param("id")
	switch store.ModalKind(req.Kind) {
	case store.ModalEdit:
		sess.Store.OpenEditModal(sessionID)
	case store.ModalAdd:
		sess.Store.OpenAddModal()
	case store.ModalCancel:
		sess.Store.OpenCancelModal(sessionID)
	}

	c.JSON(http.StatusOK, gin.H{"modal": sess.Store.Modal()})
}

// CloseModal handles DELETE /api/v1/mentor/sessions/:id/modal
func (h *SessionsHandler) CloseModal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	sess.Store.CloseModal()
	c.JSON(http.StatusOK, gin.H{"modal": sess.Store.Modal()})
}

// respondMutationError maps store errors onto HTTP statuses. The message is
// the store's fixed user-facing error string, mirroring what the dashboard
// renders in the modal.
func (h *SessionsHandler) respondMutationError(c *gin.Context, sess *store.DashboardSession, err error) {
	message := sess.Store.ActionError()
	if pkgerrors.Is(err, pkgerrors.ErrValidation) {
		respondError(c, http.StatusBadRequest, message, err)
		return
	}
	respondError(c, http.StatusBadGateway, message, err)
}
