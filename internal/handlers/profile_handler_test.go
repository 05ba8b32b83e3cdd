package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mentorbridge/dashboard-api/internal/middleware"
	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/internal/store"
)

func TestLogout_DropsDashboardSession(t *testing.T) {
	clients := 0
	manager := new(MockSessionManager)
	manager.On("FetchMentorProfile", mock.Anything).
		Return(&models.MentorResponse{MentorUsername: "mentor"}, nil)

	registry := store.NewRegistry(60, 14, func(string) store.PlatformClient {
		clients++
		return manager
	})
	profile := NewProfileHandler(registry)

	router := gin.New()
	api := router.Group("/api/v1/mentor", middleware.CredentialMiddleware())
	api.GET("/profile", profile.GetMentorProfile)
	api.DELETE("/session", profile.Logout)

	w := doRequest(router, "GET", "/api/v1/mentor/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, clients)

	w = doRequest(router, "DELETE", "/api/v1/mentor/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logged out")

	w = doRequest(router, "GET", "/api/v1/mentor/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, clients, "logout forces a fresh session on the next request")
}

func TestGetMentorProfile_FetchedOnceThenCached(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchMentorProfile", mock.Anything).
		Return(&models.MentorResponse{MentorUsername: "mentor", MentorName: "Mentor One"}, nil).
		Once()
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/mentor/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "mentor", body["mentorUsername"])

	// Second read is a cache hit, no platform round trip
	w = doRequest(router, "GET", "/api/v1/mentor/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	manager.AssertNumberOfCalls(t, "FetchMentorProfile", 1)
}

func TestGetMentorProfile_RefreshFailure(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchMentorProfile", mock.Anything).
		Return(nil, errors.New("connection refused"))
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/mentor/profile", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch profile")
}

func TestGetMenteeProfile(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchMenteeProfile", mock.Anything).
		Return(&models.MenteeResponse{Username: "mentee1", FullName: "Mentee One"}, nil)
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/mentee/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "mentee1", body["username"])
	assert.Equal(t, "Mentee One", body["fullName"])
}

func adminSnapshot() *models.AdminData {
	return &models.AdminData{
		Mentors: []models.MentorSummary{
			{Username: "mentor1", Name: "Mentor One", Phone: "+15550100"},
		},
		Courses: []models.Course{
			{Name: "go-basics", Groups: []string{"alpha", "beta"}},
		},
	}
}

func TestGetCourseGroups(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchAdminData", mock.Anything).Return(adminSnapshot(), nil).Once()
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/admin/courses/go-basics/groups", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "go-basics", body["course"])
	assert.Equal(t, []any{"alpha", "beta"}, body["groups"])

	// Unknown course resolves against the cached snapshot
	w = doRequest(router, "GET", "/api/v1/admin/courses/rust-basics/groups", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Course not found")
	manager.AssertNumberOfCalls(t, "FetchAdminData", 1)
}

func TestGetMentorByPhone(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchAdminData", mock.Anything).Return(adminSnapshot(), nil).Once()
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/admin/mentors/by-phone/+15550100", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "mentor1", body["username"])

	w = doRequest(router, "GET", "/api/v1/admin/mentors/by-phone/+15550199", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Mentor not found")
}

func TestGetAdminLookups_RefreshFailure(t *testing.T) {
	manager := new(MockSessionManager)
	manager.On("FetchAdminData", mock.Anything).Return(nil, errors.New("connection refused"))
	router := newTestRouter(manager)

	w := doRequest(router, "GET", "/api/v1/admin/courses/go-basics/groups", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch admin data")
}
