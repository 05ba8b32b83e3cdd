// Package upstream implements the client for the remote platform REST API.
// It translates dashboard intents into session mutation envelopes and
// normalizes responses into domain records. Authentication is owned by the
// platform: this client only forwards an opaque Authorization header supplied
// at construction time.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/pkg/circuitbreaker"
	"github.com/mentorbridge/dashboard-api/pkg/dateutil"
	pkgerrors "github.com/mentorbridge/dashboard-api/pkg/errors"
	"github.com/mentorbridge/dashboard-api/pkg/httpclient"
	"github.com/mentorbridge/dashboard-api/pkg/logger"
	"github.com/mentorbridge/dashboard-api/pkg/metrics"
	"github.com/mentorbridge/dashboard-api/pkg/tracing"
)

const (
	menteeListPath     = "/v1/mentors/mentee-list"
	sessionsPath       = "/v1/mentors/sessions"
	groupSessionsPath  = "/v1/mentors/group-sessions"
	mentorProfilePath  = "/v1/mentors/profile"
	menteeProfilePath  = "/v1/mentees/profile"
	adminDashboardPath = "/v1/admin/dashboard"
)

// Client is the platform API client used by the session stores
type Client struct {
	baseURL    string
	authHeader string
	http       httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a platform client. authHeader is forwarded verbatim on
// every request and never interpreted or persisted.
func NewClient(baseURL, authHeader string, hc httpclient.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		authHeader: authHeader,
		http:       hc,
		breaker:    circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("platform-mentee-list")),
	}
}

// FetchMenteeList returns the mentor's mentees for the scheduling dropdown.
// Fail-soft: any transport or HTTP failure logs and returns an empty list,
// since an empty dropdown is preferable to a broken scheduling page.
func (c *Client) FetchMenteeList(ctx context.Context) []models.MenteeIdentifier {
	mentees, err := circuitbreaker.ExecuteWithFallback(c.breaker,
		func() ([]models.MenteeIdentifier, error) {
			var out []models.MenteeIdentifier
			if err := c.call(ctx, "fetch_mentee_list", http.MethodGet, menteeListPath, nil, &out); err != nil {
				return nil, err
			}
			return out, nil
		},
		func() ([]models.MenteeIdentifier, error) {
			return []models.MenteeIdentifier{}, nil
		},
	)
	if err != nil {
		logger.Warn("Mentee list fetch failed, returning empty list", zap.Error(err))
		return []models.MenteeIdentifier{}
	}
	return mentees
}

// AddNewSession schedules a one-off ad-hoc session. The picker date arrives
// as yyyy-mm-dd and must convert cleanly to a real dd/mm/yyyy calendar date
// before any network call is made.
func (c *Client) AddNewSession(ctx context.Context, mentorUsername, date, startTime, endTime, menteeUsername, menteeFullName string) (*models.MentorshipSession, error) {
	wireDate, err := dateutil.ISOToDDMMYYYY(date)
	if err != nil {
		return nil, pkgerrors.ValidationError("date", err.Error())
	}

	update := models.SessionUpdate{
		Date:              wireDate,
		MentorUsername:    mentorUsername,
		MenteeUsername:    menteeUsername,
		MenteeFullName:    menteeFullName,
		StartTime:         startTime,
		EndTime:           endTime,
		UpdateType:        models.UpdateTypeAdd,
		SessionType:       models.SessionTypeAdHoc,
		IsPermanentUpdate: true,
	}

	var session models.MentorshipSession
	if err := c.submitSessionUpdate(ctx, "add_session", update, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionSchedule changes the time range of an existing session
func (c *Client) UpdateSessionSchedule(ctx context.Context, sessionID, startTime, endTime string) (*models.MentorshipSession, error) {
	update := models.SessionUpdate{
		ID:                sessionID,
		StartTime:         startTime,
		EndTime:           endTime,
		UpdateType:        models.UpdateTypeUpdate,
		IsPermanentUpdate: true,
	}

	var session models.MentorshipSession
	if err := c.submitSessionUpdate(ctx, "update_session", update, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CancelSession permanently deletes a session
func (c *Client) CancelSession(ctx context.Context, sessionID string) error {
	update := models.SessionUpdate{
		ID:                sessionID,
		UpdateType:        models.UpdateTypeDelete,
		IsPermanentUpdate: true,
	}
	return c.submitSessionUpdate(ctx, "cancel_session", update, nil)
}

// CancelRecurringSession cancels a single occurrence of a weekly or bi-weekly
// series without deleting the whole series. The weekday identifies which
// occurrence is being cancelled.
func (c *Client) CancelRecurringSession(ctx context.Context, sessionID string, dayOfWeek dateutil.DayOfWeek) error {
	if !dateutil.IsValidDayOfWeek(string(dayOfWeek)) {
		return pkgerrors.ValidationError("dayOfWeek", fmt.Sprintf("unknown weekday %q", dayOfWeek))
	}

	update := models.SessionUpdate{
		ID:                sessionID,
		UpdateType:        models.UpdateTypeDelete,
		IsPermanentUpdate: false,
		DayOfWeek:         dayOfWeek,
	}
	return c.submitSessionUpdate(ctx, "cancel_recurring_session", update, nil)
}

// AddCourseGroupSessions bulk-creates group sessions for a course+group pair
func (c *Client) AddCourseGroupSessions(ctx context.Context, course, group string, sessions []models.GroupMentorshipSession) ([]models.MentorshipSession, error) {
	stamped := make([]models.GroupMentorshipSession, len(sessions))
	for i, s := range sessions {
		s.Course = course
		s.Group = group
		stamped[i] = s
	}

	var created []models.MentorshipSession
	err := c.call(ctx, "add_group_sessions", http.MethodPost, groupSessionsPath,
		models.GroupSessionsPayload{Sessions: stamped}, &created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteGroupSessions bulk-deletes group sessions by id
func (c *Client) DeleteGroupSessions(ctx context.Context, sessionIDs []string) error {
	return c.call(ctx, "delete_group_sessions", http.MethodDelete, groupSessionsPath,
		models.GroupSessionIDsPayload{SessionIDs: sessionIDs}, nil)
}

// FetchMentorProfile fetches the mentor's dashboard snapshot
func (c *Client) FetchMentorProfile(ctx context.Context) (*models.MentorResponse, error) {
	var out models.MentorResponse
	if err := c.call(ctx, "fetch_mentor_profile", http.MethodGet, mentorProfilePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchMenteeProfile fetches the mentee's dashboard snapshot
func (c *Client) FetchMenteeProfile(ctx context.Context) (*models.MenteeResponse, error) {
	var out models.MenteeResponse
	if err := c.call(ctx, "fetch_mentee_profile", http.MethodGet, menteeProfilePath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAdminData fetches the admin portal snapshot
func (c *Client) FetchAdminData(ctx context.Context) (*models.AdminData, error) {
	var out models.AdminData
	if err := c.call(ctx, "fetch_admin_data", http.MethodGet, adminDashboardPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// submitSessionUpdate posts a mutation envelope to the session endpoint
func (c *Client) submitSessionUpdate(ctx context.Context, operation string, update models.SessionUpdate, out any) error {
	return c.call(ctx, operation, http.MethodPost, sessionsPath, update, out)
}

// call performs one instrumented request. Failures are logged with their
// cause and collapsed into the generic upstream error; mutations are never
// retried here.
func (c *Client) call(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := tracing.StartSpan(ctx, "platform."+operation)
	defer span.End()

	start := time.Now()
	err := c.doJSON(ctx, method, path, body, out)
	duration := metrics.MeasureDuration(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.UpstreamRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.UpstreamRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogUpstreamCall(operation, status, duration)

	if err != nil {
		logger.Error("Platform session operation failed",
			zap.String("operation", operation),
			zap.Error(err))
		return pkgerrors.UpstreamError(operation, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount so the body can be reported and the
		// connection reused
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, string(snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
