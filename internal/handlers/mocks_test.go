package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/pkg/dateutil"
)

// MockSessionManager is a mock implementation of store.PlatformClient (and
// therefore of store.SessionManager, which most tests use it as)
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) FetchMentorProfile(ctx context.Context) (*models.MentorResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorResponse), args.Error(1)
}

func (m *MockSessionManager) FetchMenteeProfile(ctx context.Context) (*models.MenteeResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenteeResponse), args.Error(1)
}

func (m *MockSessionManager) FetchAdminData(ctx context.Context) (*models.AdminData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminData), args.Error(1)
}

func (m *MockSessionManager) FetchMenteeList(ctx context.Context) []models.MenteeIdentifier {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return []models.MenteeIdentifier{}
	}
	return args.Get(0).([]models.MenteeIdentifier)
}

func (m *MockSessionManager) AddNewSession(ctx context.Context, mentorUsername, date, startTime, endTime, menteeUsername, menteeFullName string) (*models.MentorshipSession, error) {
	args := m.Called(ctx, mentorUsername, date, startTime, endTime, menteeUsername, menteeFullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipSession), args.Error(1)
}

func (m *MockSessionManager) UpdateSessionSchedule(ctx context.Context, sessionID, startTime, endTime string) (*models.MentorshipSession, error) {
	args := m.Called(ctx, sessionID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MentorshipSession), args.Error(1)
}

func (m *MockSessionManager) CancelSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionManager) CancelRecurringSession(ctx context.Context, sessionID string, dayOfWeek dateutil.DayOfWeek) error {
	args := m.Called(ctx, sessionID, dayOfWeek)
	return args.Error(0)
}

func (m *MockSessionManager) AddCourseGroupSessions(ctx context.Context, course, group string, sessions []models.GroupMentorshipSession) ([]models.MentorshipSession, error) {
	args := m.Called(ctx, course, group, sessions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MentorshipSession), args.Error(1)
}

func (m *MockSessionManager) DeleteGroupSessions(ctx context.Context, sessionIDs []string) error {
	args := m.Called(ctx, sessionIDs)
	return args.Error(0)
}
