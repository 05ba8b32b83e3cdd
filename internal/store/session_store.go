// Package store holds the per-user dashboard state: the mentor session store
// with its derived calendar projections, and the session-scoped profile
// snapshot stores for the admin, mentor, and mentee portals.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/pkg/dateutil"
	pkgerrors "github.com/mentorbridge/dashboard-api/pkg/errors"
	"github.com/mentorbridge/dashboard-api/pkg/logger"
	"github.com/mentorbridge/dashboard-api/pkg/metrics"
)

// SessionManager is what the session store needs from the platform client
type SessionManager interface {
	FetchMenteeList(ctx context.Context) []models.MenteeIdentifier
	AddNewSession(ctx context.Context, mentorUsername, date, startTime, endTime, menteeUsername, menteeFullName string) (*models.MentorshipSession, error)
	UpdateSessionSchedule(ctx context.Context, sessionID, startTime, endTime string) (*models.MentorshipSession, error)
	CancelSession(ctx context.Context, sessionID string) error
	CancelRecurringSession(ctx context.Context, sessionID string, dayOfWeek dateutil.DayOfWeek) error
	AddCourseGroupSessions(ctx context.Context, course, group string, sessions []models.GroupMentorshipSession) ([]models.MentorshipSession, error)
	DeleteGroupSessions(ctx context.Context, sessionIDs []string) error
}

// Fixed user-facing messages. Validation and upstream failures alike surface
// as a short string in the relevant modal's error slot.
const (
	msgAddFailed    = "Unable to schedule the session. Please try again."
	msgUpdateFailed = "Unable to update the session. Please try again."
	msgCancelFailed = "Unable to cancel the session. Please try again."
	msgDateOutside  = "Sessions can only be booked between today and two weeks from now."
)

// ModalKind identifies the three mutually exclusive dialog flavors
type ModalKind string

const (
	ModalEdit   ModalKind = "edit"
	ModalAdd    ModalKind = "add"
	ModalCancel ModalKind = "cancel"
)

// EditForm is the edit dialog's form data
type EditForm struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AddForm is the add dialog's form data. Date arrives from the picker as
// yyyy-mm-dd.
type AddForm struct {
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	MenteeUsername string `json:"menteeUsername"`
	MenteeFullName string `json:"menteeFullName"`
}

// ModalState is the transient dialog state. At most one modal is open.
type ModalState struct {
	Kind      ModalKind `json:"kind,omitempty"`
	Open      bool      `json:"open"`
	SessionID string    `json:"sessionId,omitempty"`
	Edit      EditForm  `json:"edit,omitempty"`
	Add       AddForm   `json:"add,omitempty"`
}

// sessionRecord is the authoritative entry for one session. date and weekday
// drive the derived indices; inWeekday records whether the session occupies a
// day-of-week bucket.
type sessionRecord struct {
	session   models.MentorshipSession
	date      string
	weekday   dateutil.DayOfWeek
	inWeekday bool
}

// SessionStore is the source of truth for a mentor's session data within a
// dashboard session, plus the transient modal state.
//
// Sessions live in a single authoritative map keyed by id; the by-date,
// by-weekday, and calendar projections are secondary indices maintained
// through one mutation entry point, so the three views cannot drift apart.
type SessionStore struct {
	mu sync.Mutex

	mentorUsername    string
	manager           SessionManager
	profile           *MentorProfileStore
	bookingWindowDays int
	now               func() time.Time

	sessions     map[string]*sessionRecord
	dateIndex    map[string][]string
	weekdayIndex map[dateutil.DayOfWeek][]string
	calendar     map[string]models.CalendarMeeting

	modal         ModalState
	actionLoading bool
	actionError   string
}

// Option configures a SessionStore
type Option func(*SessionStore)

// WithClock overrides the store's clock (used by tests)
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

// WithBookingWindow overrides the default 14-day booking window
func WithBookingWindow(days int) Option {
	return func(s *SessionStore) { s.bookingWindowDays = days }
}

// NewSessionStore creates a store for one mentor, seeded from the profile
// store's MentorResponse snapshot when one is present. profile may be nil;
// write-through is then skipped.
func NewSessionStore(mentorUsername string, manager SessionManager, profile *MentorProfileStore, opts ...Option) *SessionStore {
	s := &SessionStore{
		mentorUsername:    mentorUsername,
		manager:           manager,
		profile:           profile,
		bookingWindowDays: 14,
		now:               time.Now,
		sessions:          make(map[string]*sessionRecord),
		dateIndex:         make(map[string][]string),
		weekdayIndex:      make(map[dateutil.DayOfWeek][]string),
		calendar:          make(map[string]models.CalendarMeeting),
	}
	for _, opt := range opts {
		opt(s)
	}

	if profile != nil {
		if snapshot, ok := profile.Snapshot(); ok {
			s.seed(snapshot)
		}
	}

	return s
}

// seed loads the snapshot's indices into the authoritative map. Weekday
// buckets present in the snapshot are materialized even when empty: their
// existence controls whether an ad-hoc add lands in a weekday bucket.
func (s *SessionStore) seed(snapshot *models.MentorResponse) {
	for date, sessions := range snapshot.SessionsByDate {
		for _, session := range sessions {
			s.insertLocked(session, date)
		}
	}

	for weekday, sessions := range snapshot.SessionsByDayOfWeek {
		if _, ok := s.weekdayIndex[weekday]; !ok {
			s.weekdayIndex[weekday] = []string{}
		}
		for _, session := range sessions {
			if rec, ok := s.sessions[session.ID]; ok {
				rec.weekday = weekday
				rec.inWeekday = true
				s.weekdayIndex[weekday] = append(s.weekdayIndex[weekday], session.ID)
				continue
			}
			// Recurring entry with no dated occurrence yet
			s.sessions[session.ID] = &sessionRecord{
				session:   session,
				weekday:   weekday,
				inWeekday: true,
			}
			s.weekdayIndex[weekday] = append(s.weekdayIndex[weekday], session.ID)
		}
	}

	metrics.StoredSessions.WithLabelValues(s.mentorUsername).Set(float64(len(s.sessions)))
}

// insertLocked is the single insert path: authoritative map, date index,
// weekday index (only when the bucket already exists), calendar projection.
func (s *SessionStore) insertLocked(session models.MentorshipSession, date string) {
	rec := &sessionRecord{session: session, date: date}

	if weekday, ok := dateutil.WeekdayOf(date); ok {
		if _, exists := s.weekdayIndex[weekday]; exists {
			rec.weekday = weekday
			rec.inWeekday = true
			s.weekdayIndex[weekday] = append(s.weekdayIndex[weekday], session.ID)
		}
	}

	s.sessions[session.ID] = rec
	s.dateIndex[date] = append(s.dateIndex[date], session.ID)
	s.calendar[session.ID] = session.ToCalendarMeeting(date)

	metrics.StoredSessions.WithLabelValues(s.mentorUsername).Set(float64(len(s.sessions)))
}

// replaceLocked is the single update path. The session stays in its date
// bucket: the update envelope only carries a time range, never a new date.
// The calendar entry is patched, never created: a recurring entry with no
// dated occurrence has no calendar meeting and must not gain one here.
func (s *SessionStore) replaceLocked(updated models.MentorshipSession) {
	rec, ok := s.sessions[updated.ID]
	if !ok {
		return
	}
	rec.session = updated
	if rec.date != "" {
		s.calendar[updated.ID] = updated.ToCalendarMeeting(rec.date)
	}
}

// removeLocked is the single remove path: the id is filtered out of every
// index. Emptied buckets are retained, never deleted. Removing an absent id
// is a no-op.
func (s *SessionStore) removeLocked(id string) {
	rec, ok := s.sessions[id]
	if !ok {
		return
	}

	delete(s.sessions, id)
	delete(s.calendar, id)

	if rec.date != "" {
		s.dateIndex[rec.date] = filterID(s.dateIndex[rec.date], id)
	}
	if rec.inWeekday {
		s.weekdayIndex[rec.weekday] = filterID(s.weekdayIndex[rec.weekday], id)
	}

	metrics.StoredSessions.WithLabelValues(s.mentorUsername).Set(float64(len(s.sessions)))
}

func filterID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

// writeThroughLocked pushes the current indices into the externally-owned
// MentorResponse snapshot so a dashboard reload sees the mutation. Missing
// profile or snapshot is a silent skip.
func (s *SessionStore) writeThroughLocked() {
	if s.profile == nil {
		return
	}
	s.profile.ApplySessionIndices(s.sessionsByDateLocked(), s.sessionsByDayOfWeekLocked())
}

func (s *SessionStore) sessionsByDateLocked() models.SessionsByDate {
	out := make(models.SessionsByDate, len(s.dateIndex))
	for date, ids := range s.dateIndex {
		bucket := make([]models.MentorshipSession, 0, len(ids))
		for _, id := range ids {
			if rec, ok := s.sessions[id]; ok {
				bucket = append(bucket, rec.session)
			}
		}
		out[date] = bucket
	}
	return out
}

func (s *SessionStore) sessionsByDayOfWeekLocked() models.SessionsByDayOfWeek {
	out := make(models.SessionsByDayOfWeek, len(s.weekdayIndex))
	for weekday, ids := range s.weekdayIndex {
		bucket := make([]models.MentorshipSession, 0, len(ids))
		for _, id := range ids {
			if rec, ok := s.sessions[id]; ok {
				bucket = append(bucket, rec.session)
			}
		}
		out[weekday] = bucket
	}
	return out
}

// SessionsByDate returns the by-date view
func (s *SessionStore) SessionsByDate() models.SessionsByDate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsByDateLocked()
}

// SessionsByDayOfWeek returns the by-weekday view
func (s *SessionStore) SessionsByDayOfWeek() models.SessionsByDayOfWeek {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsByDayOfWeekLocked()
}

// CalendarMeetings returns the calendar projection of all dated sessions
func (s *SessionStore) CalendarMeetings() []models.CalendarMeeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CalendarMeeting, 0, len(s.calendar))
	for _, meeting := range s.calendar {
		out = append(out, meeting)
	}
	return out
}

// CalendarMeeting looks up the calendar entry for one session
func (s *SessionStore) CalendarMeeting(id string) (models.CalendarMeeting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meeting, ok := s.calendar[id]
	return meeting, ok
}

// Session looks up a session by id
func (s *SessionStore) Session(id string) (models.MentorshipSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok {
		return models.MentorshipSession{}, false
	}
	return rec.session, true
}

// Modal returns the current modal state
func (s *SessionStore) Modal() ModalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// ActionLoading reports whether a session operation is in flight
func (s *SessionStore) ActionLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionLoading
}

// ActionError returns the error string shown in the open modal, if any
func (s *SessionStore) ActionError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actionError
}

// OpenEditModal opens the edit dialog pre-populated from the selected
// session. Unknown ids are silently ignored.
func (s *SessionStore) OpenEditModal(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		logger.Debug("Edit modal requested for unknown session", zap.String("session_id", sessionID))
		return
	}

	s.modal = ModalState{
		Kind:      ModalEdit,
		Open:      true,
		SessionID: sessionID,
		Edit: EditForm{
			StartTime: rec.session.StartTime,
			EndTime:   rec.session.EndTime,
		},
	}
	s.actionError = ""
}

// OpenAddModal opens the add dialog with default form values
func (s *SessionStore) OpenAddModal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modal = ModalState{Kind: ModalAdd, Open: true}
	s.actionError = ""
}

// OpenCancelModal opens the cancel confirmation dialog for a session
func (s *SessionStore) OpenCancelModal(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		logger.Debug("Cancel modal requested for unknown session", zap.String("session_id", sessionID))
		return
	}

	s.modal = ModalState{Kind: ModalCancel, Open: true, SessionID: sessionID}
	s.actionError = ""
}

// CloseModal closes whichever modal is open and clears the error slot
func (s *SessionStore) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.modal = ModalState{}
	s.actionError = ""
}

// AddNewSession validates the booking window, submits the add to the
// platform, and on success applies the session to all indices and closes the
// add modal. On failure the modal stays open with the error slot set.
func (s *SessionStore) AddNewSession(ctx context.Context, form AddForm) error {
	s.mu.Lock()
	if s.manager == nil {
		s.mu.Unlock()
		logger.Warn("Session manager missing, add ignored", zap.String("mentor", s.mentorUsername))
		return nil
	}

	if err := s.validateBookingDateLocked(form.Date); err != nil {
		s.actionError = msgDateOutside
		s.mu.Unlock()
		metrics.SessionValidationRejections.WithLabelValues("booking_window").Inc()
		return err
	}

	s.actionLoading = true
	s.actionError = ""
	s.mu.Unlock()

	session, err := s.manager.AddNewSession(ctx, s.mentorUsername,
		form.Date, form.StartTime, form.EndTime, form.MenteeUsername, form.MenteeFullName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionLoading = false

	if err != nil {
		s.actionError = msgAddFailed
		metrics.SessionMutations.WithLabelValues("add", "error").Inc()
		return err
	}

	wireDate, convErr := dateutil.ISOToDDMMYYYY(form.Date)
	if convErr != nil {
		// The manager already validated the date; this cannot normally fail
		s.actionError = msgAddFailed
		return convErr
	}

	s.insertLocked(*session, wireDate)
	s.writeThroughLocked()
	s.closeModalIfLocked(ModalAdd)
	metrics.SessionMutations.WithLabelValues("add", "success").Inc()
	return nil
}

// UpdateSession submits a time-range change and on success replaces the
// session in place across all indices and closes the edit modal
func (s *SessionStore) UpdateSession(ctx context.Context, sessionID string, form EditForm) error {
	s.mu.Lock()
	if s.manager == nil {
		s.mu.Unlock()
		logger.Warn("Session manager missing, update ignored", zap.String("mentor", s.mentorUsername))
		return nil
	}
	s.actionLoading = true
	s.actionError = ""
	s.mu.Unlock()

	updated, err := s.manager.UpdateSessionSchedule(ctx, sessionID, form.StartTime, form.EndTime)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionLoading = false

	if err != nil {
		s.actionError = msgUpdateFailed
		metrics.SessionMutations.WithLabelValues("update", "error").Inc()
		return err
	}

	s.replaceLocked(*updated)
	s.writeThroughLocked()
	s.closeModalIfLocked(ModalEdit)
	metrics.SessionMutations.WithLabelValues("update", "success").Inc()
	return nil
}

// CancelSession permanently cancels a session and filters it out of every
// bucket. Cancelling an already-removed session leaves state untouched.
func (s *SessionStore) CancelSession(ctx context.Context, sessionID string) error {
	return s.cancel(ctx, sessionID, func(ctx context.Context) error {
		return s.manager.CancelSession(ctx, sessionID)
	})
}

// CancelRecurringSession cancels one occurrence of a recurring series. The
// local indices drop the session either way; the series itself lives on the
// platform side.
func (s *SessionStore) CancelRecurringSession(ctx context.Context, sessionID string, dayOfWeek dateutil.DayOfWeek) error {
	return s.cancel(ctx, sessionID, func(ctx context.Context) error {
		return s.manager.CancelRecurringSession(ctx, sessionID, dayOfWeek)
	})
}

func (s *SessionStore) cancel(ctx context.Context, sessionID string, submit func(context.Context) error) error {
	s.mu.Lock()
	if s.manager == nil {
		s.mu.Unlock()
		logger.Warn("Session manager missing, cancel ignored", zap.String("mentor", s.mentorUsername))
		return nil
	}
	s.actionLoading = true
	s.actionError = ""
	s.mu.Unlock()

	err := submit(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionLoading = false

	if err != nil {
		s.actionError = msgCancelFailed
		metrics.SessionMutations.WithLabelValues("cancel", "error").Inc()
		return err
	}

	s.removeLocked(sessionID)
	s.writeThroughLocked()
	s.closeModalIfLocked(ModalCancel)
	metrics.SessionMutations.WithLabelValues("cancel", "success").Inc()
	return nil
}

// closeModalIfLocked closes the modal when the finished operation matches the
// open dialog kind
func (s *SessionStore) closeModalIfLocked(kind ModalKind) {
	if s.modal.Open && s.modal.Kind == kind {
		s.modal = ModalState{}
	}
	s.actionError = ""
}

// validateBookingDateLocked enforces the booking window: the picker date must
// fall between today and today+window, inclusive
func (s *SessionStore) validateBookingDateLocked(isoDate string) error {
	picked, err := time.Parse(dateutil.ISODateLayout, isoDate)
	if err != nil {
		return pkgerrors.ValidationError("date", "not a valid yyyy-mm-dd date")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	latest := today.AddDate(0, 0, s.bookingWindowDays)

	if picked.Before(today) {
		return pkgerrors.ValidationError("date", "date is in the past")
	}
	if picked.After(latest) {
		return pkgerrors.ValidationError("date", "date is beyond the booking window")
	}
	return nil
}
