package store

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/pkg/metrics"
	"github.com/mentorbridge/dashboard-api/pkg/retry"
)

// Profile stores cache the coarse server snapshots fetched on login. The
// snapshot lives in a TTL cache mirroring browser session storage: a reload
// within the window does not force a re-fetch, expiry clears it like a
// closed tab. The credential is held in a plain field, in memory only, and
// is never written into the cache.

const (
	mentorSnapshotKey = "mentor:snapshot"
	menteeSnapshotKey = "mentee:snapshot"
	adminSnapshotKey  = "admin:snapshot"

	cacheCheckPeriod = 30 * time.Second
)

// MentorProfileStore caches one mentor's MentorResponse snapshot
type MentorProfileStore struct {
	mu         sync.RWMutex
	credential string
	cache      *gocache.Cache
	ttl        time.Duration
	fetch      func(ctx context.Context) (*models.MentorResponse, error)
}

// NewMentorProfileStore creates a profile store. fetch may be nil when the
// snapshot is only ever pushed in via SetSnapshot.
func NewMentorProfileStore(credential string, ttlSeconds int, fetch func(ctx context.Context) (*models.MentorResponse, error)) *MentorProfileStore {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &MentorProfileStore{
		credential: credential,
		cache:      gocache.New(ttl, cacheCheckPeriod),
		ttl:        ttl,
		fetch:      fetch,
	}
}

// Credential returns the opaque Authorization header value
func (s *MentorProfileStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetSnapshot replaces the cached snapshot wholesale
func (s *MentorProfileStore) SetSnapshot(snapshot *models.MentorResponse) {
	s.cache.Set(mentorSnapshotKey, snapshot, s.ttl)
}

// Snapshot returns the cached snapshot, if still live
func (s *MentorProfileStore) Snapshot() (*models.MentorResponse, bool) {
	data, found := s.cache.Get(mentorSnapshotKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_snapshot").Inc()
		return nil, false
	}

	snapshot, ok := data.(*models.MentorResponse)
	if !ok {
		s.cache.Delete(mentorSnapshotKey)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentor_snapshot").Inc()
	return snapshot, true
}

// Refresh replaces the snapshot from the platform, with backoff on transient
// failures. Session mutations never pass through here.
func (s *MentorProfileStore) Refresh(ctx context.Context) error {
	if s.fetch == nil {
		return nil
	}

	snapshot, err := retry.DoWithResult(ctx, retry.SnapshotConfig(), "refresh_mentor_snapshot", func() (*models.MentorResponse, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("mentor", "error").Inc()
		return err
	}

	s.SetSnapshot(snapshot)
	metrics.SnapshotRefreshes.WithLabelValues("mentor", "success").Inc()
	return nil
}

// ApplySessionIndices write-throughs the session store's indices into the
// snapshot. A missing snapshot is a silent skip: the next login re-fetches.
func (s *MentorProfileStore) ApplySessionIndices(byDate models.SessionsByDate, byWeekday models.SessionsByDayOfWeek) {
	snapshot, ok := s.Snapshot()
	if !ok {
		return
	}

	snapshot.SessionsByDate = byDate
	snapshot.SessionsByDayOfWeek = byWeekday
	s.SetSnapshot(snapshot)
}

// Clear drops the credential and the snapshot (logout)
func (s *MentorProfileStore) Clear() {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
	s.cache.Flush()
}

// MenteeProfileStore caches one mentee's MenteeResponse snapshot
type MenteeProfileStore struct {
	mu         sync.RWMutex
	credential string
	cache      *gocache.Cache
	ttl        time.Duration
	fetch      func(ctx context.Context) (*models.MenteeResponse, error)
}

// NewMenteeProfileStore creates a mentee profile store
func NewMenteeProfileStore(credential string, ttlSeconds int, fetch func(ctx context.Context) (*models.MenteeResponse, error)) *MenteeProfileStore {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &MenteeProfileStore{
		credential: credential,
		cache:      gocache.New(ttl, cacheCheckPeriod),
		ttl:        ttl,
		fetch:      fetch,
	}
}

// Credential returns the opaque Authorization header value
func (s *MenteeProfileStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetSnapshot replaces the cached snapshot wholesale
func (s *MenteeProfileStore) SetSnapshot(snapshot *models.MenteeResponse) {
	s.cache.Set(menteeSnapshotKey, snapshot, s.ttl)
}

// Snapshot returns the cached snapshot, if still live
func (s *MenteeProfileStore) Snapshot() (*models.MenteeResponse, bool) {
	data, found := s.cache.Get(menteeSnapshotKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentee_snapshot").Inc()
		return nil, false
	}

	snapshot, ok := data.(*models.MenteeResponse)
	if !ok {
		s.cache.Delete(menteeSnapshotKey)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentee_snapshot").Inc()
	return snapshot, true
}

// Refresh replaces the snapshot from the platform
func (s *MenteeProfileStore) Refresh(ctx context.Context) error {
	if s.fetch == nil {
		return nil
	}

	snapshot, err := retry.DoWithResult(ctx, retry.SnapshotConfig(), "refresh_mentee_snapshot", func() (*models.MenteeResponse, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("mentee", "error").Inc()
		return err
	}

	s.SetSnapshot(snapshot)
	metrics.SnapshotRefreshes.WithLabelValues("mentee", "success").Inc()
	return nil
}

// Clear drops the credential and the snapshot (logout)
func (s *MenteeProfileStore) Clear() {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
	s.cache.Flush()
}

// AdminStore caches the admin portal's AdminData snapshot and answers simple
// lookups over it. No eviction policy of its own: the whole snapshot is
// replaced on refresh and flushed on logout.
type AdminStore struct {
	mu         sync.RWMutex
	credential string
	cache      *gocache.Cache
	ttl        time.Duration
	fetch      func(ctx context.Context) (*models.AdminData, error)
}

// NewAdminStore creates an admin store
func NewAdminStore(credential string, ttlSeconds int, fetch func(ctx context.Context) (*models.AdminData, error)) *AdminStore {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &AdminStore{
		credential: credential,
		cache:      gocache.New(ttl, cacheCheckPeriod),
		ttl:        ttl,
		fetch:      fetch,
	}
}

// Credential returns the opaque Authorization header value
func (s *AdminStore) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetSnapshot replaces the cached snapshot wholesale
func (s *AdminStore) SetSnapshot(snapshot *models.AdminData) {
	s.cache.Set(adminSnapshotKey, snapshot, s.ttl)
}

// Snapshot returns the cached snapshot, if still live
func (s *AdminStore) Snapshot() (*models.AdminData, bool) {
	data, found := s.cache.Get(adminSnapshotKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("admin_snapshot").Inc()
		return nil, false
	}

	snapshot, ok := data.(*models.AdminData)
	if !ok {
		s.cache.Delete(adminSnapshotKey)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("admin_snapshot").Inc()
	return snapshot, true
}

// Refresh replaces the snapshot from the platform
func (s *AdminStore) Refresh(ctx context.Context) error {
	if s.fetch == nil {
		return nil
	}

	snapshot, err := retry.DoWithResult(ctx, retry.SnapshotConfig(), "refresh_admin_snapshot", func() (*models.AdminData, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("admin", "error").Inc()
		return err
	}

	s.SetSnapshot(snapshot)
	metrics.SnapshotRefreshes.WithLabelValues("admin", "success").Inc()
	return nil
}

// GetCourseGroups returns the mentorship groups of a course, or nil when the
// course is unknown or no snapshot is cached
func (s *AdminStore) GetCourseGroups(courseName string) []string {
	snapshot, ok := s.Snapshot()
	if !ok {
		return nil
	}

	for _, course := range snapshot.Courses {
		if course.Name == courseName {
			return course.Groups
		}
	}
	return nil
}

// GetMentorUsernameByPhone looks a mentor up by phone number
func (s *AdminStore) GetMentorUsernameByPhone(phone string) (string, bool) {
	snapshot, ok := s.Snapshot()
	if !ok {
		return "", false
	}

	for _, mentor := range snapshot.Mentors {
		if mentor.Phone == phone {
			return mentor.Username, true
		}
	}
	return "", false
}

// Clear drops the credential and the snapshot (logout)
func (s *AdminStore) Clear() {
	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()
	s.cache.Flush()
}
