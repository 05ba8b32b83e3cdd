package store

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/pkg/logger"
	"go.uber.org/zap"
)

// PlatformClient is the full platform API surface a dashboard session needs:
// session mutations plus the profile snapshot fetches that hydrate the
// mentor, mentee, and admin stores.
type PlatformClient interface {
	SessionManager
	FetchMentorProfile(ctx context.Context) (*models.MentorResponse, error)
	FetchMenteeProfile(ctx context.Context) (*models.MenteeResponse, error)
	FetchAdminData(ctx context.Context) (*models.AdminData, error)
}

// DashboardSession bundles the stateful pieces of one user's dashboard
// session: the platform client bound to their credential, the role-scoped
// profile snapshot stores, and the session store seeded from the mentor
// snapshot. Stores for roles the user never exercises simply stay empty.
type DashboardSession struct {
	Manager SessionManager
	Profile *MentorProfileStore
	Mentee  *MenteeProfileStore
	Admin   *AdminStore
	Store   *SessionStore
}

// Registry holds dashboard sessions keyed by username. Entries live in a TTL
// cache with sliding expiry, standing in for the browser session that scoped
// this state in the original dashboard.
type Registry struct {
	mu       sync.Mutex
	sessions *gocache.Cache
	ttl      time.Duration

	ttlSeconds        int
	bookingWindowDays int
	newClient         func(credential string) PlatformClient
}

// NewRegistry creates a registry. newClient builds a platform client bound
// to one credential.
func NewRegistry(ttlSeconds, bookingWindowDays int, newClient func(credential string) PlatformClient) *Registry {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &Registry{
		sessions:          gocache.New(ttl, cacheCheckPeriod),
		ttl:               ttl,
		ttlSeconds:        ttlSeconds,
		bookingWindowDays: bookingWindowDays,
		newClient:         newClient,
	}
}

// GetOrCreate returns the user's dashboard session, creating one on first
// access. A changed credential replaces the session wholesale: state built
// under an old login must not leak into a new one.
func (r *Registry) GetOrCreate(username, credential string) *DashboardSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, found := r.sessions.Get(username); found {
		if session, ok := data.(*DashboardSession); ok && session.Profile.Credential() == credential {
			// Sliding expiry: touching the session keeps it alive
			r.sessions.Set(username, session, r.ttl)
			return session
		}
		logger.Info("Replacing dashboard session for new credential",
			zap.String("user", username))
	}

	client := r.newClient(credential)
	profile := NewMentorProfileStore(credential, r.ttlSeconds, client.FetchMentorProfile)
	session := &DashboardSession{
		Manager: client,
		Profile: profile,
		Mentee:  NewMenteeProfileStore(credential, r.ttlSeconds, client.FetchMenteeProfile),
		Admin:   NewAdminStore(credential, r.ttlSeconds, client.FetchAdminData),
		Store:   NewSessionStore(username, client, profile, WithBookingWindow(r.bookingWindowDays)),
	}

	r.sessions.Set(username, session, r.ttl)
	return session
}

// Drop removes a user's dashboard session (logout). Every store clears its
// credential and snapshot before the entry is discarded.
func (r *Registry) Drop(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, found := r.sessions.Get(username); found {
		if session, ok := data.(*DashboardSession); ok {
			session.Profile.Clear()
			session.Mentee.Clear()
			session.Admin.Clear()
		}
	}
	r.sessions.Delete(username)
}
