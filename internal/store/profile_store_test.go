package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorbridge/dashboard-api/internal/models"
	"github.com/mentorbridge/dashboard-api/internal/store"
)

func TestMentorProfileStore_SnapshotLifecycle(t *testing.T) {
	profile := store.NewMentorProfileStore("Basic abc", 1800, nil)

	_, ok := profile.Snapshot()
	assert.False(t, ok, "no snapshot before login fetch")

	profile.SetSnapshot(&models.MentorResponse{MentorUsername: "mentor1"})
	snapshot, ok := profile.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "mentor1", snapshot.MentorUsername)

	// Wholesale replacement
	profile.SetSnapshot(&models.MentorResponse{MentorUsername: "mentor1", MentorName: "Renamed"})
	snapshot, _ = profile.Snapshot()
	assert.Equal(t, "Renamed", snapshot.MentorName)

	profile.Clear()
	_, ok = profile.Snapshot()
	assert.False(t, ok)
	assert.Empty(t, profile.Credential())
}

func TestMentorProfileStore_Refresh(t *testing.T) {
	fetched := &models.MentorResponse{MentorUsername: "mentor1", MentorName: "Fresh"}
	profile := store.NewMentorProfileStore("Basic abc", 1800, func(ctx context.Context) (*models.MentorResponse, error) {
		return fetched, nil
	})

	require.NoError(t, profile.Refresh(context.Background()))

	snapshot, ok := profile.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Fresh", snapshot.MentorName)
}

func TestMentorProfileStore_ApplySessionIndicesWithoutSnapshot(t *testing.T) {
	profile := store.NewMentorProfileStore("Basic abc", 1800, nil)

	// Silent skip: nothing to patch before login
	profile.ApplySessionIndices(models.SessionsByDate{}, models.SessionsByDayOfWeek{})

	_, ok := profile.Snapshot()
	assert.False(t, ok)
}

func TestAdminStore_Lookups(t *testing.T) {
	admin := store.NewAdminStore("Basic admin", 1800, nil)
	admin.SetSnapshot(&models.AdminData{
		Mentors: []models.MentorSummary{
			{Username: "mentor1", Name: "Mentor One", Phone: "+10000000001"},
			{Username: "mentor2", Name: "Mentor Two", Phone: "+10000000002"},
		},
		Courses: []models.Course{
			{Name: "go-101", Groups: []string{"group-a", "group-b"}},
		},
	})

	groups := admin.GetCourseGroups("go-101")
	assert.Equal(t, []string{"group-a", "group-b"}, groups)
	assert.Nil(t, admin.GetCourseGroups("rust-101"))

	username, ok := admin.GetMentorUsernameByPhone("+10000000002")
	require.True(t, ok)
	assert.Equal(t, "mentor2", username)

	_, ok = admin.GetMentorUsernameByPhone("+19999999999")
	assert.False(t, ok)

	admin.Clear()
	assert.Nil(t, admin.GetCourseGroups("go-101"))
}

func TestMenteeProfileStore_Lifecycle(t *testing.T) {
	mentee := store.NewMenteeProfileStore("Basic mentee", 1800, nil)

	mentee.SetSnapshot(&models.MenteeResponse{Username: "mentee1", MentorUsername: "mentor1"})
	snapshot, ok := mentee.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "mentor1", snapshot.MentorUsername)

	mentee.Clear()
	_, ok = mentee.Snapshot()
	assert.False(t, ok)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	clients := 0
	registry := store.NewRegistry(1800, 14, func(credential string) store.PlatformClient {
		clients++
		return new(MockSessionManager)
	})

	first := registry.GetOrCreate("mentor1", "Basic abc")
	second := registry.GetOrCreate("mentor1", "Basic abc")
	assert.Same(t, first, second, "same credential reuses the session")
	assert.Equal(t, 1, clients)

	third := registry.GetOrCreate("mentor1", "Basic other")
	assert.NotSame(t, first, third, "changed credential replaces the session")
	assert.Equal(t, 2, clients)

	registry.Drop("mentor1")
	fourth := registry.GetOrCreate("mentor1", "Basic other")
	assert.NotSame(t, third, fourth)
}

func TestRegistry_DropClearsEveryStore(t *testing.T) {
	registry := store.NewRegistry(1800, 14, func(credential string) store.PlatformClient {
		return new(MockSessionManager)
	})

	session := registry.GetOrCreate("mentor1", "Basic abc")
	session.Profile.SetSnapshot(&models.MentorResponse{MentorUsername: "mentor1"})
	session.Mentee.SetSnapshot(&models.MenteeResponse{Username: "mentee1"})
	session.Admin.SetSnapshot(&models.AdminData{})

	registry.Drop("mentor1")

	// Logout wipes credential and snapshots from every role store
	assert.Empty(t, session.Profile.Credential())
	assert.Empty(t, session.Mentee.Credential())
	assert.Empty(t, session.Admin.Credential())
	_, ok := session.Profile.Snapshot()
	assert.False(t, ok)
	_, ok = session.Mentee.Snapshot()
	assert.False(t, ok)
	_, ok = session.Admin.Snapshot()
	assert.False(t, ok)
}
