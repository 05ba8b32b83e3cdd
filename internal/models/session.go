package models

import (
	"github.com/mentorbridge/dashboard-api/pkg/dateutil"
)

// SessionType distinguishes one-off, recurring, and group sessions
type SessionType string

const (
	SessionTypeAdHoc     SessionType = "AD_HOC"
	SessionTypeRecurring SessionType = "RECURRING"
	SessionTypeGroup     SessionType = "GROUP"
)

// Recurrence is the repeat pattern of a recurring schedule
type Recurrence string

const (
	RecurrenceWeekly   Recurrence = "WEEKLY"
	RecurrenceBiWeekly Recurrence = "BI_WEEKLY"
)

// UpdateType is the mutation kind carried by a SessionUpdate envelope
type UpdateType string

const (
	UpdateTypeAdd    UpdateType = "ADD"
	UpdateTypeDelete UpdateType = "DELETE"
	UpdateTypeUpdate UpdateType = "UPDATE"
)

// MentorshipSession is a scheduled session between a mentor and a mentee.
// Identity is the ID; the platform API assigns it on creation.
type MentorshipSession struct {
	ID             string      `json:"id"`
	MenteeFullName string      `json:"menteeFullName"`
	MenteeUsername string      `json:"menteeUsername"`
	ZoomLink       string      `json:"zoomLink"`
	StartTime      string      `json:"startTime"`
	EndTime        string      `json:"endTime"`
	MentorUsername string      `json:"mentorUsername"`
	MentorName     string      `json:"mentorName"`
	SessionType    SessionType `json:"sessionType"`
	Recurrence     Recurrence  `json:"recurrence,omitempty"`
}

// SessionsByDate maps dd/mm/yyyy date strings to the sessions on that date.
// A session id appears in at most one list; the union across all dates is the
// authoritative session set for a mentor.
type SessionsByDate map[string][]MentorshipSession

// SessionsByDayOfWeek maps weekdays to the recurring sessions anchored there.
// It is a denormalized index over the same session entities as SessionsByDate
// and must stay consistent with it on every mutation.
type SessionsByDayOfWeek map[dateutil.DayOfWeek][]MentorshipSession

// CalendarMeeting is the calendar-display projection of a session. It is
// regenerated on every write path, never independently mutated.
type CalendarMeeting struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	MenteeUsername string `json:"menteeUsername"`
	ZoomLink       string `json:"zoomLink"`
}

// ToCalendarMeeting projects a session onto its calendar-display shape
func (s MentorshipSession) ToCalendarMeeting(date string) CalendarMeeting {
	return CalendarMeeting{
		ID:             s.ID,
		Title:          s.MenteeFullName,
		Date:           date,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		MenteeUsername: s.MenteeUsername,
		ZoomLink:       s.ZoomLink,
	}
}

// SessionUpdate is the mutation envelope consumed by the platform session
// endpoints. Dates travel strictly as dd/mm/yyyy. IsPermanentUpdate
// distinguishes deleting a whole series from cancelling one occurrence.
type SessionUpdate struct {
	ID                string             `json:"id,omitempty"`
	Date              string             `json:"date,omitempty"`
	MenteeUsername    string             `json:"menteeUsername,omitempty"`
	MenteeFullName    string             `json:"menteeFullName,omitempty"`
	MentorUsername    string             `json:"mentorUsername,omitempty"`
	UpdateType        UpdateType         `json:"updateType"`
	IsPermanentUpdate bool               `json:"isPermanentUpdate"`
	StartTime         string             `json:"startTime,omitempty"`
	EndTime           string             `json:"endTime,omitempty"`
	SessionType       SessionType        `json:"sessionType,omitempty"`
	DayOfWeek         dateutil.DayOfWeek `json:"dayOfWeek,omitempty"`
}

// MenteeIdentifier identifies a mentee in the mentor's dropdown list
type MenteeIdentifier struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// GroupMentorshipSession is a group session scoped to a course+group pair
type GroupMentorshipSession struct {
	ID        string             `json:"id,omitempty"`
	Course    string             `json:"course"`
	Group     string             `json:"group"`
	DayOfWeek dateutil.DayOfWeek `json:"dayOfWeek"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	ZoomLink  string             `json:"zoomLink,omitempty"`
}

// GroupSessionsPayload is the bulk-create body for group sessions
type GroupSessionsPayload struct {
	Sessions []GroupMentorshipSession `json:"sessions"`
}

// GroupSessionIDsPayload is the bulk-delete body for group sessions
type GroupSessionIDsPayload struct {
	SessionIDs []string `json:"sessionIds"`
}
