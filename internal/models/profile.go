package models

// MentorResponse is the coarse mentor snapshot fetched from the platform on
// login. It carries both session indices; the session store write-throughs
// into it so a dashboard reload within the session window sees mutations.
type MentorResponse struct {
	MentorUsername      string              `json:"mentorUsername"`
	MentorName          string              `json:"mentorName"`
	Phone               string              `json:"phone,omitempty"`
	Courses             []string            `json:"courses,omitempty"`
	SessionsByDate      SessionsByDate      `json:"sessionsByDate"`
	SessionsByDayOfWeek SessionsByDayOfWeek `json:"sessionsByDayOfWeek"`
}

// MenteeResponse is the coarse mentee snapshot fetched on login
type MenteeResponse struct {
	Username       string         `json:"username"`
	FullName       string         `json:"fullName"`
	Course         string         `json:"course,omitempty"`
	Group          string         `json:"group,omitempty"`
	MentorUsername string         `json:"mentorUsername,omitempty"`
	SessionsByDate SessionsByDate `json:"sessionsByDate"`
}

// MentorSummary is a directory entry in the admin snapshot
type MentorSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// Course groups mentees into mentorship groups
type Course struct {
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// AdminData is the coarse admin snapshot: fetched on login or on demand,
// replaced wholesale on refresh, cleared on logout.
type AdminData struct {
	Mentors []MentorSummary  `json:"mentors"`
	Mentees []MenteeResponse `json:"mentees,omitempty"`
	Courses []Course         `json:"courses"`
}
