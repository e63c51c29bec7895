package events

import "time"

// SessionEvent is published on every session status change.
type SessionEvent struct {
	SessionID   uint      `json:"session_id"`
	Status      string    `json:"status"`
	MenteeEmail string    `json:"mentee_email"`
	MentorEmail string    `json:"mentor_email"`
	MentorName  string    `json:"mentor_name,omitempty"`
	Start       time.Time `json:"start_utc"`
	End         time.Time `json:"end_utc"`
	Location    string    `json:"location,omitempty"`
	ICSPath     string    `json:"ics_path,omitempty"`
}

type TicketEvent struct {
	TicketID       uint   `json:"ticket_id"`
	Ref            string `json:"ref"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	RequesterEmail string `json:"requester_email"`
	AssigneeEmail  string `json:"assignee_email,omitempty"`
}
