package models

import (
	"fmt"
	"time"
)

const (
	TicketNew           = "NEW"
	TicketTriaged       = "TRIAGED"
	TicketInProgress    = "IN_PROGRESS"
	TicketWaitingOnUser = "WAITING_ON_USER"
	TicketResolved      = "RESOLVED"
	TicketClosed        = "CLOSED"
)

var TicketStatuses = []string{TicketNew, TicketTriaged, TicketInProgress, TicketWaitingOnUser, TicketResolved, TicketClosed}

var TicketPriorities = []string{"P1", "P2", "P3", "P4"}

// Ticket is an IT/HR/ops helpdesk request.
type Ticket struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	Status         string    `gorm:"size:24;index;not null" json:"status"`
	Priority       string    `gorm:"size:4;not null" json:"priority"`
	Category       string    `gorm:"size:64;index;not null" json:"category"`
	RequesterEmail string    `gorm:"size:255;index;not null" json:"requester_email"`
	AssigneeEmail  string    `gorm:"size:255;index" json:"assignee_email"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Ref is the human facing ticket number, e.g. TCK-0042.
func (t Ticket) Ref() string {
	return fmt.Sprintf("TCK-%04d", t.ID)
}

// Open reports whether the ticket still needs work.
func (t Ticket) Open() bool {
	return t.Status != TicketResolved && t.Status != TicketClosed
}
