package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mailer"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
)

// RegisterInviteMailer mails the ICS invite to both parties after approval.
func RegisterInviteMailer(ctx context.Context, b *Bus, m mailer.Mailer, log logger.ILogger) error {
	return b.Subscribe(ctx, TopicSessionApproved, func(ctx context.Context, payload []byte) error {
		var ev SessionEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("decode session event: %w", err)
		}

		subject := "Mentor Match Session"
		body := fmt.Sprintf("Your mentorship session is booked.\n\n%s → %s (UTC)\nLocation: %s\n",
			ev.Start.UTC().Format("2006-01-02 15:04"), ev.End.UTC().Format("2006-01-02 15:04"), ev.Location)
		if err := m.Send([]string{ev.MenteeEmail, ev.MentorEmail}, subject, body, ev.ICSPath); err != nil {
			return err
		}
		log.Info("events", "invite mailed", map[string]interface{}{"session_id": ev.SessionID})
		return nil
	})
}

// Notifier is the part of notification.Service the ticket subscriber uses.
type Notifier interface {
	Add(ctx context.Context, userEmail, message, icsPath string) (*models.Notification, error)
}

// RegisterTicketNotifier drops an inbox message for the requester (and the
// assignee, if any) when a ticket is created.
func RegisterTicketNotifier(ctx context.Context, b *Bus, n Notifier, log logger.ILogger) error {
	return b.Subscribe(ctx, TopicTicketCreated, func(ctx context.Context, payload []byte) error {
		var ev TicketEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("decode ticket event: %w", err)
		}
		msg := fmt.Sprintf("🎫 Ticket **%s** raised: %s (%s, %s)", ev.Ref, ev.Title, ev.Category, ev.Priority)
		if _, err := n.Add(ctx, ev.RequesterEmail, msg, ""); err != nil {
			return err
		}
		if ev.AssigneeEmail != "" && ev.AssigneeEmail != ev.RequesterEmail {
			if _, err := n.Add(ctx, ev.AssigneeEmail, "📥 Assigned to you: "+msg, ""); err != nil {
				return err
			}
		}
		log.Debug("events", "ticket notification stored", map[string]interface{}{"ticket_id": ev.TicketID})
		return nil
	})
}
