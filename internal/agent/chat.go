package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samyuktha-jana/SAP-hackathon/internal/booking"
	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mentor"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/progress"
	"github.com/samyuktha-jana/SAP-hackathon/internal/ticket"

	"gorm.io/gorm"
)

// HistoryWindow is how many earlier turns the models see.
const HistoryWindow = 20

const (
	IntentTicket      = "ticket"
	IntentRaiseTicket = "raise_ticket"
	IntentBookings    = "bookings"
	IntentMentors     = "mentors"
	IntentTool        = "tool"
	IntentOnboarding  = "onboarding"
	IntentAgent       = "agent"
	IntentError       = "error"
)

const (
	msgAssistantDown = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."
	msgMentorList    = "Here are some mentors you can choose 👇"
	msgNoBookings    = "📭 You have no bookings yet."
	msgDescribeIssue = "Please describe the issue you want to raise a ticket for."
)

var completedRe = regexp.MustCompile(`(?i)i have completed (.+)`)

type Reply struct {
	Text            string         `json:"reply"`
	Intent          string         `json:"intent"`
	TicketID        string         `json:"ticket_id,omitempty"`
	Mentors         []mentor.Match `json:"mentors,omitempty"`
	ModuleCompleted string         `json:"module_completed,omitempty"`
}

type Chat struct {
	db         *gorm.DB
	agent      *MentorAgent
	onboarding *Onboarding
	tickets    *ticket.Service
	sessions   *booking.Service
	progress   *progress.Service
	log        logger.ILogger
}

func NewChat(db *gorm.DB, agent *MentorAgent, onboarding *Onboarding, tickets *ticket.Service,
	sessions *booking.Service, prog *progress.Service, log logger.ILogger) *Chat {
	return &Chat{
		db:         db,
		agent:      agent,
		onboarding: onboarding,
		tickets:    tickets,
		sessions:   sessions,
		progress:   prog,
		log:        log,
	}
}

// Handle answers one user message and records both sides of the turn.
func (c *Chat) Handle(ctx context.Context, userEmail, text string) (*Reply, error) {
	userEmail = strings.ToLower(strings.TrimSpace(userEmail))
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty message")
	}

	history, err := c.History(ctx, userEmail, HistoryWindow)
	if err != nil {
		return nil, err
	}
	if err := c.save(ctx, userEmail, models.ChatRoleUser, text); err != nil {
		return nil, err
	}

	reply := c.route(ctx, userEmail, text, history)

	if m := completedRe.FindStringSubmatch(text); m != nil {
		module := strings.TrimRight(strings.TrimSpace(m[1]), ".")
		if err := c.progress.CompleteModule(ctx, userEmail, module); err != nil {
			c.log.Warn("chat", "mark module complete failed", map[string]interface{}{"user": userEmail, "error": err})
		} else {
			reply.ModuleCompleted = module
		}
	}

	if err := c.save(ctx, userEmail, models.ChatRoleAssistant, reply.Text); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Chat) route(ctx context.Context, email, text string, history []models.ChatMessage) *Reply {
	if issue, ok := ticket.ParseRaise(text); ok {
		return c.raiseTicket(ctx, email, issue)
	}

	if ticket.DetectIntent(text) {
		id := ticket.ExtractID(text)
		if id != "" {
			return &Reply{Intent: IntentTicket, TicketID: id,
				Text: fmt.Sprintf("I noticed ticket **#%s**. Open your **MyTickets** page?", id)}
		}
		return &Reply{Intent: IntentTicket, Text: "You mentioned tickets/helpdesk. Open your **MyTickets** page?"}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "my bookings") || strings.Contains(lower, "past bookings") {
		return c.bookings(ctx, email)
	}

	return c.ask(ctx, email, text, history)
}

func (c *Chat) raiseTicket(ctx context.Context, email, issue string) *Reply {
	if issue == "" {
		return &Reply{Intent: IntentRaiseTicket, Text: msgDescribeIssue}
	}
	t, err := c.tickets.Create(ctx, ticket.CreateInput{
		Title:          issue,
		Description:    issue,
		RequesterEmail: email,
	})
	if err != nil {
		c.log.Error("chat", "raise ticket failed", map[string]interface{}{"user": email, "error": err})
		return &Reply{Intent: IntentError, Text: "❌ Failed to raise ticket. Please try again from MyTickets."}
	}
	return &Reply{
		Intent:   IntentRaiseTicket,
		TicketID: t.Ref(),
		Text: fmt.Sprintf("✅ Ticket raised successfully!\nTicket ID: %s\nIssue: %s\nYou can track this in MyTickets.",
			t.Ref(), issue),
	}
}

func (c *Chat) bookings(ctx context.Context, email string) *Reply {
	list, err := c.sessions.AsMentee(ctx, email)
	if err != nil {
		c.log.Error("chat", "list bookings failed", map[string]interface{}{"user": email, "error": err})
		return &Reply{Intent: IntentError, Text: msgAssistantDown}
	}
	if len(list) == 0 {
		return &Reply{Intent: IntentBookings, Text: msgNoBookings}
	}
	lines := []string{"📅 Here are your bookings:"}
	for _, b := range list {
		lines = append(lines, fmt.Sprintf("- With **%s** (%s) on %s → %s at %s (Status: %s)",
			b.MentorName, b.MentorEmail,
			b.StartAt.UTC().Format("2006-01-02 15:04"), b.EndAt.UTC().Format("2006-01-02 15:04"),
			b.Location, b.Status))
	}
	return &Reply{Intent: IntentBookings, Text: strings.Join(lines, "\n")}
}

// ask runs the mentor agent; plain-text agent answers yield to the
// onboarding assistant unless it has nothing useful to say.
func (c *Chat) ask(ctx context.Context, email, text string, history []models.ChatMessage) *Reply {
	msgs := make([]llm.Message, 0, len(history))
	lines := make([]string, 0, len(history))
	for _, h := range history {
		if h.Role == models.ChatRoleUser {
			msgs = append(msgs, llm.Message{Role: llm.RoleUser, Text: h.Message})
			lines = append(lines, "You: "+h.Message)
		} else {
			msgs = append(msgs, llm.Message{Role: llm.RoleModel, Text: h.Message})
			lines = append(lines, "Bot: "+h.Message)
		}
	}

	ar, err := c.agent.Run(ctx, email, msgs, text)
	if err != nil {
		c.log.Error("chat", "mentor agent failed", map[string]interface{}{"user": email, "error": err})
		return &Reply{Intent: IntentError, Text: msgAssistantDown}
	}
	if ar.Result != nil {
		if len(ar.Result.Mentors) > 0 {
			return &Reply{Intent: IntentMentors, Text: msgMentorList, Mentors: ar.Result.Mentors}
		}
		return &Reply{Intent: IntentTool, Text: ar.Result.Text}
	}

	if c.onboarding != nil {
		answer, err := c.onboarding.Answer(ctx, lines, text)
		if err != nil {
			c.log.Warn("chat", "onboarding assistant failed", map[string]interface{}{"user": email, "error": err})
		} else if answer != "" && !IsFallback(answer) {
			return &Reply{Intent: IntentOnboarding, Text: answer}
		}
	}
	if ar.Text == "" {
		return &Reply{Intent: IntentError, Text: msgAssistantDown}
	}
	return &Reply{Intent: IntentAgent, Text: ar.Text}
}

func (c *Chat) save(ctx context.Context, email, role, text string) error {
	m := models.ChatMessage{UserEmail: email, Role: role, Message: text}
	if err := c.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("save chat message: %w", err)
	}
	return nil
}

// History returns the user's last limit messages, oldest first.
func (c *Chat) History(ctx context.Context, email string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []models.ChatMessage
	err := c.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(email)).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ClearHistory deletes the user's conversation and returns how many
// messages were removed.
func (c *Chat) ClearHistory(ctx context.Context, email string) (int64, error) {
	res := c.db.WithContext(ctx).Where("user_email = ?", strings.ToLower(email)).Delete(&models.ChatMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear chat history: %w", res.Error)
	}
	return res.RowsAffected, nil
}
