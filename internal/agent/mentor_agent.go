package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
)

const mentorSystemPrompt = `You are MentorMatch Agent.

RULES:
- If the user asks about mentors, skills, teams, or availability, always call search_with_availability.
- If the user asks to book a session, call create_session_request.
- If the user asks to approve, call approve_session.
- If the user asks about bookings, meetings, or sessions (past, present, or future), always call meetings_in.

The logged-in user is %s. Tools act on behalf of this user automatically.
Today is %s (UTC).

Usage for meetings_in:
- General requests with no date: call it without days_offset to list all upcoming sessions.
- Relative dates ("today", "tomorrow", "yesterday", "next week") or calendar dates: compute the offset in days from today and pass days_offset.

Never answer bookings or meetings questions yourself; always use meetings_in.
Never refuse a mentor query.
For non-mentorship questions, answer conversationally.`

// AgentReply is either a tool result (returned to the user as is) or the
// model's own text.
type AgentReply struct {
	Text   string
	Result *ToolResult
}

// MentorAgent lets the model pick one tool per turn; the tool output is the
// answer.
type MentorAgent struct {
	model llm.ChatModel
	tools *Toolbox
	now   func() time.Time
}

func NewMentorAgent(model llm.ChatModel, tools *Toolbox) *MentorAgent {
	return &MentorAgent{model: model, tools: tools, now: time.Now}
}

func (a *MentorAgent) Run(ctx context.Context, userEmail string, history []llm.Message, input string) (*AgentReply, error) {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Text: input})

	resp, err := a.model.Generate(ctx, llm.GenerateRequest{
		System:      fmt.Sprintf(mentorSystemPrompt, userEmail, a.now().UTC().Format("2006-01-02 (Monday)")),
		Messages:    msgs,
		Tools:       Declarations(),
		Temperature: 0.2,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, fmt.Errorf("mentor agent: %w", err)
	}
	if resp.Call == nil {
		return &AgentReply{Text: strings.TrimSpace(resp.Text)}, nil
	}

	res, err := a.tools.Run(ctx, userEmail, *resp.Call)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", resp.Call.Name, err)
	}
	return &AgentReply{Text: res.Text, Result: res}, nil
}
