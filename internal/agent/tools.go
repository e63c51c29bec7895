// Package agent hosts the chat assistant: a Gemini function-calling agent
// over the mentorship tools, an onboarding Q&A assistant and the router
// that decides which of them answers.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/booking"
	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mentor"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
)

const (
	ToolSearch  = "search_with_availability"
	ToolRequest = "create_session_request"
	ToolApprove = "approve_session"
	ToolMeeting = "meetings_in"
)

// MentorFinder is the part of mentor.Service the tools use.
type MentorFinder interface {
	SearchWithAvailability(ctx context.Context, query string, now time.Time) ([]mentor.Match, error)
}

// Sessions is the part of booking.Service the tools use.
type Sessions interface {
	Create(ctx context.Context, req booking.CreateRequest) (*models.Session, error)
	Approve(ctx context.Context, sessionID uint, mentorEmail string) (*models.Session, error)
	MeetingsIn(ctx context.Context, email string, days *int) ([]booking.Booking, error)
}

// ToolResult is what a tool hands back to the user verbatim.
type ToolResult struct {
	Tool    string         `json:"tool"`
	Text    string         `json:"text"`
	Mentors []mentor.Match `json:"mentors,omitempty"`
}

// Toolbox executes the mentorship tools on behalf of a signed-in user.
// Identity always comes from the caller, never from model arguments.
type Toolbox struct {
	mentors  MentorFinder
	sessions Sessions
	now      func() time.Time
}

func NewToolbox(mentors MentorFinder, sessions Sessions) *Toolbox {
	return &Toolbox{mentors: mentors, sessions: sessions, now: time.Now}
}

// Declarations are the function schemas offered to the model.
func Declarations() []llm.FunctionDeclaration {
	return []llm.FunctionDeclaration{
		{
			Name:        ToolSearch,
			Description: "Find up to 3 mentors by role, skill or team and attach up to 3 free slots each.",
			Parameters: object(map[string]interface{}{
				"query": prop("string", "Role, skill or team the user is looking for."),
			}, "query"),
		},
		{
			Name:        ToolRequest,
			Description: "Request a mentorship session with a mentor for the current user.",
			Parameters: object(map[string]interface{}{
				"mentor_id":    prop("integer", "ID of the mentor from a previous search."),
				"mentor_email": prop("string", "E-mail of the mentor, used when the ID is unknown."),
				"start_utc":    prop("string", "Start time, RFC 3339 in UTC, e.g. 2025-09-12T09:00:00Z."),
				"end_utc":      prop("string", "End time, RFC 3339 in UTC."),
				"location":     prop("string", "Where to meet. Defaults to Teams."),
			}, "start_utc", "end_utc"),
		},
		{
			Name:        ToolApprove,
			Description: "Approve a pending session request as the current user (the mentor), create the calendar invite and notify both people.",
			Parameters: object(map[string]interface{}{
				"session_id": prop("integer", "ID of the requested session."),
			}, "session_id"),
		},
		{
			Name:        ToolMeeting,
			Description: "List the current user's sessions. Without days_offset all upcoming sessions; with it the sessions on today + days_offset (0 today, 1 tomorrow, -1 yesterday).",
			Parameters: object(map[string]interface{}{
				"days_offset": prop("integer", "Relative day offset from today."),
			}),
		},
	}
}

func object(props map[string]interface{}, required ...string) map[string]interface{} {
	o := map[string]interface{}{"type": "object", "properties": props}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

func prop(typ, desc string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": desc}
}

// Run executes one tool call for userEmail.
func (t *Toolbox) Run(ctx context.Context, userEmail string, call llm.FunctionCall) (*ToolResult, error) {
	switch call.Name {
	case ToolSearch:
		return t.search(ctx, argString(call.Args, "query"))
	case ToolRequest:
		return t.request(ctx, userEmail, call.Args), nil
	case ToolApprove:
		return t.approve(ctx, userEmail, call.Args), nil
	case ToolMeeting:
		var days *int
		if d, ok := argInt(call.Args, "days_offset"); ok {
			days = &d
		}
		return t.meetings(ctx, userEmail, days)
	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func (t *Toolbox) search(ctx context.Context, query string) (*ToolResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &ToolResult{Tool: ToolSearch, Text: "Tell me which role, skill or team you need a mentor for."}, nil
	}
	matches, err := t.mentors.SearchWithAvailability(ctx, query, t.now())
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &ToolResult{Tool: ToolSearch, Text: "😕 No mentors matched your request."}, nil
	}
	b, _ := json.Marshal(matches)
	return &ToolResult{Tool: ToolSearch, Text: string(b), Mentors: matches}, nil
}

func (t *Toolbox) request(ctx context.Context, userEmail string, args map[string]interface{}) *ToolResult {
	start, err1 := time.Parse(time.RFC3339, argString(args, "start_utc"))
	end, err2 := time.Parse(time.RFC3339, argString(args, "end_utc"))
	if err1 != nil || err2 != nil {
		return jsonResult(ToolRequest, map[string]interface{}{"ok": false, "error": "start_utc and end_utc must be RFC 3339 timestamps"})
	}
	req := booking.CreateRequest{
		MenteeEmail: userEmail,
		MentorEmail: argString(args, "mentor_email"),
		Start:       start,
		End:         end,
		Location:    argString(args, "location"),
	}
	if id, ok := argInt(args, "mentor_id"); ok && id > 0 {
		req.MentorID = uint(id)
	}
	sess, err := t.sessions.Create(ctx, req)
	if err != nil {
		return jsonResult(ToolRequest, map[string]interface{}{"ok": false, "error": err.Error()})
	}
	return jsonResult(ToolRequest, map[string]interface{}{"ok": true, "session_id": sess.ID, "status": sess.Status})
}

func (t *Toolbox) approve(ctx context.Context, userEmail string, args map[string]interface{}) *ToolResult {
	id, ok := argInt(args, "session_id")
	if !ok || id <= 0 {
		return jsonResult(ToolApprove, map[string]interface{}{"ok": false, "error": "session_id is required"})
	}
	sess, err := t.sessions.Approve(ctx, uint(id), userEmail)
	if err != nil {
		return jsonResult(ToolApprove, map[string]interface{}{"ok": false, "error": err.Error()})
	}
	return jsonResult(ToolApprove, map[string]interface{}{"ok": true, "status": sess.Status, "ics_path": sess.GraphEventID})
}

func (t *Toolbox) meetings(ctx context.Context, userEmail string, days *int) (*ToolResult, error) {
	list, err := t.sessions.MeetingsIn(ctx, userEmail, days)
	if err != nil {
		return nil, err
	}
	return &ToolResult{Tool: ToolMeeting, Text: booking.FormatBookings(list)}, nil
}

func jsonResult(tool string, v map[string]interface{}) *ToolResult {
	b, _ := json.Marshal(v)
	return &ToolResult{Tool: tool, Text: string(b)}
}

func argString(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// argInt accepts JSON numbers and numeric strings.
func argInt(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(math.Round(v)), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}
