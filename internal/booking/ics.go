package booking

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/natefinch/atomic"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
)

const (
	inviteProductID = "-//MentorMatch//Demo//EN"
	inviteSummary   = "Mentor Match Session"
)

// BuildInvite renders a METHOD:REQUEST calendar with one event organised
// by the mentor and addressed to the mentee.
func BuildInvite(s models.Session, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId(inviteProductID)

	ev := cal.AddEvent(fmt.Sprintf("%s-%s", s.MentorEmail, s.StartAt.UTC().Format("20060102T150405Z")))
	ev.SetDtStampTime(stamp.UTC())
	ev.SetStartAt(s.StartAt.UTC())
	ev.SetEndAt(s.EndAt.UTC())
	ev.SetSummary(inviteSummary)
	ev.SetLocation(s.Location)
	ev.SetDescription("Mentorship session\nJoin link will be shared by mentor")
	ev.SetOrganizer("mailto:" + s.MentorEmail)
	ev.AddAttendee("mailto:"+s.MenteeEmail,
		ics.WithCN("Mentee"),
		ics.CalendarUserTypeIndividual,
		ics.ParticipationRoleReqParticipant,
		ics.ParticipationStatusNeedsAction,
		ics.WithRSVP(true),
	)
	return cal.Serialize()
}

// InvitePath is where the invite of a session lives.
func InvitePath(dir string, sessionID uint) string {
	return filepath.Join(dir, fmt.Sprintf("session_%d.ics", sessionID))
}

func writeInvite(dir string, s models.Session, stamp time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create invites dir: %w", err)
	}
	path := InvitePath(dir, s.ID)
	if err := atomic.WriteFile(path, bytes.NewBufferString(BuildInvite(s, stamp))); err != nil {
		return "", fmt.Errorf("write invite: %w", err)
	}
	return path, nil
}
