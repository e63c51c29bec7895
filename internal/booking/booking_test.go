package booking

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/events"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	topics []string
}

func (r *recorder) Publish(topic string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gorm.DB, *recorder) {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db)
	rec := &recorder{}
	s := NewService(db, filepath.Join(t.TempDir(), "invites"), rec, logger.Nop())
	s.now = func() time.Time { return now }
	return s, db, rec
}

func request(t *testing.T, s *Service, start time.Time) *models.Session {
	t.Helper()
	sess, err := s.Create(context.Background(), CreateRequest{
		MenteeEmail: "Cleo@corp.com",
		MentorID:    2,
		Start:       start,
		End:         start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	return sess
}

func TestCreate(t *testing.T) {
	s, _, rec := newTestService(t)

	sess := request(t, s, now.Add(24*time.Hour))
	assert.Equal(t, models.SessionRequested, sess.Status)
	assert.Equal(t, "cleo@corp.com", sess.MenteeEmail)
	assert.Equal(t, "ben@corp.com", sess.MentorEmail)
	assert.Equal(t, DefaultLocation, sess.Location)
	assert.Equal(t, []string{events.TopicSessionRequested}, rec.topics)

	// mentor by e-mail works too
	byEmail, err := s.Create(context.Background(), CreateRequest{
		MenteeEmail: "cleo@corp.com", MentorEmail: "ASHA@corp.com",
		Start: now, End: now.Add(time.Hour), Location: "Google Meet",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), byEmail.MentorID)
}

func TestCreate_Validation(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	start := now.Add(time.Hour)

	cases := map[string]CreateRequest{
		"not a mentor":   {MenteeEmail: "ben@corp.com", MentorID: 3, Start: start, End: start.Add(time.Hour)},
		"unknown mentor": {MenteeEmail: "cleo@corp.com", MentorID: 99, Start: start, End: start.Add(time.Hour)},
		"self booking":   {MenteeEmail: "ben@corp.com", MentorID: 2, Start: start, End: start.Add(time.Hour)},
		"end before":     {MenteeEmail: "cleo@corp.com", MentorID: 2, Start: start, End: start.Add(-time.Hour)},
		"bad email":      {MenteeEmail: "cleo", MentorID: 2, Start: start, End: start.Add(time.Hour)},
	}
	for name, req := range cases {
		_, err := s.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidRequest, name)
	}
}

func TestApprove_BooksWritesInviteAndNotifiesBoth(t *testing.T) {
	s, db, rec := newTestService(t)
	sess := request(t, s, now.Add(24*time.Hour))

	got, err := s.Approve(context.Background(), sess.ID, "BEN@corp.com")
	require.NoError(t, err)
	assert.Equal(t, models.SessionBooked, got.Status)
	assert.Equal(t, InvitePath(s.invitesDir, sess.ID), got.GraphEventID)
	assert.True(t, strings.HasSuffix(got.GraphEventID, "session_1.ics"))

	var stored models.Session
	require.NoError(t, db.First(&stored, sess.ID).Error)
	assert.Equal(t, models.SessionBooked, stored.Status)
	assert.Equal(t, got.GraphEventID, stored.GraphEventID)

	raw, err := os.ReadFile(got.GraphEventID)
	require.NoError(t, err)
	// undo RFC 5545 line folding before matching
	ics := strings.ReplaceAll(string(raw), "\r\n ", "")
	assert.Contains(t, ics, "METHOD:REQUEST")
	assert.Contains(t, ics, "SUMMARY:Mentor Match Session")
	assert.Contains(t, ics, "DTSTART:20250311T120000Z")
	assert.Contains(t, ics, "mailto:cleo@corp.com")
	assert.Contains(t, ics, "ORGANIZER:mailto:ben@corp.com")

	var notes []models.Notification
	require.NoError(t, db.Order("id").Find(&notes).Error)
	require.Len(t, notes, 2)
	assert.Equal(t, "cleo@corp.com", notes[0].UserEmail)
	assert.Contains(t, notes[0].Message, "Ben Ode")
	assert.Equal(t, "ben@corp.com", notes[1].UserEmail)
	assert.Contains(t, notes[1].Message, "Cleo Ng")
	for _, n := range notes {
		assert.Equal(t, got.GraphEventID, n.ICSPath)
	}

	assert.Contains(t, rec.topics, events.TopicSessionApproved)
}

func TestApprove_Twice(t *testing.T) {
	s, db, _ := newTestService(t)
	sess := request(t, s, now.Add(time.Hour))

	_, err := s.Approve(context.Background(), sess.ID, "ben@corp.com")
	require.NoError(t, err)
	_, err = s.Approve(context.Background(), sess.ID, "ben@corp.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestApprove_WrongMentorAndMissing(t *testing.T) {
	s, _, _ := newTestService(t)
	sess := request(t, s, now.Add(time.Hour))

	_, err := s.Approve(context.Background(), sess.ID, "asha@corp.com")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Approve(context.Background(), 404, "ben@corp.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReject(t *testing.T) {
	s, db, rec := newTestService(t)
	sess := request(t, s, now.Add(time.Hour))

	got, err := s.Reject(context.Background(), sess.ID, "ben@corp.com")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, got.Status)

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
	assert.Contains(t, rec.topics, events.TopicSessionRejected)

	// a cancelled session cannot be approved
	_, err = s.Approve(context.Background(), sess.ID, "ben@corp.com")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPendingAndAsMentee(t *testing.T) {
	s, _, _ := newTestService(t)
	a := request(t, s, now.Add(time.Hour))
	b := request(t, s, now.Add(2*time.Hour))
	_, err := s.Reject(context.Background(), a.ID, "ben@corp.com")
	require.NoError(t, err)

	pending, err := s.Pending(context.Background(), "ben@corp.com")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
	assert.Equal(t, "Ben Ode", pending[0].MentorName)

	mine, err := s.AsMentee(context.Background(), "cleo@corp.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMeetingsIn(t *testing.T) {
	s, _, _ := newTestService(t)
	tomorrow := request(t, s, now.Add(24*time.Hour))
	_ = request(t, s, now.Add(-48*time.Hour))
	_, err := s.Approve(context.Background(), tomorrow.ID, "ben@corp.com")
	require.NoError(t, err)

	upcoming, err := s.MeetingsIn(context.Background(), "cleo@corp.com", nil)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, tomorrow.ID, upcoming[0].ID)

	// mentor sees it too
	one := 1
	forMentor, err := s.MeetingsIn(context.Background(), "ben@corp.com", &one)
	require.NoError(t, err)
	require.Len(t, forMentor, 1)

	back := -2
	past, err := s.MeetingsIn(context.Background(), "cleo@corp.com", &back)
	require.NoError(t, err)
	assert.Len(t, past, 1)

	zero := 0
	today, err := s.MeetingsIn(context.Background(), "cleo@corp.com", &zero)
	require.NoError(t, err)
	assert.Empty(t, today)
}

func TestFormatBookings(t *testing.T) {
	assert.Equal(t, "📭 No bookings found.", FormatBookings(nil))

	out := FormatBookings([]Booking{{
		Session: models.Session{
			StartAt:     time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC),
			Location:    "Teams",
			Status:      "booked",
			MentorEmail: "ben@corp.com",
		},
		MentorName: "Ben Ode",
	}})
	assert.True(t, strings.HasPrefix(out, "### 📅 Your Bookings:"))
	assert.Contains(t, out, "**Mentor:** Ben Ode")
	assert.Contains(t, out, "**Date:** 2025-03-11")
	assert.Contains(t, out, "**Time:** 09:00 → 09:30")
	assert.Contains(t, out, "**Status:** booked")
}

func TestCompleteExpired_AwardsPoints(t *testing.T) {
	s, db, rec := newTestService(t)
	past := request(t, s, now.Add(-3*time.Hour))
	future := request(t, s, now.Add(3*time.Hour))
	requestedOnly := request(t, s, now.Add(-5*time.Hour))
	_, err := s.Approve(context.Background(), past.ID, "ben@corp.com")
	require.NoError(t, err)
	_, err = s.Approve(context.Background(), future.ID, "ben@corp.com")
	require.NoError(t, err)

	n, err := s.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	statusOf := func(id uint) string {
		var got models.Session
		require.NoError(t, db.First(&got, id).Error)
		return got.Status
	}
	assert.Equal(t, models.SessionCompleted, statusOf(past.ID))
	assert.Equal(t, models.SessionBooked, statusOf(future.ID))
	assert.Equal(t, models.SessionRequested, statusOf(requestedOnly.ID))

	var reward models.Reward
	require.NoError(t, db.Where("mentor_id = ?", 2).First(&reward).Error)
	assert.Equal(t, CompletionPoints, reward.PointsTotal)
	assert.Contains(t, rec.topics, events.TopicSessionCompleted)

	// idempotent
	n, err = s.CompleteExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	var again models.Reward
	require.NoError(t, db.Where("mentor_id = ?", 2).First(&again).Error)
	assert.Equal(t, CompletionPoints, again.PointsTotal)
}

func TestAwardPoints_Accumulates(t *testing.T) {
	_, db, _ := newTestService(t)
	require.NoError(t, AwardPoints(db, 1, 10))
	require.NoError(t, AwardPoints(db, 1, 5))

	var r models.Reward
	require.NoError(t, db.Where("mentor_id = ?", 1).First(&r).Error)
	assert.Equal(t, 15, r.PointsTotal)
}

func TestAddFeedback(t *testing.T) {
	s, _, _ := newTestService(t)
	sess := request(t, s, now.Add(-time.Hour))

	fb, err := s.AddFeedback(context.Background(), sess.ID, "cleo@corp.com", 5, "Learned Kubernetes basics")
	require.NoError(t, err)
	assert.Equal(t, "ben@corp.com", fb.MentorEmail)

	_, err = s.AddFeedback(context.Background(), sess.ID, "ben@corp.com", 4, "x")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.AddFeedback(context.Background(), sess.ID, "cleo@corp.com", 9, "x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = s.AddFeedback(context.Background(), sess.ID, "asha@corp.com", 4, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
