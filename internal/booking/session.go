// Package booking manages mentorship sessions: requests, approvals with
// calendar invites, meeting lookups and automatic completion.
package booking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/events"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/notification"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"gorm.io/gorm"
)

const (
	DefaultLocation = "Teams"
	// CompletionPoints is what a mentor earns per completed session.
	CompletionPoints = 10
)

// Locations offered by the booking form.
var Locations = []string{"Level 1 canteen", "Meeting room 3", "Google Meet", "Reception Area", "Pantry Lounge"}

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session status transition")
	ErrForbidden         = errors.New("not the mentor of this session")
	ErrInvalidRequest    = errors.New("invalid session request")
)

type Service struct {
	db         *gorm.DB
	invitesDir string
	pub        events.Publisher
	log        logger.ILogger
	now        func() time.Time
}

func NewService(db *gorm.DB, invitesDir string, pub events.Publisher, log logger.ILogger) *Service {
	if invitesDir == "" {
		invitesDir = "invites"
	}
	return &Service{db: db, invitesDir: invitesDir, pub: pub, log: log, now: time.Now}
}

type CreateRequest struct {
	MenteeEmail string    `json:"mentee_email"`
	MentorID    uint      `json:"mentor_id"`
	MentorEmail string    `json:"mentor_email"`
	Start       time.Time `json:"start_utc"`
	End         time.Time `json:"end_utc"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes"`
}

// Create stores a new session in status requested. The mentor is looked
// up by ID, or by e-mail when no ID is given.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Session, error) {
	mentee := normEmail(req.MenteeEmail)
	if err := util.ValidateEmail(mentee); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := util.ValidateSessionWindow(req.Start, req.End); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var mentor models.User
	q := s.db.WithContext(ctx)
	var err error
	if req.MentorID != 0 {
		err = q.First(&mentor, req.MentorID).Error
	} else {
		err = q.Where("email = ?", normEmail(req.MentorEmail)).First(&mentor).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: mentor not found", ErrInvalidRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("load mentor: %w", err)
	}
	if !mentor.IsMentor {
		return nil, fmt.Errorf("%w: %s is not a mentor", ErrInvalidRequest, mentor.Email)
	}
	if mentor.Email == mentee {
		return nil, fmt.Errorf("%w: cannot book a session with yourself", ErrInvalidRequest)
	}

	loc := strings.TrimSpace(req.Location)
	if loc == "" {
		loc = DefaultLocation
	}
	sess := &models.Session{
		MenteeEmail: mentee,
		MentorEmail: mentor.Email,
		MentorID:    mentor.ID,
		Status:      models.SessionRequested,
		StartAt:     req.Start.UTC(),
		EndAt:       req.End.UTC(),
		Location:    loc,
		Notes:       req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.publish(events.TopicSessionRequested, sess, "", "")
	s.log.Info("session", "session requested", map[string]interface{}{
		"session_id": sess.ID,
		"mentor_id":  sess.MentorID,
	})
	return sess, nil
}

// Approve books a requested session: it writes the ICS invite, marks the
// session booked with the invite path and notifies mentee and mentor.
func (s *Service) Approve(ctx context.Context, sessionID uint, mentorEmail string) (*models.Session, error) {
	var (
		sess       models.Session
		mentorName string
		icsPath    string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loadForMentor(tx, sessionID, mentorEmail, &sess); err != nil {
			return err
		}

		path, err := writeInvite(s.invitesDir, sess, s.now())
		if err != nil {
			return err
		}
		icsPath = path

		res := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", sess.ID, models.SessionRequested).
			Updates(map[string]interface{}{"status": models.SessionBooked, "graph_event_id": path})
		if res.Error != nil {
			return fmt.Errorf("update session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		sess.Status = models.SessionBooked
		sess.GraphEventID = path

		mentorName = nameOf(tx, sess.MentorEmail)
		menteeName := nameOf(tx, sess.MenteeEmail)
		window := fmt.Sprintf("🗓 %s → %s", fmtTime(sess.StartAt), fmtTime(sess.EndAt))

		if _, err := notification.Add(tx, sess.MenteeEmail,
			fmt.Sprintf("🎉 Your session with **%s** has been approved!\n%s", mentorName, window), path); err != nil {
			return err
		}
		if _, err := notification.Add(tx, sess.MentorEmail,
			fmt.Sprintf("✅ You approved a session with **%s** (%s)\n%s", menteeName, sess.MenteeEmail, window), path); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if icsPath != "" {
			_ = os.Remove(icsPath)
		}
		return nil, err
	}

	s.publish(events.TopicSessionApproved, &sess, mentorName, icsPath)
	s.log.Info("session", "session approved", map[string]interface{}{
		"session_id": sess.ID,
		"ics_path":   icsPath,
	})
	return &sess, nil
}

// Reject cancels a requested session. Nobody is notified.
func (s *Service) Reject(ctx context.Context, sessionID uint, mentorEmail string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.loadForMentor(tx, sessionID, mentorEmail, &sess); err != nil {
			return err
		}
		res := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", sess.ID, models.SessionRequested).
			Update("status", models.SessionCancelled)
		if res.Error != nil {
			return fmt.Errorf("update session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		sess.Status = models.SessionCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.TopicSessionRejected, &sess, "", "")
	s.log.Info("session", "session rejected", map[string]interface{}{"session_id": sess.ID})
	return &sess, nil
}

func (s *Service) loadForMentor(tx *gorm.DB, id uint, mentorEmail string, out *models.Session) error {
	err := tx.First(out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if normEmail(out.MentorEmail) != normEmail(mentorEmail) {
		return ErrForbidden
	}
	if out.Status != models.SessionRequested {
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, out.Status)
	}
	return nil
}

// Get returns a session visible to email (as mentee or mentor).
func (s *Service) Get(ctx context.Context, id uint, email string) (*models.Session, error) {
	var sess models.Session
	e := normEmail(email)
	err := s.db.WithContext(ctx).
		Where("id = ? AND (mentee_email = ? OR mentor_email = ?)", id, e, e).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (s *Service) publish(topic string, sess *models.Session, mentorName, icsPath string) {
	if s.pub == nil {
		return
	}
	err := s.pub.Publish(topic, events.SessionEvent{
		SessionID:   sess.ID,
		Status:      sess.Status,
		MenteeEmail: sess.MenteeEmail,
		MentorEmail: sess.MentorEmail,
		MentorName:  mentorName,
		Start:       sess.StartAt,
		End:         sess.EndAt,
		Location:    sess.Location,
		ICSPath:     icsPath,
	})
	if err != nil {
		s.log.Warn("session", "publish event failed", map[string]interface{}{"topic": topic, "error": err})
	}
}

// nameOf falls back to the e-mail when the user is unknown.
func nameOf(db *gorm.DB, email string) string {
	var u models.User
	if err := db.Select("name").Where("email = ?", email).First(&u).Error; err != nil || u.Name == "" {
		return email
	}
	return u.Name
}

func normEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func fmtTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
