package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/events"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompleteExpired marks booked sessions whose end has passed as completed
// and credits each mentor CompletionPoints per session.
func (s *Service) CompleteExpired(ctx context.Context) (int, error) {
	now := s.now().UTC()
	var done []models.Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []models.Session
		if err := tx.Where("status = ? AND end_utc < ?", models.SessionBooked, now).Find(&due).Error; err != nil {
			return fmt.Errorf("find expired sessions: %w", err)
		}
		for _, sess := range due {
			res := tx.Model(&models.Session{}).
				Where("id = ? AND status = ?", sess.ID, models.SessionBooked).
				Update("status", models.SessionCompleted)
			if res.Error != nil {
				return fmt.Errorf("complete session %d: %w", sess.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}
			if err := AwardPoints(tx, sess.MentorID, CompletionPoints); err != nil {
				return err
			}
			sess.Status = models.SessionCompleted
			done = append(done, sess)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range done {
		s.publish(events.TopicSessionCompleted, &done[i], "", "")
	}
	if len(done) > 0 {
		s.log.Info("session", "sessions completed", map[string]interface{}{"count": len(done)})
	}
	return len(done), nil
}

// completeBestEffort runs before listings; a failure only delays completion.
func (s *Service) completeBestEffort(ctx context.Context) {
	if _, err := s.CompleteExpired(ctx); err != nil {
		s.log.Warn("session", "auto-complete failed", map[string]interface{}{"error": err})
	}
}

// AwardPoints adds points to a mentor's balance, creating it if needed.
func AwardPoints(db *gorm.DB, mentorID uint, points int) error {
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mentor_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points_total": gorm.Expr("points_total + ?", points),
			"last_updated": time.Now().UTC(),
		}),
	}).Create(&models.Reward{MentorID: mentorID, PointsTotal: points}).Error
	if err != nil {
		return fmt.Errorf("award points to %d: %w", mentorID, err)
	}
	return nil
}

// RunCompletion completes expired sessions every interval until ctx ends.
func (s *Service) RunCompletion(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CompleteExpired(ctx); err != nil {
				s.log.Error("session", "completion sweep failed", map[string]interface{}{"error": err})
			}
		}
	}
}
