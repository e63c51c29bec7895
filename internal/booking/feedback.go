package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
)

// AddFeedback stores the mentee's takeaway for a session they attended.
func (s *Service) AddFeedback(ctx context.Context, sessionID uint, menteeEmail string, rating int, takeaway string) (*models.Feedback, error) {
	sess, err := s.Get(ctx, sessionID, menteeEmail)
	if err != nil {
		return nil, err
	}
	if sess.MenteeEmail != normEmail(menteeEmail) {
		return nil, ErrForbidden
	}
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 0-5", ErrInvalidRequest)
	}
	takeaway = strings.TrimSpace(takeaway)
	if takeaway == "" {
		return nil, fmt.Errorf("%w: takeaway is empty", ErrInvalidRequest)
	}

	fb := &models.Feedback{
		SessionID:   sess.ID,
		MenteeEmail: sess.MenteeEmail,
		MentorEmail: sess.MentorEmail,
		Rating:      rating,
		Takeaway:    takeaway,
	}
	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	return fb, nil
}
