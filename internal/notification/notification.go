// Package notification stores per-user inbox messages.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add inserts a notification using db, which may be a transaction.
func Add(db *gorm.DB, userEmail, message, icsPath string) (*models.Notification, error) {
	n := &models.Notification{
		UserEmail: strings.ToLower(strings.TrimSpace(userEmail)),
		Message:   message,
		ICSPath:   icsPath,
	}
	if err := db.Create(n).Error; err != nil {
		return nil, fmt.Errorf("add notification: %w", err)
	}
	return n, nil
}

func (s *Service) Add(ctx context.Context, userEmail, message, icsPath string) (*models.Notification, error) {
	return Add(s.db.WithContext(ctx), userEmail, message, icsPath)
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userEmail string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var out []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(userEmail)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// Clear deletes all notifications of the user and reports how many.
func (s *Service) Clear(ctx context.Context, userEmail string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(userEmail)).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Get returns one notification owned by userEmail.
func (s *Service) Get(ctx context.Context, id uint, userEmail string) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_email = ?", id, strings.ToLower(userEmail)).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}
