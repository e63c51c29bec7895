// Package progress tracks onboarding checklists: learning modules,
// software installs and documents. SQLite is the source of truth; each
// kind is mirrored to a CSV file after every change.
package progress

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/natefinch/atomic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownKind = errors.New("unknown progress kind")
	ErrEmptyItem   = errors.New("item is required")
)

// mirror file and item column per kind
var mirrors = map[string]struct{ file, column string }{
	models.ProgressModule:   {"LearningProgress.csv", "module"},
	models.ProgressSoftware: {"SoftwareProgress.csv", "software"},
	models.ProgressDocument: {"DocumentProgress.csv", "document"},
}

func ValidKind(kind string) bool {
	_, ok := mirrors[kind]
	return ok
}

type Service struct {
	db     *gorm.DB
	csvDir string
	log    logger.ILogger
	mu     sync.Mutex // serialises mirror rewrites
}

func NewService(db *gorm.DB, csvDir string, log logger.ILogger) *Service {
	return &Service{db: db, csvDir: csvDir, log: log}
}

// Set records item as completed (or not) for the user. The item match is
// case-insensitive; the first spelling seen is kept for display.
func (s *Service) Set(ctx context.Context, kind, email, item string, completed bool) (*models.Progress, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, ErrEmptyItem
	}
	p := &models.Progress{
		Kind:      kind,
		UserEmail: strings.ToLower(strings.TrimSpace(email)),
		ItemKey:   strings.ToLower(item),
		Item:      item,
		Completed: completed,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "user_email"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	if err := s.writeMirror(ctx, kind); err != nil {
		// the row is committed; a stale mirror is rewritten on the next change
		s.log.Warn("progress", "csv mirror write failed", map[string]interface{}{"kind": kind, "error": err})
	}

	var saved models.Progress
	if err := s.db.WithContext(ctx).
		Where("kind = ? AND user_email = ? AND item_key = ?", p.Kind, p.UserEmail, p.ItemKey).
		First(&saved).Error; err != nil {
		return nil, fmt.Errorf("reload progress: %w", err)
	}
	return &saved, nil
}

// CompleteModule is the chat shortcut for "I have completed <module>".
func (s *Service) CompleteModule(ctx context.Context, email, module string) error {
	module = strings.TrimRight(strings.TrimSpace(module), ".")
	_, err := s.Set(ctx, models.ProgressModule, email, module, true)
	return err
}

type Summary struct {
	Kind    string            `json:"kind"`
	Items   []models.Progress `json:"items"`
	Done    int               `json:"done"`
	Total   int               `json:"total"`
	Percent float64           `json:"percent"`
}

// List returns the user's items of one kind with the completion percentage
// rounded to 1 decimal.
func (s *Service) List(ctx context.Context, kind, email string) (*Summary, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	var items []models.Progress
	err := s.db.WithContext(ctx).
		Where("kind = ? AND user_email = ?", kind, strings.ToLower(strings.TrimSpace(email))).
		Order("item_key").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	out := &Summary{Kind: kind, Items: items, Total: len(items)}
	for _, it := range items {
		if it.Completed {
			out.Done++
		}
	}
	if out.Total > 0 {
		out.Percent = math.Round(float64(out.Done)/float64(out.Total)*1000) / 10
	}
	return out, nil
}

// All returns every row of every kind for one user, used by the export.
func (s *Service) All(ctx context.Context, email string) ([]models.Progress, error) {
	var items []models.Progress
	err := s.db.WithContext(ctx).
		Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("kind, item_key").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return items, nil
}

// MirrorPath is where the CSV copy of kind lives.
func (s *Service) MirrorPath(kind string) string {
	return filepath.Join(s.csvDir, mirrors[kind].file)
}

func (s *Service) writeMirror(ctx context.Context, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []models.Progress
	if err := s.db.WithContext(ctx).Where("kind = ?", kind).
		Order("user_email, item_key").Find(&rows).Error; err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"email", mirrors[kind].column, "completed"})
	for _, r := range rows {
		_ = w.Write([]string{r.UserEmail, r.Item, strconv.FormatBool(r.Completed)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.csvDir, 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(s.MirrorPath(kind), &buf)
}
