// Package ticket is the IT / HR / ops helpdesk.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/events"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPriority = "P3"
	DefaultCategory = "it"
)

var (
	ErrNotFound     = errors.New("ticket not found")
	ErrForbidden    = errors.New("not allowed to change this ticket")
	ErrInvalidInput = errors.New("invalid ticket input")
	ErrDuplicate    = errors.New("category already exists")
)

type Service struct {
	db  *gorm.DB
	pub events.Publisher
	log logger.ILogger
	now func() time.Time
}

func NewService(db *gorm.DB, pub events.Publisher, log logger.ILogger) *Service {
	return &Service{db: db, pub: pub, log: log, now: time.Now}
}

type CreateInput struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Priority       string `json:"priority"`
	Category       string `json:"category"`
	RequesterEmail string `json:"-"`
	AssigneeEmail  string `json:"assignee_email"`
}

// Create opens a NEW ticket. Unknown categories are created on the fly.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > 255 {
		title = title[:255]
	}
	prio := in.Priority
	if prio == "" {
		prio = DefaultPriority
	}
	if err := util.ValidatePriority(prio); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cat := strings.ToLower(strings.TrimSpace(in.Category))
	if cat == "" {
		cat = DefaultCategory
	}
	if err := util.ValidateCategory(cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	requester := strings.ToLower(strings.TrimSpace(in.RequesterEmail))
	if err := util.ValidateEmail(requester); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	assignee := strings.ToLower(strings.TrimSpace(in.AssigneeEmail))
	if assignee != "" {
		if err := util.ValidateEmail(assignee); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	t := &models.Ticket{
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Status:         models.TicketNew,
		Priority:       prio,
		Category:       cat,
		RequesterEmail: requester,
		AssigneeEmail:  assignee,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, cat); err != nil {
			return err
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	if s.pub != nil {
		_ = s.pub.Publish(events.TopicTicketCreated, events.TicketEvent{
			TicketID:       t.ID,
			Ref:            t.Ref(),
			Title:          t.Title,
			Category:       t.Category,
			Priority:       t.Priority,
			RequesterEmail: t.RequesterEmail,
			AssigneeEmail:  t.AssigneeEmail,
		})
	}
	s.log.Info("ticket", "ticket created", map[string]interface{}{"ticket_id": t.ID, "category": cat})
	return t, nil
}

func ensureCategory(tx *gorm.DB, key string) error {
	c := models.Category{Name: key, Label: strings.ToUpper(key)}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error
}

// Mine lists tickets raised by the user, newest first.
func (s *Service) Mine(ctx context.Context, email string) ([]models.Ticket, error) {
	var out []models.Ticket
	err := s.db.WithContext(ctx).
		Where("requester_email = ?", strings.ToLower(email)).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, id uint) (*models.Ticket, error) {
	var t models.Ticket
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &t, nil
}

// UpdateStatus lets the requester move their own ticket.
func (s *Service) UpdateStatus(ctx context.Context, id uint, requesterEmail, status string) (*models.Ticket, error) {
	if err := util.ValidateTicketStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.RequesterEmail != strings.ToLower(requesterEmail) {
		return nil, ErrForbidden
	}
	if err := s.db.WithContext(ctx).Model(t).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	t.Status = status
	return t, nil
}

// Triage assigns and/or moves a ticket. Empty fields are left untouched.
func (s *Service) Triage(ctx context.Context, id uint, assignee, status string) (*models.Ticket, error) {
	updates := map[string]interface{}{}
	if assignee = strings.ToLower(strings.TrimSpace(assignee)); assignee != "" {
		if err := util.ValidateEmail(assignee); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		updates["assignee_email"] = assignee
	}
	if status != "" {
		if err := util.ValidateTicketStatus(status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		updates["status"] = status
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}

	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(t).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("triage ticket: %w", err)
	}
	return s.get(ctx, id)
}

type QueueFilter struct {
	Category string
	Status   string
	Assignee string
}

type QueueItem struct {
	models.Ticket
	AgeHours float64 `json:"age_h"`
}

// Queue is the agent view: filtered tickets, newest first, with age.
func (s *Service) Queue(ctx context.Context, f QueueFilter) ([]QueueItem, error) {
	q := s.db.WithContext(ctx).Model(&models.Ticket{})
	if f.Category != "" {
		q = q.Where("category = ?", strings.ToLower(f.Category))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Assignee != "" {
		q = q.Where("assignee_email = ?", strings.ToLower(f.Assignee))
	}
	var list []models.Ticket
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("ticket queue: %w", err)
	}

	now := s.now()
	out := make([]QueueItem, 0, len(list))
	for _, t := range list {
		age := math.Round(now.Sub(t.CreatedAt).Hours()*10) / 10
		out = append(out, QueueItem{Ticket: t, AgeHours: age})
	}
	return out, nil
}

// Counts returns the user's tickets per status, every status present.
func (s *Service) Counts(ctx context.Context, email string) (map[string]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Select("status, COUNT(*) AS cnt").
		Where("requester_email = ?", strings.ToLower(email)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("ticket counts: %w", err)
	}
	out := make(map[string]int64, len(models.TicketStatuses))
	for _, st := range models.TicketStatuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Cnt
	}
	return out, nil
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type Metrics struct {
	Total    int64      `json:"total"`
	Open     int64      `json:"open"`
	Resolved int64      `json:"resolved_closed"`
	Trend    []DayCount `json:"trend"`
}

// Metrics summarises the whole helpdesk; Trend covers the last 14 days
// with tickets, oldest first.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	var all []models.Ticket
	if err := s.db.WithContext(ctx).Select("id, status, created_at").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("ticket metrics: %w", err)
	}
	m := &Metrics{Total: int64(len(all))}
	perDay := map[string]int64{}
	for _, t := range all {
		if t.Open() {
			m.Open++
		} else {
			m.Resolved++
		}
		perDay[t.CreatedAt.UTC().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)
	if len(days) > 14 {
		days = days[len(days)-14:]
	}
	for _, d := range days {
		m.Trend = append(m.Trend, DayCount{Day: d, Count: perDay[d]})
	}
	return m, nil
}

// All returns every ticket for export, newest first.
func (s *Service) All(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

// ---------- categories ----------

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Service) AddCategory(ctx context.Context, key, label, team string) (*models.Category, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if err := util.ValidateCategory(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	c := &models.Category{Name: key, Label: strings.TrimSpace(label), DefaultTeam: strings.TrimSpace(team)}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return nil, fmt.Errorf("add category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrDuplicate
	}
	return c, nil
}
