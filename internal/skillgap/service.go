package skillgap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoPlan       = errors.New("no learning plan yet")
	ErrUnknownPhase = errors.New("phase not in plan")
)

// Analysis is the outcome of comparing a user with a role.
type Analysis struct {
	Role        string             `json:"role"`
	Gap         Gap                `json:"gap"`
	Stats       Stats              `json:"stats"`
	Readiness   float64            `json:"readiness"`
	Suggestions []CourseSuggestion `json:"course_suggestions"`
}

// Plan is a stored learning plan with its tracker state decoded.
type Plan struct {
	UserEmail   string       `json:"user_email"`
	Role        string       `json:"role"`
	Text        string       `json:"plan_text"`
	GapIndex    float64      `json:"gap_index"`
	Sections    []Section    `json:"sections"`
	PhaseWeeks  map[int]int  `json:"phase_weeks"`
	PhaseDone   map[int]bool `json:"phase_done"`
	Checkpoints []Checkpoint `json:"checkpoints"`
	Completion  float64      `json:"completion_pct"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Service struct {
	db   *gorm.DB
	chat llm.ChatModel
	log  logger.ILogger
	now  func() time.Time
}

func NewService(db *gorm.DB, chat llm.ChatModel, log logger.ILogger) *Service {
	return &Service{db: db, chat: chat, log: log, now: time.Now}
}

// Analyze runs the gap calculation for role against free-text skills.
func (s *Service) Analyze(role, skills string) (*Analysis, error) {
	required, err := RoleSkills(role)
	if err != nil {
		return nil, err
	}
	g := Compute(required, ParseUserSkills(skills), true)
	st := Summarize(g)
	return &Analysis{
		Role:        required[0].Role,
		Gap:         g,
		Stats:       st,
		Readiness:   st.Readiness(),
		Suggestions: Suggestions(g),
	}, nil
}

// LatestTakeaway returns the newest takeaway the user wrote, or "".
func (s *Service) LatestTakeaway(ctx context.Context, email string) (string, error) {
	var fb models.Feedback
	err := s.db.WithContext(ctx).
		Where("mentee_email = ? AND takeaway <> ''", strings.ToLower(email)).
		Order("id DESC").
		First(&fb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest takeaway: %w", err)
	}
	return fb.Takeaway, nil
}

// Recommendations suggests courses from the latest takeaway.
func (s *Service) Recommendations(ctx context.Context, email string) (string, []CourseSuggestion, error) {
	t, err := s.LatestTakeaway(ctx, email)
	if err != nil || t == "" {
		return t, []CourseSuggestion{}, err
	}
	recs := RecommendFromTakeaways([]string{t})
	if recs == nil {
		recs = []CourseSuggestion{}
	}
	return t, recs, nil
}

// GeneratePlan asks the model for a roadmap, parses it and stores it with
// fresh checkpoints starting at start (today when zero).
func (s *Service) GeneratePlan(ctx context.Context, email, role, skills string, start time.Time) (*Plan, error) {
	a, err := s.Analyze(role, skills)
	if err != nil {
		return nil, err
	}
	if s.chat == nil {
		return nil, llm.ErrNoAPIKey
	}
	takeaway, err := s.LatestTakeaway(ctx, email)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(a.Role, a.Gap, a.Stats, a.Suggestions, takeaway)
	resp, err := s.chat.Generate(ctx, llm.GenerateRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Text: prompt}},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}

	if start.IsZero() {
		start = s.now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	weeks := ParsePhaseDurations(text)
	done := map[int]bool{}
	for p := range weeks {
		done[p] = false
	}

	row := models.LearningPlan{
		UserEmail: strings.ToLower(email),
		Role:      a.Role,
		PlanText:  text,
		GapIndex:  a.Stats.WeightedGapIndex,
	}
	if err := encodeState(&row, weeks, done, BuildCheckpoints(weeks, start)); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_email"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "plan_text", "gap_index", "phase_weeks", "checkpoints", "phase_done", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	s.log.Info("learning", "plan generated", map[string]interface{}{"user": row.UserEmail, "role": a.Role, "phases": len(weeks)})
	return s.GetPlan(ctx, email)
}

// GetPlan loads the user's plan and its tracker.
func (s *Service) GetPlan(ctx context.Context, email string) (*Plan, error) {
	var row models.LearningPlan
	err := s.db.WithContext(ctx).First(&row, "user_email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoPlan
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return decodePlan(row)
}

// SetPhaseDone toggles a phase and syncs its checkpoints.
func (s *Service) SetPhaseDone(ctx context.Context, email string, phase int, done bool) (*Plan, error) {
	p, err := s.GetPlan(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, ok := p.PhaseWeeks[phase]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, phase)
	}
	p.PhaseDone[phase] = done
	SyncPhase(p.Checkpoints, phase, done)

	var row models.LearningPlan
	if err := encodeState(&row, p.PhaseWeeks, p.PhaseDone, p.Checkpoints); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.LearningPlan{}).
		Where("user_email = ?", p.UserEmail).
		Updates(map[string]interface{}{
			"checkpoints": row.Checkpoints,
			"phase_done":  row.PhaseDone,
			"updated_at":  s.now(),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return s.GetPlan(ctx, email)
}

func encodeState(row *models.LearningPlan, weeks map[int]int, done map[int]bool, cps []Checkpoint) error {
	if cps == nil {
		cps = []Checkpoint{}
	}
	for _, pair := range []struct {
		dst *datatypes.JSON
		v   interface{}
	}{{&row.PhaseWeeks, weeks}, {&row.PhaseDone, done}, {&row.Checkpoints, cps}} {
		b, err := json.Marshal(pair.v)
		if err != nil {
			return fmt.Errorf("encode plan state: %w", err)
		}
		*pair.dst = datatypes.JSON(b)
	}
	return nil
}

func decodePlan(row models.LearningPlan) (*Plan, error) {
	p := &Plan{
		UserEmail:   row.UserEmail,
		Role:        row.Role,
		Text:        row.PlanText,
		GapIndex:    row.GapIndex,
		Sections:    SplitSections(row.PlanText),
		PhaseWeeks:  map[int]int{},
		PhaseDone:   map[int]bool{},
		Checkpoints: []Checkpoint{},
		UpdatedAt:   row.UpdatedAt,
	}
	for _, pair := range []struct {
		src datatypes.JSON
		dst interface{}
	}{{row.PhaseWeeks, &p.PhaseWeeks}, {row.PhaseDone, &p.PhaseDone}, {row.Checkpoints, &p.Checkpoints}} {
		if len(pair.src) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.src, pair.dst); err != nil {
			return nil, fmt.Errorf("decode plan state: %w", err)
		}
	}
	p.Completion = WeightedCompletion(p.PhaseWeeks, p.PhaseDone)
	return p, nil
}
