// Package mentor finds mentors for a free-text need.
package mentor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const (
	DefaultMinMonths = 24
	DefaultLimit     = 3
)

// Match is a mentor returned by a search. Score is set only when the
// embedding ranking produced the result.
type Match struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Position         string   `json:"position"`
	Department       string   `json:"department"`
	Team             string   `json:"team"`
	Skills           string   `json:"skills"`
	MonthsExperience int      `json:"months_experience"`
	Score            *float64 `json:"score,omitempty"`
	Availability     []Slot   `json:"availability,omitempty"`
}

func matchFrom(u models.User) Match {
	return Match{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Position:         u.Position,
		Department:       u.Department,
		Team:             u.Team,
		Skills:           u.Skills,
		MonthsExperience: u.MonthsExperience,
	}
}

type Service struct {
	db        *gorm.DB
	emb       llm.Embedder
	vecs      *cache.Cache
	log       logger.ILogger
	minMonths int
	limit     int
}

func NewService(db *gorm.DB, emb llm.Embedder, cfg config.MentorConfig, log logger.ILogger) *Service {
	ttl := time.Duration(cfg.EmbeddingCacheMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &Service{
		db:        db,
		emb:       emb,
		vecs:      cache.New(ttl, 2*ttl),
		log:       log,
		minMonths: cfg.MinMonths,
		limit:     cfg.Limit,
	}
	if s.minMonths <= 0 {
		s.minMonths = DefaultMinMonths
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	return s
}

// Search runs a substring match over position, skills and team. When that
// yields fewer than limit rows, every eligible mentor is ranked by cosine
// similarity between the query and profile embeddings instead.
// minMonths or limit <= 0 fall back to the configured defaults.
func (s *Service) Search(ctx context.Context, query string, minMonths, limit int) ([]Match, error) {
	if minMonths <= 0 {
		minMonths = s.minMonths
	}
	if limit <= 0 {
		limit = s.limit
	}

	dbCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	like := "%" + query + "%"
	var rows []models.User
	err := s.eligible(dbCtx, minMonths).
		Where("(position LIKE ? OR skills LIKE ? OR team LIKE ?)", like, like, like).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search mentors: %w", err)
	}
	direct := make([]Match, 0, len(rows))
	for _, u := range rows {
		direct = append(direct, matchFrom(u))
	}
	if len(direct) >= limit || s.emb == nil {
		return direct, nil
	}

	var all []models.User
	if err := s.eligible(dbCtx, minMonths).Order("id").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("fetch mentors: %w", err)
	}
	if len(all) == 0 {
		return []Match{}, nil
	}

	ranked, err := s.rank(ctx, query, all, limit)
	if err != nil {
		// keep whatever the SQL step found
		s.log.Warn("mentor", "embedding ranking failed", map[string]interface{}{
			"query": query,
			"error": err,
		})
		return direct, nil
	}
	return ranked, nil
}

func (s *Service) eligible(ctx context.Context, minMonths int) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("is_mentor = ? AND months_experience >= ?", true, minMonths)
}

func (s *Service) rank(ctx context.Context, query string, mentors []models.User, limit int) ([]Match, error) {
	qv, err := s.emb.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	docs, err := s.profileVectors(ctx, mentors)
	if err != nil {
		return nil, err
	}

	type scored struct {
		user  models.User
		score float64
	}
	list := make([]scored, len(mentors))
	for i, m := range mentors {
		list[i] = scored{user: m, score: Cosine(qv, docs[i])}
	}
	// mentors arrive ordered by id, so equal scores keep id order
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]Match, 0, len(list))
	for _, sc := range list {
		m := matchFrom(sc.user)
		score := math.Round(sc.score*1000) / 1000
		m.Score = &score
		out = append(out, m)
	}
	return out, nil
}

// profileVectors embeds mentor profiles, reusing cached vectors keyed by
// the profile text so an edited profile is re-embedded.
func (s *Service) profileVectors(ctx context.Context, mentors []models.User) ([][]float32, error) {
	out := make([][]float32, len(mentors))
	var (
		missTexts []string
		missIdx   []int
	)
	for i, m := range mentors {
		text := m.ProfileText()
		if v, ok := s.vecs.Get(cacheKey(text)); ok {
			out[i] = v.([]float32)
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := s.emb.EmbedDocuments(ctx, missTexts)
	if err != nil {
		return nil, fmt.Errorf("embed profiles: %w", err)
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embed profiles: got %d vectors for %d profiles", len(vecs), len(missTexts))
	}
	for k, i := range missIdx {
		out[i] = vecs[k]
		s.vecs.SetDefault(cacheKey(missTexts[k]), vecs[k])
	}
	return out, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Cosine returns the cosine similarity of a and b, 0 if either has zero
// norm. Extra components of the longer vector are ignored.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
