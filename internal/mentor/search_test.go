package mentor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps text to a vector by keyword so rankings are predictable.
type fakeEmbedder struct {
	docCalls int
	docTexts int
	err      error
}

func vec(text string) []float32 {
	t := strings.ToLower(text)
	v := []float32{0, 0, 0}
	if strings.Contains(t, "python") || strings.Contains(t, "data") {
		v[0] = 1
	}
	if strings.Contains(t, "go") || strings.Contains(t, "backend") {
		v[1] = 1
	}
	if strings.Contains(t, "sap") {
		v[2] = 1
	}
	return v
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return vec(text), nil
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.docCalls++
	f.docTexts += len(texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vec(t)
	}
	return out, nil
}

func newService(t *testing.T, emb *fakeEmbedder) *Service {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db)
	return NewService(db, emb, config.MentorConfig{MinMonths: 24, Limit: 3, EmbeddingCacheMinutes: 5}, logger.Nop())
}

func TestSearch_SQLOnlyWhenEnoughRows(t *testing.T) {
	emb := &fakeEmbedder{}
	s := newService(t, emb)

	// "a" hits every mentor's position/skills/team
	res, err := s.Search(context.Background(), "a", 24, 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Nil(t, res[0].Score)
	assert.Equal(t, 0, emb.docCalls)
}

func TestSearch_FallsBackToEmbeddings(t *testing.T) {
	emb := &fakeEmbedder{}
	s := newService(t, emb)

	res, err := s.Search(context.Background(), "golang backend", 0, 0)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "ben@corp.com", res[0].Email)
	require.NotNil(t, res[0].Score)
	assert.Equal(t, 1.0, *res[0].Score)
	for i := 1; i < len(res); i++ {
		assert.GreaterOrEqual(t, *res[i-1].Score, *res[i].Score)
	}
	for _, m := range res {
		// junior is never a mentor
		assert.NotEqual(t, "cleo@corp.com", m.Email)
		assert.GreaterOrEqual(t, m.MonthsExperience, 24)
	}
}

func TestSearch_RespectsThreshold(t *testing.T) {
	s := newService(t, &fakeEmbedder{})

	res, err := s.Search(context.Background(), "sap", 30, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res), 3)
	for _, m := range res {
		assert.GreaterOrEqual(t, m.MonthsExperience, 30)
		assert.NotEqual(t, "dev@corp.com", m.Email)
	}
}

func TestSearch_NoEligibleMentors(t *testing.T) {
	s := newService(t, &fakeEmbedder{})
	res, err := s.Search(context.Background(), "anything", 1000, 3)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_EmbeddingErrorKeepsSQLRows(t *testing.T) {
	s := newService(t, &fakeEmbedder{err: errors.New("quota")})

	res, err := s.Search(context.Background(), "Payments", 24, 3)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "ben@corp.com", res[0].Email)
}

func TestSearch_CachesProfileVectors(t *testing.T) {
	emb := &fakeEmbedder{}
	s := newService(t, emb)

	_, err := s.Search(context.Background(), "python data", 0, 0)
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "sap", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, emb.docCalls)
	assert.Equal(t, 3, emb.docTexts)
}

func TestCosine(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 1}, []float32{-1, -1}), 1e-9)
}

func TestAvailabilitySlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 17, 45, 0, 0, time.UTC)
	// "ab" -> (97+98) % 5 = 0
	slots := AvailabilitySlots("AB", 3, 30, now)
	require.Len(t, slots, 3)

	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2025, 3, 12, 11, 0, 0, 0, time.UTC), slots[1].Start)
	assert.Equal(t, time.Date(2025, 3, 13, 13, 0, 0, 0, time.UTC), slots[2].Start)
	assert.Equal(t, 30*time.Minute, slots[0].End.Sub(slots[0].Start))
	assert.Equal(t, "2025-03-11T09:00Z → 2025-03-11T09:30Z", slots[0].String())

	// "c" -> 99 % 5 = 4
	shifted := AvailabilitySlots("c", 1, 0, now)
	assert.Equal(t, time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC), shifted[0].Start)
}

func TestSearchWithAvailability(t *testing.T) {
	s := newService(t, &fakeEmbedder{})
	res, err := s.SearchWithAvailability(context.Background(), "sap", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, res)
	for _, m := range res {
		assert.Len(t, m.Availability, 3)
	}
}
