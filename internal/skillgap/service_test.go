package skillgap

import (
	"context"
	"testing"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/models"
	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply string
	last  llm.GenerateRequest
}

func (f *fakeChat) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.last = req
	return &llm.GenerateResponse{Text: f.reply}, nil
}

func TestService_PlanLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	chat := &fakeChat{reply: samplePlan}
	s := NewService(db, chat, logger.Nop())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Feedback{SessionID: 1, MenteeEmail: "cleo@corp.com", Takeaway: "older"}).Error)
	require.NoError(t, db.Create(&models.Feedback{SessionID: 2, MenteeEmail: "cleo@corp.com", Takeaway: "practise SQL daily"}).Error)

	_, err := s.GetPlan(ctx, "cleo@corp.com")
	assert.ErrorIs(t, err, ErrNoPlan)

	start := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)
	p, err := s.GeneratePlan(ctx, "Cleo@corp.com", "Data Analyst", "SQL:2", start)
	require.NoError(t, err)
	require.Len(t, chat.last.Messages, 1)
	assert.Contains(t, chat.last.Messages[0].Text, "practise SQL daily")

	assert.Equal(t, "cleo@corp.com", p.UserEmail)
	assert.Equal(t, map[int]int{1: 2, 2: 4, 3: 6}, p.PhaseWeeks)
	assert.Len(t, p.Checkpoints, 8)
	assert.Equal(t, "2025-03-03", p.Checkpoints[0].TargetDate)
	assert.Len(t, p.Sections, 4)
	assert.Equal(t, 0.0, p.Completion)

	p, err = s.SetPhaseDone(ctx, "cleo@corp.com", 3, true)
	require.NoError(t, err)
	assert.True(t, p.PhaseDone[3])
	assert.Equal(t, 50.0, p.Completion)
	for _, c := range p.Checkpoints {
		assert.Equal(t, c.Phase == 3, c.Completed, c.ID)
	}

	_, err = s.SetPhaseDone(ctx, "cleo@corp.com", 9, true)
	assert.ErrorIs(t, err, ErrUnknownPhase)

	// regenerating replaces the plan and resets the tracker
	p, err = s.GeneratePlan(ctx, "cleo@corp.com", "Data Analyst", "SQL:4", start)
	require.NoError(t, err)
	assert.False(t, p.PhaseDone[3])
	var count int64
	db.Model(&models.LearningPlan{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestService_Recommendations(t *testing.T) {
	db := testutil.NewDB(t)
	s := NewService(db, nil, logger.Nop())
	ctx := context.Background()

	take, recs, err := s.Recommendations(ctx, "ben@corp.com")
	require.NoError(t, err)
	assert.Empty(t, take)
	assert.Empty(t, recs)

	require.NoError(t, db.Create(&models.Feedback{SessionID: 1, MenteeEmail: "ben@corp.com", Takeaway: "Look into Fiori"}).Error)
	take, recs, err = s.Recommendations(ctx, "BEN@corp.com")
	require.NoError(t, err)
	assert.Equal(t, "Look into Fiori", take)
	require.Len(t, recs, 1)
	assert.Equal(t, "Fiori", recs[0].Skill)

	_, err = s.GeneratePlan(ctx, "ben@corp.com", "Data Analyst", "", time.Time{})
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)
	_, err = s.GeneratePlan(ctx, "ben@corp.com", "Chef", "", time.Time{})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestService_Analyze(t *testing.T) {
	s := NewService(nil, nil, logger.Nop())
	a, err := s.Analyze("data analyst", "SQL:4, Power BI:3, Excel:4, Python:3")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", a.Role)
	assert.Equal(t, 100.0, a.Readiness)
	assert.Empty(t, a.Suggestions)
}
