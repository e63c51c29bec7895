package notification

import (
	"context"
	"testing"

	"github.com/samyuktha-jana/SAP-hackathon/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListClear(t *testing.T) {
	ctx := context.Background()
	s := NewService(testutil.NewDB(t))

	_, err := s.Add(ctx, "Cleo@Corp.com", "first", "")
	require.NoError(t, err)
	_, err = s.Add(ctx, "cleo@corp.com", "second", "invites/session_1.ics")
	require.NoError(t, err)
	_, err = s.Add(ctx, "ben@corp.com", "other user", "")
	require.NoError(t, err)

	list, err := s.List(ctx, "cleo@corp.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "invites/session_1.ics", list[0].ICSPath)

	n, err := s.Clear(ctx, "cleo@corp.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err = s.List(ctx, "cleo@corp.com")
	require.NoError(t, err)
	assert.Empty(t, list)

	// other users keep theirs
	list, _ = s.List(ctx, "ben@corp.com")
	assert.Len(t, list, 1)
}

func TestGet_Ownership(t *testing.T) {
	ctx := context.Background()
	s := NewService(testutil.NewDB(t))

	n, err := s.Add(ctx, "cleo@corp.com", "hi", "invites/session_2.ics")
	require.NoError(t, err)

	got, err := s.Get(ctx, n.ID, "cleo@corp.com")
	require.NoError(t, err)
	assert.Equal(t, "invites/session_2.ics", got.ICSPath)

	_, err = s.Get(ctx, n.ID, "ben@corp.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
