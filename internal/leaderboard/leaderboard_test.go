package leaderboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/memorymatch/internal/leaderboard"
	"github.com/vytor/memorymatch/internal/models"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func score(id, user, theme int64, attempts, secs int, hoursAgo int) models.Score {
	return models.Score{
		ID:          id,
		UserID:      user,
		ThemeID:     theme,
		Attempts:    attempts,
		TimeSeconds: secs,
		PlayedAt:    base.Add(-time.Duration(hoursAgo) * time.Hour),
	}
}

func ids(scores []models.Score) []int64 {
	out := make([]int64, len(scores))
	for i, s := range scores {
		out[i] = s.ID
	}
	return out
}

func TestCompute_BestPerPlayer(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 5, 30, 3),
		score(2, 1, 1, 3, 40, 2),
		score(3, 2, 1, 3, 20, 1),
	}

	view := leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)

	assert.Equal(t, leaderboard.PerUserBest, view.Mode)
	assert.Equal(t, []int64{3, 2}, ids(view.Scores))
}

func TestCompute_SelectedPlayerGetsEveryScore(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 5, 30, 3),
		score(2, 1, 2, 3, 40, 2),
		score(3, 2, 1, 3, 20, 1),
		score(4, 1, 1, 9, 90, 0),
	}

	view := leaderboard.Compute(scores, leaderboard.RecentFirst, 1, leaderboard.AllThemes)

	assert.Equal(t, leaderboard.AllForSelectedUser, view.Mode)
	assert.Equal(t, []int64{4, 2, 1}, ids(view.Scores))
}

func TestCompute_ThemeFilter(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 2, 30, 3),
		score(2, 1, 2, 8, 40, 2),
		score(3, 2, 2, 4, 20, 1),
	}

	view := leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, 2)
	assert.Equal(t, []int64{3, 2}, ids(view.Scores), "player 1's better score on theme 1 is excluded")

	view = leaderboard.Compute(scores, leaderboard.RecentFirst, 1, 2)
	assert.Equal(t, []int64{2}, ids(view.Scores))
}

func TestCompute_SortKeys(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 4, 50, 2),
		score(2, 1, 1, 6, 10, 0),
		score(3, 1, 1, 4, 30, 5),
	}

	tests := []struct {
		key  leaderboard.SortKey
		want []int64
	}{
		{leaderboard.RecentFirst, []int64{2, 1, 3}},
		{leaderboard.OldestFirst, []int64{3, 1, 2}},
		{leaderboard.BestResult, []int64{3, 1, 2}},
		{leaderboard.FastestTime, []int64{2, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			view := leaderboard.Compute(scores, tt.key, 1, leaderboard.AllThemes)
			assert.Equal(t, tt.want, ids(view.Scores))
		})
	}
}

func TestCompute_FewerAttemptsBeatFasterTime(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 5, 10, 0),
		score(2, 1, 1, 4, 500, 0),
	}
	view := leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)
	require.Len(t, view.Scores, 1)
	assert.Equal(t, int64(2), view.Scores[0].ID)
}

func TestCompute_EmptyInput(t *testing.T) {
	view := leaderboard.Compute(nil, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)
	assert.NotNil(t, view.Scores)
	assert.Empty(t, view.Scores)
	assert.Equal(t, leaderboard.PerUserBest, view.Mode)
}

func TestCompute_Idempotent(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 4, 30, 2),
		score(2, 2, 1, 4, 30, 2),
		score(3, 3, 1, 4, 30, 2),
		score(4, 1, 1, 4, 30, 1),
	}
	first := leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)
	for i := 0; i < 10; i++ {
		again := leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids(first.Scores), "ties keep first-seen order")
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	scores := []models.Score{
		score(1, 1, 1, 9, 30, 2),
		score(2, 2, 1, 1, 30, 1),
	}
	_ = leaderboard.Compute(scores, leaderboard.BestResult, leaderboard.AllPlayers, leaderboard.AllThemes)
	assert.Equal(t, []int64{1, 2}, ids(scores))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, leaderboard.BestResult, leaderboard.ParseSortKey("BEST"))
	assert.Equal(t, leaderboard.FastestTime, leaderboard.ParseSortKey("fastest"))
	assert.Equal(t, leaderboard.OldestFirst, leaderboard.ParseSortKey(" oldest "))
	assert.Equal(t, leaderboard.RecentFirst, leaderboard.ParseSortKey(""))
	assert.Equal(t, leaderboard.RecentFirst, leaderboard.ParseSortKey("bogus"))
}
