package services_test

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/game"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/services"
	"github.com/vytor/memorymatch/internal/testutil/mocks"
)

var (
	numbersTheme = &models.Theme{ID: 1, Name: "Numbers", Active: true}
	colorsTheme  = &models.Theme{ID: 2, Name: "Colors", Active: true}
	retiredTheme = &models.Theme{ID: 3, Name: "Retired", Active: false}
)

func newGameService(t *testing.T, cfg services.GameConfig, opts ...game.Option) (services.GameService, *mocks.MockJobQueue) {
	themes := new(mocks.MockThemeRepository)
	themes.On("Get", mock.Anything, int64(1)).Return(numbersTheme, nil)
	themes.On("Get", mock.Anything, int64(2)).Return(colorsTheme, nil)
	themes.On("Get", mock.Anything, int64(3)).Return(retiredTheme, nil)
	themes.On("Get", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	queue := new(mocks.MockJobQueue)
	opts = append([]game.Option{game.WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	svc := services.NewGameService(services.NewThemeService(themes), queue, cfg, opts...)
	return svc, queue
}

// solve plays every remaining pair by trying positions in order.
func solve(t *testing.T, svc services.GameService, id string) *models.FlipResult {
	t.Helper()
	ctx := context.Background()
	var last *models.FlipResult
	for {
		view, err := svc.Snapshot(ctx, id)
		require.NoError(t, err)
		if view.Finished {
			return last
		}
		var open []int
		for _, c := range view.Cards {
			if !c.Matched {
				open = append(open, c.Position)
			}
		}
		matched := false
		for i := 0; i < len(open) && !matched; i++ {
			for j := i + 1; j < len(open) && !matched; j++ {
				_, err := svc.Flip(ctx, id, open[i])
				require.NoError(t, err)
				res, err := svc.Flip(ctx, id, open[j])
				require.NoError(t, err)
				last = res
				matched = res.Outcome == game.Matched.String()
			}
		}
		require.True(t, matched, "no pair found among %v", open)
	}
}

func TestGameService_StartHidesValues(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{RevealDelay: 700 * time.Millisecond})

	view, err := svc.Start(context.Background(), 0, 1, deck.Grid4x4)
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Numbers", view.ThemeName)
	assert.Equal(t, 4, view.Rows)
	assert.Len(t, view.Cards, 16)
	assert.Equal(t, int64(700), view.RevealDelayMS)
	assert.Zero(t, view.Attempts)
	assert.False(t, view.Finished)
	for _, c := range view.Cards {
		assert.Empty(t, c.Value)
		assert.False(t, c.FaceUp)
	}
	assert.Equal(t, 1, svc.Active())
}

func TestGameService_StartRejects(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{})
	ctx := context.Background()

	_, err := svc.Start(ctx, 0, 99, deck.Grid4x4)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	_, err = svc.Start(ctx, 0, 3, deck.Grid4x4)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.Start(ctx, 0, 1, deck.Grid{Rows: 1, Cols: 1})
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	assert.Zero(t, svc.Active())
}

func TestGameService_FlipRevealsAndCounts(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{})
	ctx := context.Background()
	view, err := svc.Start(ctx, 0, 2, deck.Grid{Rows: 2, Cols: 2})
	require.NoError(t, err)

	first, err := svc.Flip(ctx, view.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "pending", first.Outcome)
	require.Len(t, first.Revealed, 1)
	assert.NotEmpty(t, first.Revealed[0].Value)
	assert.NotEmpty(t, first.Revealed[0].Color)
	assert.True(t, first.Game.Cards[0].FaceUp)

	again, err := svc.Flip(ctx, view.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "noop", again.Outcome)
	assert.Zero(t, again.Game.Attempts)

	second, err := svc.Flip(ctx, view.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Game.Attempts)
	require.Len(t, second.Revealed, 2)
	if second.Revealed[0].Value == second.Revealed[1].Value {
		assert.Equal(t, "matched", second.Outcome)
		assert.True(t, second.Game.Cards[1].Matched)
	} else {
		assert.Equal(t, "mismatched", second.Outcome)
		assert.False(t, second.Game.Cards[0].FaceUp)
		assert.False(t, second.Game.Cards[1].FaceUp)
	}

	out, err := svc.Flip(ctx, view.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, "noop", out.Outcome)

	_, err = svc.Flip(ctx, "missing", 0)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestGameService_FinishQueuesScoreOnce(t *testing.T) {
	svc, queue := newGameService(t, services.GameConfig{})
	ctx := context.Background()
	queue.On("EnqueueScore", mock.MatchedBy(func(s models.Score) bool {
		return s.UserID == 7 && s.ThemeID == 1 && s.Attempts >= 2
	})).Return(nil).Once()

	view, err := svc.Start(ctx, 7, 1, deck.Grid{Rows: 2, Cols: 2})
	require.NoError(t, err)

	last := solve(t, svc, view.ID)
	require.NotNil(t, last)
	assert.True(t, last.Game.Finished)

	// Flips after the finish change nothing and queue nothing.
	res, err := svc.Flip(ctx, view.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "noop", res.Outcome)
	queue.AssertExpectations(t)
}

func TestGameService_GuestScoreNotQueued(t *testing.T) {
	svc, queue := newGameService(t, services.GameConfig{})
	view, err := svc.Start(context.Background(), 0, 1, deck.Grid{Rows: 1, Cols: 2})
	require.NoError(t, err)

	solve(t, svc, view.ID)
	queue.AssertNotCalled(t, "EnqueueScore", mock.Anything)
}

func TestGameService_RestartResets(t *testing.T) {
	svc, queue := newGameService(t, services.GameConfig{})
	queue.On("EnqueueScore", mock.Anything).Return(nil)
	ctx := context.Background()

	view, err := svc.Start(ctx, 7, 1, deck.Grid{Rows: 1, Cols: 2})
	require.NoError(t, err)
	solve(t, svc, view.ID)

	restarted, err := svc.Restart(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, restarted.ID)
	assert.Zero(t, restarted.Attempts)
	assert.False(t, restarted.Finished)
	assert.Zero(t, restarted.ElapsedSeconds)

	// A second completion is recorded again.
	solve(t, svc, view.ID)
	queue.AssertNumberOfCalls(t, "EnqueueScore", 2)
}

func TestGameService_AbandonStopsClock(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{ClockInterval: 5 * time.Millisecond})
	ctx := context.Background()

	view, err := svc.Start(ctx, 0, 1, deck.Grid4x4)
	require.NoError(t, err)

	ticks, err := svc.Clock(ctx, view.ID)
	require.NoError(t, err)
	first, ok := <-ticks
	require.True(t, ok)
	assert.GreaterOrEqual(t, first, 0)

	require.NoError(t, svc.Abandon(ctx, view.ID))
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ticks:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	assert.True(t, errors.HasCode(svc.Abandon(ctx, view.ID), errors.ErrCodeNotFound))
	_, err = svc.Clock(ctx, view.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestGameService_ClockEndsWhenFinished(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{ClockInterval: 5 * time.Millisecond})
	ctx := context.Background()

	view, err := svc.Start(ctx, 0, 1, deck.Grid{Rows: 1, Cols: 2})
	require.NoError(t, err)
	ticks, err := svc.Clock(ctx, view.ID)
	require.NoError(t, err)

	solve(t, svc, view.ID)
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ticks:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestGameService_ClockFollowsRestart(t *testing.T) {
	var nowMS atomic.Int64
	nowMS.Store(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli())
	now := func() time.Time { return time.UnixMilli(nowMS.Load()) }

	svc, _ := newGameService(t, services.GameConfig{ClockInterval: 5 * time.Millisecond}, game.WithClock(now))
	ctx := context.Background()

	view, err := svc.Start(ctx, 0, 1, deck.Grid4x4)
	require.NoError(t, err)
	ticks, err := svc.Clock(ctx, view.ID)
	require.NoError(t, err)

	reaches := func(want int) func() bool {
		return func() bool {
			select {
			case elapsed, ok := <-ticks:
				return ok && elapsed == want
			default:
				return false
			}
		}
	}

	nowMS.Add((42 * time.Second).Milliseconds())
	assert.Eventually(t, reaches(42), time.Second, time.Millisecond)

	_, err = svc.Restart(ctx, view.ID)
	require.NoError(t, err)
	assert.Eventually(t, reaches(0), time.Second, time.Millisecond)

	nowMS.Add((3 * time.Second).Milliseconds())
	assert.Eventually(t, reaches(3), time.Second, time.Millisecond)

	require.NoError(t, svc.Abandon(ctx, view.ID))
}

func TestGameService_StopClocksKeepsGames(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{ClockInterval: 5 * time.Millisecond})
	ctx := context.Background()

	view, err := svc.Start(ctx, 0, 1, deck.Grid4x4)
	require.NoError(t, err)
	ticks, err := svc.Clock(ctx, view.ID)
	require.NoError(t, err)
	_, ok := <-ticks
	require.True(t, ok)

	svc.StopClocks()
	closed := func(ch <-chan int) func() bool {
		return func() bool {
			select {
			case _, ok := <-ch:
				return !ok
			default:
				return false
			}
		}
	}
	assert.Eventually(t, closed(ticks), time.Second, 5*time.Millisecond)

	later, err := svc.Clock(ctx, view.ID)
	require.NoError(t, err)
	assert.Eventually(t, closed(later), time.Second, 5*time.Millisecond)

	snap, err := svc.Snapshot(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, snap.ID)
	assert.Equal(t, 1, svc.Active())
}

func TestGameService_EvictIdle(t *testing.T) {
	svc, _ := newGameService(t, services.GameConfig{IdleTTL: time.Minute})
	ctx := context.Background()

	_, err := svc.Start(ctx, 0, 1, deck.Grid4x4)
	require.NoError(t, err)

	assert.Zero(t, svc.EvictIdle(time.Now()))
	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(2*time.Minute)))
	assert.Zero(t, svc.Active())
}
