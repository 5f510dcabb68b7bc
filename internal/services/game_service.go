package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/game"
	"github.com/vytor/memorymatch/internal/jobs"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
)

// GameConfig holds the presentation and lifecycle settings for sessions.
type GameConfig struct {
	ClockInterval time.Duration
	RevealDelay   time.Duration
	IdleTTL       time.Duration
}

// GameService owns active sessions. Every action on one session runs under
// that session's lock.
type GameService interface {
	Start(ctx context.Context, userID, themeID int64, grid deck.Grid) (*models.GameView, error)
	Snapshot(ctx context.Context, id string) (*models.GameView, error)
	Flip(ctx context.Context, id string, position int) (*models.FlipResult, error)
	Restart(ctx context.Context, id string) (*models.GameView, error)
	Abandon(ctx context.Context, id string) error
	// Clock streams elapsed seconds until the session finishes or is
	// abandoned, or ctx is done. A restart keeps the stream open.
	Clock(ctx context.Context, id string) (<-chan int, error)
	// StopClocks ends every clock stream, open or future, without touching
	// the games. Used on shutdown.
	StopClocks()
	EvictIdle(now time.Time) int
	RunJanitor(ctx context.Context, interval time.Duration)
	Active() int
}

type activeGame struct {
	mu       sync.Mutex
	id       string
	userID   int64
	theme    models.Theme
	category deck.Category
	grid     deck.Grid
	values   []string
	session  *game.Session
	lastSeen time.Time
	recorded bool

	clockCtx    context.Context
	cancelClock context.CancelFunc
}


type gameService struct {
	themes   ThemeService
	queue    jobs.JobQueue
	cfg      GameConfig
	now      func() time.Time
	sessOpts []game.Option

	streams     context.Context
	stopStreams context.CancelFunc

	mu    sync.Mutex
	games map[string]*activeGame
}

// NewGameService creates a new GameService. Session options are applied to
// every session it creates.
func NewGameService(themes ThemeService, queue jobs.JobQueue, cfg GameConfig, opts ...game.Option) GameService {
	if cfg.ClockInterval <= 0 {
		cfg.ClockInterval = game.DefaultClockInterval
	}
	streams, stopStreams := context.WithCancel(context.Background())
	return &gameService{
		themes:      themes,
		queue:       queue,
		cfg:         cfg,
		now:         time.Now,
		sessOpts:    opts,
		streams:     streams,
		stopStreams: stopStreams,
		games:       map[string]*activeGame{},
	}
}

func (s *gameService) Start(ctx context.Context, userID, themeID int64, grid deck.Grid) (*models.GameView, error) {
	log := logger.FromContext(ctx).WithPrefix("game")
	log.Debug("starting game: user_id=%d, theme_id=%d, grid=%s", userID, themeID, grid)

	theme, err := s.themes.Get(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if !theme.Active {
		return nil, errors.NewValidationError("theme_id", "theme is not active")
	}

	category := deck.CategoryForTheme(theme.Name)
	values, err := deck.Values(category, grid.PairCount())
	if err != nil {
		return nil, err
	}

	session := game.NewSession(s.sessOpts...)
	if err := session.Start(values, theme.ID); err != nil {
		return nil, err
	}

	g := &activeGame{
		id:       uuid.NewString(),
		userID:   userID,
		theme:    *theme,
		category: category,
		grid:     grid,
		values:   values,
		session:  session,
		lastSeen: s.now(),
	}
	// Clock streams outlive restarts and end on abandon or eviction.
	g.clockCtx, g.cancelClock = context.WithCancel(context.Background())

	s.mu.Lock()
	s.games[g.id] = g
	s.mu.Unlock()

	log.Info("game started: id=%s, category=%s, pairs=%d", g.id, category, grid.PairCount())

	g.mu.Lock()
	defer g.mu.Unlock()
	view := s.view(g)
	return &view, nil
}

func (s *gameService) lookup(id string) (*activeGame, error) {
	s.mu.Lock()
	g, ok := s.games[id]
	s.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("game", id)
	}
	return g, nil
}

func (s *gameService) Snapshot(ctx context.Context, id string) (*models.GameView, error) {
	logger.FromContext(ctx).WithPrefix("game").Debug("snapshot: id=%s", id)

	g, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastSeen = s.now()
	view := s.view(g)
	return &view, nil
}

func (s *gameService) Flip(ctx context.Context, id string, position int) (*models.FlipResult, error) {
	log := logger.FromContext(ctx).WithPrefix("game").WithField("game_id", id)
	log.Debug("flip: position=%d", position)

	g, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastSeen = s.now()

	prev, hadPrev := g.session.Pending()
	outcome := g.session.Flip(position)
	if g.session.IsFinished() && !g.recorded {
		g.recorded = true
		s.record(log, g)
	}

	result := &models.FlipResult{Outcome: outcome.String(), Game: s.view(g)}
	d := g.session.Deck()
	switch outcome {
	case game.Pending:
		result.Revealed = []models.CardView{s.faceUp(g, d[position])}
	case game.Matched, game.Mismatched:
		if hadPrev {
			result.Revealed = []models.CardView{s.faceUp(g, d[prev]), s.faceUp(g, d[position])}
		}
	}
	return result, nil
}

// record queues the result of a finished session. Guests have no user id
// and their results are not stored.
func (s *gameService) record(log *logger.Logger, g *activeGame) {
	score := g.session.Result(g.userID)
	log.Info("game finished: attempts=%d, time=%ds", score.Attempts, score.TimeSeconds)
	if g.userID == 0 || s.queue == nil {
		log.Debug("guest game, result not stored")
		return
	}
	if err := s.queue.EnqueueScore(score); err != nil {
		log.Error("failed to queue score: %v", err)
	}
}

func (s *gameService) Restart(ctx context.Context, id string) (*models.GameView, error) {
	log := logger.FromContext(ctx).WithPrefix("game")
	log.Debug("restart: id=%s", id)

	g, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.session.Start(g.values, g.theme.ID); err != nil {
		log.Error("failed to redeal game %s: %v", id, err)
		return nil, errors.NewInternalError(err)
	}
	g.recorded = false
	g.lastSeen = s.now()

	view := s.view(g)
	return &view, nil
}

func (s *gameService) Abandon(ctx context.Context, id string) error {
	logger.FromContext(ctx).WithPrefix("game").Debug("abandon: id=%s", id)

	s.mu.Lock()
	g, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()
	if !ok {
		return errors.NewNotFoundError("game", id)
	}

	g.mu.Lock()
	g.cancelClock()
	g.mu.Unlock()
	return nil
}

func (s *gameService) Clock(ctx context.Context, id string) (<-chan int, error) {
	g, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	clockCtx := g.clockCtx
	session := g.session
	g.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	stopGame := context.AfterFunc(clockCtx, cancel)
	stopAll := context.AfterFunc(s.streams, cancel)
	go func() {
		<-ctx.Done()
		stopGame()
		stopAll()
	}()

	ticks := game.NewClock(session, s.cfg.ClockInterval).Ticks(ctx)
	out := make(chan int, 1)
	go func() {
		defer cancel()
		defer close(out)
		for elapsed := range ticks {
			select {
			case out <- elapsed:
			default:
			}
		}
	}()
	return out, nil
}

func (s *gameService) EvictIdle(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}

	var evicted []*activeGame
	s.mu.Lock()
	for id, g := range s.games {
		g.mu.Lock()
		idle := now.Sub(g.lastSeen) > s.cfg.IdleTTL
		g.mu.Unlock()
		if idle {
			delete(s.games, id)
			evicted = append(evicted, g)
		}
	}
	s.mu.Unlock()

	for _, g := range evicted {
		g.mu.Lock()
		g.cancelClock()
		g.mu.Unlock()
	}
	if len(evicted) > 0 {
		logger.Default().WithPrefix("game").Info("evicted %d idle games", len(evicted))
	}
	return len(evicted)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (s *gameService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.EvictIdle(t)
		}
	}
}

func (s *gameService) StopClocks() {
	s.stopStreams()
}

func (s *gameService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *gameService) faceUp(g *activeGame, c deck.Card) models.CardView {
	cv := models.CardView{Position: c.Position, FaceUp: true, Matched: c.Matched, Value: c.Value}
	if g.category == deck.Palette {
		cv.Color, _ = deck.ColorHex(c.Value)
	}
	return cv
}

// view must be called with g.mu held.
func (s *gameService) view(g *activeGame) models.GameView {
	d := g.session.Deck()
	pending, hasPending := g.session.Pending()

	cards := make([]models.CardView, len(d))
	for i, c := range d {
		if c.Matched || (hasPending && pending == c.Position) {
			cards[i] = s.faceUp(g, c)
		} else {
			cards[i] = models.CardView{Position: c.Position}
		}
	}

	return models.GameView{
		ID:             g.id,
		UserID:         g.userID,
		ThemeID:        g.theme.ID,
		ThemeName:      g.theme.Name,
		Rows:           g.grid.Rows,
		Cols:           g.grid.Cols,
		Cards:          cards,
		Attempts:       g.session.Attempts(),
		ElapsedSeconds: g.session.ElapsedSeconds(),
		Finished:       g.session.IsFinished(),
		RevealDelayMS:  s.cfg.RevealDelay.Milliseconds(),
	}
}
