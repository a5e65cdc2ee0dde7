package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/obslog"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrTooManyGames = errors.New("too many games")
)

// Subscriber receives state pushes for a game. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

type session struct {
	game        *model.Game
	lastTouched atomic.Int64

	// opMu orders mutate-then-broadcast sequences on this game
	opMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[Subscriber]struct{}
}

func newSession(now time.Time) *session {
	s := &session{
		game:        model.NewGame(),
		subscribers: make(map[Subscriber]struct{}),
	}
	s.touch(now)
	return s
}

func (s *session) touch(now time.Time) {
	s.lastTouched.Store(now.UnixNano())
}

func (s *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastTouched.Load()))
}

// GameManager owns one engine per game id. Each model.Game serializes its
// own calls, so the manager lock only guards the table.
type GameManager struct {
	games    map[string]*session
	maxGames int
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger
	mu       sync.RWMutex
}

func NewGameManager(maxGames int, idleTTL time.Duration, logger *zap.Logger) *GameManager {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameManager{
		games:    make(map[string]*session),
		maxGames: maxGames,
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

func (gm *GameManager) CreateGame() (string, error) {
	gameID := uuid.New().String()
	if err := gm.createGame(gameID); err != nil {
		return "", err
	}
	return gameID, nil
}

func (gm *GameManager) createGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	if gm.maxGames > 0 && len(gm.games) >= gm.maxGames {
		return fmt.Errorf("%w: limit is %d", ErrTooManyGames, gm.maxGames)
	}
	gm.games[gameID] = newSession(gm.now())
	gm.logger.Info("game created", zap.String("game_id", gameID), zap.Int("games", len(gm.games)))
	return nil
}

// GetGame returns the engine for gameID and marks the game as used.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	s, err := gm.session(gameID)
	if err != nil {
		return nil, err
	}
	return s.game, nil
}

func (gm *GameManager) session(gameID string) (*session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	s, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	s.touch(gm.now())
	return s, nil
}

// WithGame runs fn on the game while holding its operation lock, so a
// mutation and the broadcast that follows it cannot interleave with
// another caller's.
func (gm *GameManager) WithGame(gameID string, fn func(game *model.Game)) error {
	s, err := gm.session(gameID)
	if err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	fn(s.game)
	return nil
}

func (gm *GameManager) HasGame(gameID string) bool {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	_, exists := gm.games[gameID]
	return exists
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	gm.logger.Info("game deleted", zap.String("game_id", gameID))
	return nil
}

// ListGames returns the ids of all live games, sorted.
func (gm *GameManager) ListGames() []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	ids := make([]string, 0, len(gm.games))
	for id := range gm.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (gm *GameManager) Subscribe(gameID string, sub Subscriber) error {
	s, err := gm.session(gameID)
	if err != nil {
		return err
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[sub] = struct{}{}
	return nil
}

func (gm *GameManager) Unsubscribe(gameID string, sub Subscriber) {
	gm.mu.RLock()
	s, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	delete(s.subscribers, sub)
}

// Broadcast writes v to every subscriber of gameID, dropping the ones whose
// write fails.
func (gm *GameManager) Broadcast(gameID string, v interface{}) {
	gm.mu.RLock()
	s, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for sub := range s.subscribers {
		if err := sub.WriteJSON(v); err != nil {
			gm.logger.Warn("dropping subscriber", zap.String("game_id", gameID), zap.Error(err))
			delete(s.subscribers, sub)
		}
	}
}

// Run evicts idle games every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.evictIdle()
		}
	}
}

func (gm *GameManager) evictIdle() int {
	if gm.idleTTL <= 0 {
		return 0
	}
	now := gm.now()

	gm.mu.Lock()
	defer gm.mu.Unlock()

	evicted := 0
	for id, s := range gm.games {
		if s.idleSince(now) > gm.idleTTL {
			delete(gm.games, id)
			evicted++
			gm.logger.Info("evicted idle game", zap.String("game_id", id))
		}
	}
	return evicted
}
