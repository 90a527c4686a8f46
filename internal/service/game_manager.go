package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/emailchess-backend/internal/model"
	"github.com/benbeisheim/emailchess-backend/internal/storage"
)

// SnapshotStore persists the latest board and the seating of each game.
type SnapshotStore interface {
	Save(gameID string, b *model.Board) error
	Load(gameID string) (*model.Board, error)
	SaveSeats(gameID string, seats model.Seats) error
	LoadSeats(gameID string) (model.Seats, error)
}

type MatchFound struct {
	GameID string     `json:"game_id"`
	Color  model.Side `json:"color"`
}

type GameManager struct {
	games   map[string]*Session
	queue   *model.Queue
	matches map[string]MatchFound // playerID -> game found for them
	store   SnapshotStore
	mu      sync.RWMutex
}

func NewGameManager(store SnapshotStore) *GameManager {
	return &GameManager{
		games:   make(map[string]*Session),
		queue:   model.NewQueue(),
		matches: make(map[string]MatchFound),
		store:   store,
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchQueued()
		}
	}
}

// matchQueued creates a game for every pair waiting in the queue.
func (gm *GameManager) matchQueued() int {
	matched := 0
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return matched
		}

		session, err := gm.CreateGame(uuid.New().String())
		if err != nil {
			log.Errorf("matchmaking: create game: %v", err)
			return matched
		}
		firstSide, _ := session.AddPlayer(first.PlayerID)
		secondSide, _ := session.AddPlayer(second.PlayerID)

		gm.mu.Lock()
		gm.matches[first.PlayerID] = MatchFound{GameID: session.ID, Color: firstSide}
		gm.matches[second.PlayerID] = MatchFound{GameID: session.ID, Color: secondSide}
		gm.mu.Unlock()

		log.Infof("matchmaking: game %s for %s (%s) and %s (%s)",
			session.ID, first.PlayerID, firstSide, second.PlayerID, secondSide)
		matched++
	}
}

func (gm *GameManager) newSession(gameID string, board *model.Board, seats model.Seats) *Session {
	return newSession(gameID, board, seats, gm.persist, gm.persistSeats)
}

// persist exports every committed board to the snapshot store. A failed
// save is logged; the move itself stands.
func (gm *GameManager) persist(s *Session, b *model.Board) {
	if gm.store == nil {
		return
	}
	if err := gm.store.Save(s.ID, b); err != nil {
		log.Errorf("game %s: save snapshot: %v", s.ID, err)
		return
	}
	log.Debugf("game %s: snapshot saved, %s to move", s.ID, b.Turn())
}

// persistSeats stores the seating every time a seat is taken.
func (gm *GameManager) persistSeats(s *Session, seats model.Seats) {
	if gm.store == nil {
		return
	}
	if err := gm.store.SaveSeats(s.ID, seats); err != nil {
		log.Errorf("game %s: save seats: %v", s.ID, err)
	}
}

func (gm *GameManager) CreateGame(gameID string) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	board := model.NewBoard()
	session := gm.newSession(gameID, board, model.Seats{})
	gm.games[gameID] = session
	gm.persist(session, board)
	return session, nil
}

// GetGame returns a live game, restoring it from the snapshot store when it
// is not in memory.
func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	session, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return session, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	board, err := gm.store.Load(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}
	seats, err := gm.store.LoadSeats(gameID)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	if session, exists := gm.games[gameID]; exists {
		return session, nil
	}
	session = gm.newSession(gameID, board, seats)
	gm.games[gameID] = session
	log.Infof("game %s: restored from snapshot, %s to move", gameID, board.Turn())
	return session, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.Add(playerID); err != nil {
		return err
	}
	log.Debugf("matchmaking: player %s queued, %d waiting", playerID, gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchFor returns the game found for playerID, if matchmaking has paired
// them.
func (gm *GameManager) MatchFor(playerID string) (MatchFound, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	m, ok := gm.matches[playerID]
	return m, ok
}
