package service

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/emailchess-backend/internal/model"
	"github.com/benbeisheim/emailchess-backend/internal/ws"
)

// Conn is the write side of a client connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

// The connections watching a specific game
type sessionConnections struct {
	connections map[string]Conn // playerID -> connection
	version     uint64          // version of the last state broadcast
	mu          sync.RWMutex
}

// Session is one game and its observers. All engine calls happen under mu.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	seats       model.Seats
	lastMove    *model.Move
	version     uint64 // committed moves since the session was built
	onSeat      func(*Session, model.Seats)
	connections *sessionConnections
}

type GameState struct {
	ID       string        `json:"id"`
	Turn     model.Side    `json:"turn"`
	Pieces   []model.Piece `json:"pieces"`
	Selected *model.Square `json:"selected"`
	Players  model.Seats   `json:"players"`
	LastMove *model.Move   `json:"lastMove"`
	// Version grows with every move this session commits; clients keep the
	// highest they have seen.
	Version uint64 `json:"version"`
	// Snapshot is the transport form of the board.
	Snapshot    string `json:"snapshot"`
	Compression string `json:"compression"`
}

// Played is the result of one click together with the game as it stood
// right after it.
type Played struct {
	Result model.ClickResult
	State  GameState
	Board  *model.Board
}

// newSession builds a session over board. onCommit runs after every committed
// move and onSeat after every new seat, both under the session lock.
func newSession(id string, board *model.Board, seats model.Seats,
	onCommit func(*Session, *model.Board), onSeat func(*Session, model.Seats)) *Session {
	s := &Session{
		ID:     id,
		game:   model.NewGame(board),
		seats:  seats,
		onSeat: onSeat,
		connections: &sessionConnections{
			connections: make(map[string]Conn),
		},
	}
	s.game.OnCommit(func(b *model.Board) {
		onCommit(s, b)
	})
	return s
}

func (s *Session) AddPlayer(playerID string) (model.Side, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.seats
	side, ok := s.seats.Seat(playerID)
	if !ok {
		return 0, ErrGameFull
	}
	if s.seats != before && s.onSeat != nil {
		s.onSeat(s, s.seats)
	}
	log.Debugf("game %s: player %s seated as %s", s.ID, playerID, side)
	return side, nil
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seats.SideOf(playerID)
	return ok
}

// actingSide resolves who playerID acts for. Unseated games are shared, so
// ok is false with a nil error.
func (s *Session) actingSide(playerID string) (side model.Side, seated bool, err error) {
	if s.seats.Empty() {
		return 0, false, nil
	}
	side, ok := s.seats.SideOf(playerID)
	if !ok {
		return 0, false, ErrNotInGame
	}
	return side, true, nil
}

// Click feeds one board click from playerID into the selection protocol.
func (s *Session) Click(playerID string, sq model.Square) (Played, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	side, seated, err := s.actingSide(playerID)
	if err != nil {
		return Played{}, err
	}
	if seated {
		// A selection left by the opponent is not ours to complete.
		if sel, ok := s.game.Selected(); ok && sel.Side != side {
			s.game.ClearSelection()
		}
		if _, ok := s.game.Selection(); !ok {
			if p, _, ok := s.game.Board().PieceAt(sq); ok && p.Side != side {
				return s.played(model.ClickResult{Outcome: model.ClickIgnored, To: sq}), nil
			}
		}
	}

	res := s.game.Click(sq)
	s.recordMove(res)
	return s.played(res), nil
}

// Move plays from-to for playerID in one call.
func (s *Session) Move(playerID string, move model.Move) (Played, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !move.From.Valid() || !move.To.Valid() {
		return Played{}, fmt.Errorf("%w: %s", ErrOffBoard, move)
	}
	side, seated, err := s.actingSide(playerID)
	if err != nil {
		return Played{}, err
	}
	p, _, ok := s.game.Board().PieceAt(move.From)
	if !ok {
		return Played{}, fmt.Errorf("%w: %s", ErrNoPiece, move.From)
	}
	if seated && p.Side != side {
		return Played{}, fmt.Errorf("%w: %s %s on %s", ErrNotYourPiece, p.Side, p.Kind, move.From)
	}

	res := s.game.Move(move.From, move.To)
	s.recordMove(res)
	return s.played(res), nil
}

func (s *Session) recordMove(res model.ClickResult) {
	if res.Outcome == model.ClickMoved && res.From != nil {
		s.lastMove = &model.Move{From: *res.From, To: res.To}
		s.version++
	}
}

// played pairs res with the current state. Callers hold s.mu.
func (s *Session) played(res model.ClickResult) Played {
	state, b := s.stateLocked()
	return Played{Result: res, State: state, Board: b}
}

// Board returns a copy of the current board.
func (s *Session) Board() *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Board()
}

// snapshot returns the state together with the board it describes.
func (s *Session) snapshot() (GameState, *model.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() (GameState, *model.Board) {
	b := s.game.Board()
	state := GameState{
		ID:       s.ID,
		Turn:     b.Turn(),
		Pieces:   b.LivePieces(),
		Players:  s.seats,
		LastMove: s.lastMove,
		Version:  s.version,
	}
	if sq, ok := s.game.Selection(); ok {
		state.Selected = &sq
	}
	return state, b
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	s.mu.Lock()
	_, seated, err := s.actingSide(playerID)
	open := s.seats.White.ID == "" || s.seats.Black.ID == ""
	s.mu.Unlock()

	// Players and, while a seat is open, spectators may watch.
	if err != nil && !open {
		return ErrNotInGame
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	if _, exists := s.connections.connections[playerID]; exists {
		return fmt.Errorf("player %s already connected", playerID)
	}
	s.connections.connections[playerID] = conn
	log.Infof("game %s: registered connection for player %s (seated=%t)", s.ID, playerID, seated)
	return nil
}

func (s *Session) UnregisterConnection(playerID string) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if _, exists := s.connections.connections[playerID]; exists {
		delete(s.connections.connections, playerID)
		log.Infof("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

// broadcastLocked sends msg to every connection, dropping those that fail.
// Callers hold s.connections.mu.
func (s *Session) broadcastLocked(msg ws.Message) {
	for playerID, conn := range s.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send %s to player %s: %v", s.ID, msg.Type, playerID, err)
			delete(s.connections.connections, playerID)
		}
	}
}

// BroadcastState sends a state message of the given version to every
// connection. A version older than one already broadcast is dropped.
func (s *Session) BroadcastState(version uint64, msg ws.Message) bool {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if version < s.connections.version {
		log.Debugf("game %s: dropped stale state broadcast v%d (have v%d)", s.ID, version, s.connections.version)
		return false
	}
	s.connections.version = version
	s.broadcastLocked(msg)
	return true
}

// Send writes msg to playerID's connection only.
func (s *Session) Send(playerID string, msg ws.Message) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	conn, ok := s.connections.connections[playerID]
	if !ok {
		return fmt.Errorf("player %s not connected", playerID)
	}
	return conn.WriteJSON(msg)
}
