package service

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/emailchess-backend/internal/model"
	"github.com/benbeisheim/emailchess-backend/internal/transport"
	"github.com/benbeisheim/emailchess-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
	codec       *transport.Codec
}

func NewGameService(gameManager *GameManager, codec *transport.Codec) *GameService {
	return &GameService{
		gameManager: gameManager,
		codec:       codec,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("game %s: created", gameID)
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return 0, err
	}
	return session.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchFor(playerID string) (MatchFound, bool) {
	return gs.gameManager.MatchFor(playerID)
}

func (gs *GameService) GetBoard(gameID string) (*model.Board, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.Board(), nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return gs.stateOf(session)
}

func (gs *GameService) stateOf(session *Session) (GameState, error) {
	state, board := session.snapshot()
	return gs.withSnapshot(state, board)
}

// withSnapshot fills in the transport form of board, which must be the board
// state describes.
func (gs *GameService) withSnapshot(state GameState, board *model.Board) (GameState, error) {
	snapshot, err := gs.codec.Encode(board)
	if err != nil {
		return GameState{}, fmt.Errorf("game %s: encode snapshot: %w", state.ID, err)
	}
	state.Snapshot = snapshot
	state.Compression = string(gs.codec.Compression())
	return state, nil
}

// HandleClick runs one click through the game's selection protocol.
func (gs *GameService) HandleClick(gameID, playerID string, sq model.Square) (model.ClickResult, GameState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.ClickResult{}, GameState{}, err
	}
	played, err := session.Click(playerID, sq)
	if err != nil {
		return model.ClickResult{}, GameState{}, err
	}
	return gs.afterClick(session, playerID, played)
}

// HandleMove plays a full from-to move.
func (gs *GameService) HandleMove(gameID, playerID string, move model.Move) (model.ClickResult, GameState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.ClickResult{}, GameState{}, err
	}
	played, err := session.Move(playerID, move)
	if err != nil {
		return model.ClickResult{}, GameState{}, err
	}
	return gs.afterClick(session, playerID, played)
}

func (gs *GameService) afterClick(session *Session, playerID string, played Played) (model.ClickResult, GameState, error) {
	res := played.Result
	state, err := gs.withSnapshot(played.State, played.Board)
	if err != nil {
		return res, GameState{}, err
	}
	if res.Outcome == model.ClickMoved {
		log.Infof("game %s: %s played %s-%s, %s to move", session.ID, playerID, res.From, res.To, state.Turn)
		gs.broadcastState(session, state)
	}
	return res, state, nil
}

func (gs *GameService) broadcastState(session *Session, state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", session.ID, err)
		return
	}
	session.BroadcastState(state.Version, msg)
}

// RegisterConnection attaches conn to the game and sends it the current
// state.
func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := session.RegisterConnection(playerID, conn); err != nil {
		return err
	}

	state, err := gs.stateOf(session)
	if err != nil {
		return err
	}
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		return err
	}
	return session.Send(playerID, msg)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID)
}

// Send writes msg to playerID's connection on the game.
func (gs *GameService) Send(gameID, playerID string, msg ws.Message) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.Send(playerID, msg)
}
