package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/emailchess-backend/internal/model"
	"github.com/benbeisheim/emailchess-backend/internal/service"
	"github.com/benbeisheim/emailchess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		if err := c.WriteJSON(ws.ErrorMessage(err.Error())); err != nil {
			log.Debugf("game %s: send registration error to %s: %v", gameID, playerID, err)
		}
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("game %s: parse message from %s: %v", gameID, playerID, err)
			continue
		}

		reply, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			reply = ws.ErrorMessage(err.Error())
		}
		if err := wsc.gameService.Send(gameID, playerID, reply); err != nil {
			log.Warnf("game %s: reply to %s: %v", gameID, playerID, err)
			return
		}
	}
}

// handleMessage runs one client message and returns the reply for the
// sender. Committed moves are broadcast by the service.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (ws.Message, error) {
	var (
		result model.ClickResult
		err    error
	)
	switch msg.Type {
	case ws.MessageTypeClick:
		var sq model.Square
		if err := json.Unmarshal(msg.Payload, &sq); err != nil {
			return ws.Message{}, fmt.Errorf("invalid click payload: %w", err)
		}
		result, _, err = wsc.gameService.HandleClick(gameID, playerID, sq)
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return ws.Message{}, fmt.Errorf("invalid move payload: %w", err)
		}
		result, _, err = wsc.gameService.HandleMove(gameID, playerID, move)
	default:
		return ws.Message{}, fmt.Errorf("unknown message type: %s", msg.Type)
	}
	if err != nil {
		return ws.Message{}, err
	}
	return ws.NewMessage(ws.MessageTypeClickResult, result)
}
