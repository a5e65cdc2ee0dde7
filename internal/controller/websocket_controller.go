package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/msgcat"
	"github.com/benbeisheim/hotseat-chess/internal/obslog"
	"github.com/benbeisheim/hotseat-chess/internal/service"
	"github.com/benbeisheim/hotseat-chess/internal/ws"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

type WebSocketController struct {
	gameService *service.GameService
	catalog     *msgcat.Catalog
	logger      *zap.Logger
}

func NewWebSocketController(gameService *service.GameService, catalog *msgcat.Catalog, logger *zap.Logger) *WebSocketController {
	if logger == nil {
		logger = obslog.L()
	}
	return &WebSocketController{
		gameService: gameService,
		catalog:     catalog,
		logger:      logger,
	}
}

// wsConn serializes writes; broadcasts from REST handlers and replies from
// the read loop share one socket.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

type moveResultPayload struct {
	Result model.MoveResult `json:"result"`
	Error  string           `json:"error,omitempty"`
	Notice string           `json:"notice"`
}

type legalMovesRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// HandleConnection runs for the lifetime of one websocket.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	if gameID == "" {
		gameID = c.Params("gameId")
	}
	log := wsc.logger.With(zap.String("game_id", gameID))
	conn := &wsConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, conn); err != nil {
		log.Warn("failed to register connection", zap.Error(err))
		wsc.sendError(conn, err.Error())
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, conn)
	log.Debug("websocket connected")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug("websocket closed", zap.Error(err))
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, "malformed message")
			continue
		}
		if err := wsc.handleMessage(gameID, conn, msg); err != nil {
			log.Debug("message failed", zap.String("type", string(msg.Type)), zap.Error(err))
			wsc.sendError(conn, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID string, conn service.Subscriber, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		if move.Promotion != "" && !move.Promotion.IsValid() {
			return fmt.Errorf("unknown promotion piece %q", move.Promotion)
		}
		outcome, err := wsc.gameService.HandleMove(gameID, move)
		if err != nil {
			return err
		}
		payload := moveResultPayload{
			Result: outcome.Result,
			Notice: moveNotice(wsc.catalog, outcome.Result, outcome.Err, outcome.State),
		}
		if outcome.Err != nil {
			payload.Error = outcome.Err.Error()
		}
		return wsc.send(conn, ws.MessageTypeMoveResult, payload)

	case ws.MessageTypeUndo:
		_, undone, err := wsc.gameService.Undo(gameID)
		if err != nil {
			return err
		}
		if !undone {
			return errors.New(wsc.catalog.MustRender("undo.empty", nil))
		}
		return nil

	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID)
		return err

	case ws.MessageTypeLegalMoves:
		var req legalMovesRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return fmt.Errorf("invalid legalMoves payload: %w", err)
			}
		}
		if req.Row == nil || req.Col == nil {
			all, err := wsc.gameService.AllLegalMoves(gameID)
			if err != nil {
				return err
			}
			return wsc.send(conn, ws.MessageTypeLegalMoves, all)
		}
		from := model.Position{Row: *req.Row, Col: *req.Col}
		moves, err := wsc.gameService.LegalMoves(gameID, from)
		if err != nil {
			return err
		}
		return wsc.send(conn, ws.MessageTypeLegalMoves, model.PieceMoves{From: from, Moves: moves})

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) send(conn service.Subscriber, t ws.MessageType, payload interface{}) error {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (wsc *WebSocketController) sendError(conn service.Subscriber, errorMsg string) {
	if err := wsc.send(conn, ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg}); err != nil {
		wsc.logger.Debug("failed to send error", zap.Error(err))
	}
}
