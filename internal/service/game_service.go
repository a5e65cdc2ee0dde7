package service

import (
	"fmt"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/obslog"
	"github.com/benbeisheim/hotseat-chess/internal/ws"
	"go.uber.org/zap"
)

// MoveOutcome is what a move attempt reports back to the caller. Err holds
// the rejection cause when Result is REJECTED.
type MoveOutcome struct {
	Result model.MoveResult `json:"result"`
	State  model.GameState  `json:"state"`
	Err    error            `json:"-"`
}

type GameService struct {
	gameManager *GameManager
	logger      *zap.Logger
}

func NewGameService(gameManager *GameManager, logger *zap.Logger) *GameService {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameService{
		gameManager: gameManager,
		logger:      logger,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID, err := gs.gameManager.CreateGame()
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) ListGames() []string {
	return gs.gameManager.ListGames()
}

func (gs *GameService) HasGame(gameID string) bool {
	return gs.gameManager.HasGame(gameID)
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from), nil
}

func (gs *GameService) AllLegalMoves(gameID string) ([]model.PieceMoves, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.AllLegalMoves(), nil
}

// HandleMove plays move on the game. The returned error is only set when
// the game itself cannot be found; engine rejections travel in the outcome.
func (gs *GameService) HandleMove(gameID string, move model.MoveRequest) (MoveOutcome, error) {
	var outcome MoveOutcome
	err := gs.gameManager.WithGame(gameID, func(game *model.Game) {
		result, state, moveErr := game.MakeMoveState(move)
		outcome = MoveOutcome{Result: result, State: state, Err: moveErr}

		log := gs.logger.With(
			zap.String("game_id", gameID),
			zap.Stringer("from", move.From),
			zap.Stringer("to", move.To),
			zap.String("result", string(result)),
		)
		if !result.Accepted() {
			log.Debug("move not committed", zap.Error(moveErr))
			return
		}
		log.Info("move committed")
		gs.broadcastState(gameID, state)
	})
	if err != nil {
		return MoveOutcome{}, err
	}
	return outcome, nil
}

// Undo reverts the last move. ok is false when the history was empty.
func (gs *GameService) Undo(gameID string) (state model.GameState, ok bool, err error) {
	err = gs.gameManager.WithGame(gameID, func(game *model.Game) {
		ok, state = game.UndoState()
		if ok {
			gs.logger.Info("move undone", zap.String("game_id", gameID))
			gs.broadcastState(gameID, state)
		}
	})
	if err != nil {
		return model.GameState{}, false, err
	}
	return state, ok, nil
}

func (gs *GameService) Reset(gameID string) (model.GameState, error) {
	var state model.GameState
	err := gs.gameManager.WithGame(gameID, func(game *model.Game) {
		state = game.ResetState()
		gs.logger.Info("game reset", zap.String("game_id", gameID))
		gs.broadcastState(gameID, state)
	})
	if err != nil {
		return model.GameState{}, err
	}
	return state, nil
}

// RegisterConnection subscribes sub to state pushes and sends it the
// current state straight away, ahead of any later broadcast.
func (gs *GameService) RegisterConnection(gameID string, sub Subscriber) error {
	var sendErr error
	err := gs.gameManager.WithGame(gameID, func(game *model.Game) {
		if sendErr = gs.gameManager.Subscribe(gameID, sub); sendErr != nil {
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeGameState, game.GetState())
		if err != nil {
			sendErr = err
			return
		}
		sendErr = sub.WriteJSON(msg)
	})
	if err != nil {
		return err
	}
	return sendErr
}

func (gs *GameService) UnregisterConnection(gameID string, sub Subscriber) {
	gs.gameManager.Unsubscribe(gameID, sub)
}

func (gs *GameService) broadcastState(gameID string, state model.GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		gs.logger.Error("encode game state", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	gs.gameManager.Broadcast(gameID, msg)
}
