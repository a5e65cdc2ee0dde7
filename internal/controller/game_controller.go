package controller

import (
	"errors"
	"strconv"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/msgcat"
	"github.com/benbeisheim/hotseat-chess/internal/obslog"
	"github.com/benbeisheim/hotseat-chess/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GameController struct {
	gameService *service.GameService
	catalog     *msgcat.Catalog
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, catalog *msgcat.Catalog, logger *zap.Logger) *GameController {
	if logger == nil {
		logger = obslog.L()
	}
	return &GameController{gameService: gameService, catalog: catalog, logger: logger}
}

// statusFor maps service and engine errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrTooManyGames):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		gc.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"games": gc.gameService.ListGames(),
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameState)
}

// GetLegalMoves answers for one square when row and col are given, and for
// every piece of the side to move otherwise.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	rowQ, colQ := c.Query("row"), c.Query("col")
	if rowQ == "" && colQ == "" {
		all, err := gc.gameService.AllLegalMoves(gameID)
		if err != nil {
			return gc.fail(c, err)
		}
		return c.JSON(fiber.Map{"pieces": all})
	}

	row, rowErr := strconv.Atoi(rowQ)
	col, colErr := strconv.Atoi(colQ)
	if rowErr != nil || colErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must both be integers",
		})
	}

	from := model.Position{Row: row, Col: col}
	moves, err := gc.gameService.LegalMoves(gameID, from)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(model.PieceMoves{From: from, Moves: moves})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.MoveRequest
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	if move.Promotion != "" && !move.Promotion.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown promotion piece " + strconv.Quote(string(move.Promotion)),
		})
	}

	outcome, err := gc.gameService.HandleMove(c.Params("gameId"), move)
	if err != nil {
		return gc.fail(c, err)
	}

	notice := moveNotice(gc.catalog, outcome.Result, outcome.Err, outcome.State)
	if outcome.Result == model.ResultRejected {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"result": outcome.Result,
			"error":  outcome.Err.Error(),
			"notice": notice,
		})
	}
	return c.JSON(fiber.Map{
		"result": outcome.Result,
		"state":  outcome.State,
		"notice": notice,
	})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	state, undone, err := gc.gameService.Undo(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	notice := stateNotice(gc.catalog, state)
	if !undone {
		notice = gc.catalog.MustRender("undo.empty", nil)
	}
	return c.JSON(fiber.Map{
		"undone": undone,
		"state":  state,
		"notice": notice,
	})
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	state, err := gc.gameService.Reset(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return gc.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
