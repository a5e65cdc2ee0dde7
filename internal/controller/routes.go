package controller

import (
	"github.com/benbeisheim/hotseat-chess/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes mounts the REST api under /api and the websocket under /ws.
func SetupRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, games middleware.GameLookup, origins []string) {
	app.Get("/ws/game/:gameId",
		middleware.RequireGame(games),
		middleware.WebSocketUpgrade(),
		websocket.New(wsc.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         origins,
		}),
	)

	api := app.Group("/api")
	api.Get("/games", gc.ListGames)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)

	requireGame := middleware.RequireGame(games)
	gameRoutes.Get("/:gameId", requireGame, gc.GetGameState)
	gameRoutes.Get("/:gameId/moves", requireGame, gc.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", requireGame, gc.MakeMove)
	gameRoutes.Post("/:gameId/undo", requireGame, gc.Undo)
	gameRoutes.Post("/:gameId/reset", requireGame, gc.Reset)
	gameRoutes.Delete("/:gameId", requireGame, gc.DeleteGame)
}
