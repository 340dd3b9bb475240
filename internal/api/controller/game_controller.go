package controller

import (
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/response"
	"ctchen222/game-store/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameController handles catalog HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// List returns the whole catalog.
func (gc *GameController) List(c *gin.Context) {
	games, err := gc.gameService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponseList(c, games)
}

// Get returns one catalog entry.
func (gc *GameController) Get(c *gin.Context) {
	game, err := gc.gameService.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponse(c, game)
}

// Create adds a game to the catalog.
func (gc *GameController) Create(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	game, err := gc.gameService.CreateGame(c.Request.Context(), mustIdentity(c), service.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.CreatedResponse(c, game)
}

// Delete removes a game and its library entries.
func (gc *GameController) Delete(c *gin.Context) {
	if err := gc.gameService.DeleteGame(c.Request.Context(), mustIdentity(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}
