package controller

import (
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/response"
	"ctchen222/game-store/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// LibraryController handles the caller's owned games.
type LibraryController struct {
	libraryService service.LibraryService
}

// NewLibraryController creates a new LibraryController.
func NewLibraryController(libraryService service.LibraryService) *LibraryController {
	return &LibraryController{libraryService: libraryService}
}

// List returns the caller's library.
func (lc *LibraryController) List(c *gin.Context) {
	games, err := lc.libraryService.ListOwned(c.Request.Context(), mustIdentity(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessResponseList(c, games)
}

// Acquire adds a game to the caller's library. The game id comes from the
// gameId query parameter or, failing that, the JSON body.
func (lc *LibraryController) Acquire(c *gin.Context) {
	var req models.AcquireGameRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.GameID == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if _, err := uuid.Parse(req.GameID); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "gameId must be a valid uuid")
		return
	}

	owned, err := lc.libraryService.AcquireGame(c.Request.Context(), mustIdentity(c), req.GameID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.CreatedResponse(c, owned)
}

// Release removes a game from the caller's library.
func (lc *LibraryController) Release(c *gin.Context) {
	gameID := c.Param("gameId")
	if _, err := uuid.Parse(gameID); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "gameId must be a valid uuid")
		return
	}

	if err := lc.libraryService.ReleaseGame(c.Request.Context(), mustIdentity(c), gameID); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}
