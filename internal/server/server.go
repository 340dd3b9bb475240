package server

import (
	"context"
	"net/http"
	"time"

	"ctchen222/game-store/internal/api/controller"
	"ctchen222/game-store/internal/api/middleware"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/response"
	"ctchen222/game-store/internal/api/service"
	"ctchen222/game-store/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	DB       *sqlx.DB
	Verifier middleware.TokenVerifier
	Users    service.UserService
	Games    service.GameService
	Library  service.LibraryService
}

type Server struct {
	engine *gin.Engine
	db     *sqlx.DB
}

// NewServer builds the router and registers every route.
func NewServer(deps Deps) (*Server, error) {
	if err := validator.BindGin(); err != nil {
		return nil, err
	}

	s := &Server{
		engine: gin.New(),
		db:     deps.DB,
	}
	s.engine.Use(
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.Logger(),
		middleware.ErrorBoundary(),
	)
	s.RegisterHandlers(deps)
	return s, nil
}

// Engine exposes the router as an http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterHandlers(deps Deps) {
	users := controller.NewUserController(deps.Users)
	games := controller.NewGameController(deps.Games)
	library := controller.NewLibraryController(deps.Library)

	authenticated := middleware.Authenticate(deps.Verifier)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r := s.engine
	r.GET("/healthz", s.handleHealth)
	r.POST("/login", users.Login)
	r.POST("/users", middleware.OptionalAuth(deps.Verifier), users.Register)

	r.GET("/games", games.List)
	r.GET("/games/:id", games.Get)

	admin := r.Group("", authenticated, adminOnly)
	admin.GET("/users", users.List)
	admin.PUT("/users/:id", users.Update)
	admin.DELETE("/users/:id", users.Delete)
	admin.POST("/users/:id/reset-password", users.ResetPassword)
	admin.POST("/games", games.Create)
	admin.DELETE("/games/:id", games.Delete)

	me := r.Group("/me", authenticated)
	me.GET("", users.Me)
	me.PUT("", users.UpdateMe)
	me.PUT("/password", users.ChangePassword)
	me.GET("/games", library.List)
	me.POST("/games", library.Acquire)
	me.DELETE("/games/:gameId", library.Release)
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.SuccessResponse(c, gin.H{"status": "ok"})
}
