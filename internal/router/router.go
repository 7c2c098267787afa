package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/ratelimit"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
)

// Handlers collects everything SetupRouter mounts.
type Handlers struct {
	Auth              *handlers.AuthHandler
	TwoFactor         *handlers.TwoFactorHandler
	Notes             *handlers.NoteHandler
	Notepads          *handlers.NotepadHandler
	NoteCollaborators *handlers.CollaboratorHandler
	PadCollaborators  *handlers.CollaboratorHandler
	NoteShares        *handlers.ShareHandler
	PadShares         *handlers.ShareHandler
	PublicShares      *handlers.PublicShareHandler
}

func SetupRouter(router *gin.Engine, tokens *auth.TokenManager, authService *services.AuthService, limiter *ratelimit.Limiter, h Handlers) {

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	//v1 api
	v1 := router.Group("/api/v1")

	// Every route is behind the general request limiter; auth routes add
	// their own tighter limits on top.
	v1.Use(middleware.RateLimit(limiter, ratelimit.KindRequest))

	AuthRoutes(v1, tokens, authService, limiter, h.Auth)
	ShareRoutes(v1, h.PublicShares)

	protectedRoutes := v1.Group("/")
	protectedRoutes.Use(middleware.AuthMiddleware(tokens, authService))

	TwoFactorRoutes(protectedRoutes, h.TwoFactor)
	NoteRoutes(protectedRoutes, h.Notes, h.NoteCollaborators, h.NoteShares)
	NotepadRoutes(protectedRoutes, h.Notepads, h.PadCollaborators, h.PadShares)
}
