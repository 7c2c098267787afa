package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/ratelimit"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
)

// AuthRoutes defines routes for registration and session lifecycle.
func AuthRoutes(rg *gin.RouterGroup, tokens *auth.TokenManager, authService *services.AuthService, limiter *ratelimit.Limiter, authHandler *handlers.AuthHandler) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/login/2fa", authHandler.VerifyTwoFactor)
		authGroup.POST("/confirm", authHandler.ConfirmEmail)

		// Email-sending routes carry the stricter per-IP limit.
		authGroup.POST("/confirm/resend",
			middleware.RateLimit(limiter, ratelimit.KindEmail),
			authHandler.ResendConfirmation)

		protected := authGroup.Group("/")
		protected.Use(middleware.AuthMiddleware(tokens, authService))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
			protected.POST("/delete", authHandler.RequestDeletion)
			protected.POST("/recover", authHandler.RecoverAccount)
		}
	}
}
