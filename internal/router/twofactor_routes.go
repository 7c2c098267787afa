package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
)

// TwoFactorRoutes defines routes for managing two-factor authentication.
func TwoFactorRoutes(rg *gin.RouterGroup, twoFactorHandler *handlers.TwoFactorHandler) {
	twoFactor := rg.Group("/2fa")
	{
		twoFactor.POST("/setup", twoFactorHandler.Setup)
		twoFactor.POST("/activate", twoFactorHandler.Activate)
		twoFactor.POST("/disable", twoFactorHandler.Disable)
	}
}
