package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
)

// ShareRoutes defines the unauthenticated share-code lookup.
func ShareRoutes(rg *gin.RouterGroup, publicShareHandler *handlers.PublicShareHandler) {
	rg.GET("/shared/:code", publicShareHandler.Resolve)
}
