package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
)

// NoteRoutes defines routes for note management
func NoteRoutes(rg *gin.RouterGroup, noteHandler *handlers.NoteHandler, collabHandler *handlers.CollaboratorHandler, shareHandler *handlers.ShareHandler) {
	notes := rg.Group("/notes")
	{
		notes.POST("", noteHandler.Create)
		notes.GET("", noteHandler.List)
		notes.GET("/:id", noteHandler.Get)
		notes.PUT("/:id", noteHandler.Update)
		notes.DELETE("/:id", noteHandler.Delete)
		notes.POST("/:id/move", noteHandler.Move)

		// Collaborators
		notes.GET("/:id/collaborators", collabHandler.List)
		notes.POST("/:id/collaborators", collabHandler.Add)
		notes.DELETE("/:id/collaborators/:userId", collabHandler.Remove)

		// Sharing
		notes.GET("/:id/share", shareHandler.GetLink)
		notes.PUT("/:id/share", shareHandler.UpdateLink)
	}
}
