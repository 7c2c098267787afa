package router

import (
	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
)

// NotepadRoutes defines routes for notepad management
func NotepadRoutes(rg *gin.RouterGroup, notepadHandler *handlers.NotepadHandler, collabHandler *handlers.CollaboratorHandler, shareHandler *handlers.ShareHandler) {
	notepads := rg.Group("/notepads")
	{
		notepads.POST("", notepadHandler.Create)
		notepads.GET("", notepadHandler.List)
		notepads.GET("/:id", notepadHandler.Get)
		notepads.PUT("/:id", notepadHandler.Update)
		notepads.DELETE("/:id", notepadHandler.Delete)

		// Collaborators
		notepads.GET("/:id/collaborators", collabHandler.List)
		notepads.POST("/:id/collaborators", collabHandler.Add)
		notepads.DELETE("/:id/collaborators/:userId", collabHandler.Remove)

		// Sharing
		notepads.GET("/:id/share", shareHandler.GetLink)
		notepads.PUT("/:id/share", shareHandler.UpdateLink)
	}
}
