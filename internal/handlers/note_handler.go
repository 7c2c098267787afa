package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

type NoteHandler struct {
	notes *services.NoteService
}

func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content"`
		NotepadID string `json:"notepadId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.CurrentUser(c), req.Title, req.Content, req.NotepadID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, note)
}

func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.ListForUser(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, notes)
}

// Update applies a partial patch. Common fields (title, content) and
// personal fields (tags, archived, color) are checked against separate
// permissions; fields the caller may not write are dropped from the patch.
func (h *NoteHandler) Update(c *gin.Context) {
	var req services.NotePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Note deleted"})
}

// Move relocates a note between notepads. An empty notepadId moves it to
// the caller's loose-notes bucket.
func (h *NoteHandler) Move(c *gin.Context) {
	var req struct {
		NotepadID string `json:"notepadId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	note, err := h.notes.Move(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.NotepadID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, note)
}
