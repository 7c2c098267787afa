package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

type NotepadHandler struct {
	notepads *services.NotepadService
}

func NewNotepadHandler(notepads *services.NotepadService) *NotepadHandler {
	return &NotepadHandler{notepads: notepads}
}

func (h *NotepadHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	notepad, err := h.notepads.Create(c.Request.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, notepad)
}

func (h *NotepadHandler) Get(c *gin.Context) {
	notepad, err := h.notepads.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, notepad)
}

func (h *NotepadHandler) List(c *gin.Context) {
	notepads, err := h.notepads.ListForUser(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, notepads)
}

func (h *NotepadHandler) Update(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	notepad, err := h.notepads.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Name)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, notepad)
}

func (h *NotepadHandler) Delete(c *gin.Context) {
	if err := h.notepads.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Notepad deleted"})
}
