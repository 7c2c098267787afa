package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

type ShareHandler struct {
	shares *services.ShareService
	kind   access.EntityKind
}

func NewShareHandler(shares *services.ShareService, kind access.EntityKind) *ShareHandler {
	return &ShareHandler{shares: shares, kind: kind}
}

func (h *ShareHandler) GetLink(c *gin.Context) {
	link, err := h.shares.GetLink(c.Request.Context(), middleware.CurrentUser(c), h.kind, c.Param("id"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, link)
}

// UpdateLink toggles the link active flag and/or rotates the code.
// Rotation invalidates the previous code immediately.
func (h *ShareHandler) UpdateLink(c *gin.Context) {
	var req struct {
		Active *bool `json:"active"`
		Rotate bool  `json:"rotate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	link, err := h.shares.UpdateLink(c.Request.Context(), middleware.CurrentUser(c), h.kind, c.Param("id"), req.Active, req.Rotate)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, link)
}

// PublicShareHandler resolves share codes without authentication.
type PublicShareHandler struct {
	shares *services.ShareService
}

func NewPublicShareHandler(shares *services.ShareService) *PublicShareHandler {
	return &PublicShareHandler{shares: shares}
}

// Resolve looks up an active share code and returns the shared entity.
// Inactive and unknown codes are indistinguishable to the caller.
func (h *PublicShareHandler) Resolve(c *gin.Context) {
	resolved, err := h.shares.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		responses.FromError(c, err)
		return
	}

	body := gin.H{"type": resolved.Kind}
	switch resolved.Kind {
	case access.KindNote:
		body["note"] = resolved.Note
	case access.KindNotepad:
		body["notepad"] = resolved.Notepad
	}
	responses.JSON(c, http.StatusOK, body)
}
