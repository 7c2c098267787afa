package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

// CollaboratorHandler serves the collaborator sub-resource for both notes
// and notepads; the entity kind is fixed at registration time.
type CollaboratorHandler struct {
	collab *services.CollaborationService
	kind   access.EntityKind
}

func NewCollaboratorHandler(collab *services.CollaborationService, kind access.EntityKind) *CollaboratorHandler {
	return &CollaboratorHandler{collab: collab, kind: kind}
}

func parseRoles(raw []string) ([]models.CollaborationRole, error) {
	if len(raw) == 0 {
		return nil, errors.New("at least one role is required")
	}
	roles := make([]models.CollaborationRole, 0, len(raw))
	for _, r := range raw {
		role, ok := models.ParseCollaborationRole(r)
		if !ok {
			return nil, errors.New("unknown role: " + r)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Add invites a user by email, or replaces their role set if already present.
func (h *CollaboratorHandler) Add(c *gin.Context) {
	var req struct {
		Email string   `json:"email" binding:"required,email"`
		Roles []string `json:"roles" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	roles, err := parseRoles(req.Roles)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid roles")
		return
	}

	collaborator, err := h.collab.Add(c.Request.Context(), middleware.CurrentUser(c), h.kind, c.Param("id"), req.Email, roles)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, collaborator)
}

func (h *CollaboratorHandler) Remove(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid user id")
		return
	}

	if err := h.collab.Remove(c.Request.Context(), middleware.CurrentUser(c), h.kind, c.Param("id"), targetID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Collaborator removed"})
}

func (h *CollaboratorHandler) List(c *gin.Context) {
	collaborators, err := h.collab.List(c.Request.Context(), middleware.CurrentUser(c), h.kind, c.Param("id"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, collaborators)
}
