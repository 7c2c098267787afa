package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

type TwoFactorHandler struct {
	twoFactor *services.TwoFactorService
}

func NewTwoFactorHandler(twoFactor *services.TwoFactorService) *TwoFactorHandler {
	return &TwoFactorHandler{twoFactor: twoFactor}
}

// Setup provisions a TOTP secret and returns it with a QR image.
// The secret stays inert until Activate confirms a valid code.
func (h *TwoFactorHandler) Setup(c *gin.Context) {
	result, err := h.twoFactor.Setup(c.Request.Context(), middleware.CurrentClaims(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// Activate turns 2FA on after proving possession of the authenticator.
// The response carries the backup codes; they are never shown again.
func (h *TwoFactorHandler) Activate(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.twoFactor.Activate(c.Request.Context(), middleware.CurrentClaims(c), req.Code)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// Disable turns 2FA off; requires a currently valid code or backup code.
func (h *TwoFactorHandler) Disable(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	if err := h.twoFactor.Disable(c.Request.Context(), middleware.CurrentClaims(c), req.Code); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Two-factor authentication disabled"})
}
