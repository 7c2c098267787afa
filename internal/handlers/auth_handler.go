package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates an account and opens a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusCreated, result)
}

// Login verifies the password and either returns a session token or a
// pending-2FA id the client must follow up on.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// VerifyTwoFactor promotes a pending-2FA session with an OTP or backup code.
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req struct {
		PendingID string `json:"pendingId" binding:"required"`
		Code      string `json:"code" binding:"required"`
		Remember  bool   `json:"remember"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.auth.CompleteTwoFactorLogin(c.Request.Context(), req.PendingID, req.Code, req.Remember)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// Logout blacklists the presented token until its original expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// ConfirmEmail redeems a confirmation token. Works both anonymously and
// authenticated; in the latter case the response carries a fresh session
// token because the old one's accountState claim went stale.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.auth.ConfirmEmail(c.Request.Context(), req.Token, middleware.CurrentClaims(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// ResendConfirmation mails a fresh confirmation token.
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	if err := h.auth.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"message": "Confirmation email sent"})
}

// RequestDeletion marks the account for deletion and rotates the session.
func (h *AuthHandler) RequestDeletion(c *gin.Context) {
	result, err := h.auth.RequestDeletion(c.Request.Context(), middleware.CurrentClaims(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// RecoverAccount cancels a pending deletion and rotates the session.
func (h *AuthHandler) RecoverAccount(c *gin.Context) {
	result, err := h.auth.RecoverAccount(c.Request.Context(), middleware.CurrentClaims(c))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.JSON(c, http.StatusOK, result)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	responses.JSON(c, http.StatusOK, middleware.CurrentUser(c))
}
