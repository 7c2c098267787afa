package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
	"github.com/vladpirlog/takenote-api-sub000/pkg/responses"
)

const (
	ClaimsKey = "claims"
	UserKey   = "current_user"
)

// AuthMiddleware resolves the request to a principal: token verification
// (including the revocation blacklist) followed by a user lookup, so
// downstream handlers always see fresh role and account state.
func AuthMiddleware(tokens *auth.TokenManager, authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Error(c, http.StatusUnauthorized, nil, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.Verify(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug().Err(err).Msg("Token verification failed")
			responses.FromError(c, err)
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			responses.Error(c, http.StatusUnauthorized, err, "Invalid token subject")
			c.Abort()
			return
		}

		user, err := authService.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			responses.Error(c, http.StatusUnauthorized, err, "User not found")
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentClaims returns the verified claims set by AuthMiddleware.
func CurrentClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		return v.(*auth.Claims)
	}
	return nil
}

// CurrentUser returns the authenticated user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		return v.(*models.User)
	}
	return nil
}
