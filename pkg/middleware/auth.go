package middleware

import (
	"strings"

	"studysprint/study-api/internal/service"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAuthMiddleware returns a middleware that resolves the bearer
// token to a user and stores it in the context. Verification is
// stateless: signature, expiry and the user's active flag. The session
// row is not checked here, revocation only cuts off the refresh path
func NewAuthMiddleware(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		header := c.GetHeader("Authorization")
		if header == "" {
			apperr.Respond(c, apperr.Authentication("Missing authorization header"))
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apperr.Respond(c, apperr.Authentication("Authorization header must be a bearer token"))
			return
		}

		user, err := sessions.Authenticate(tokenStr)
		if err != nil {
			zap.L().Debug("Token authentication failed", zap.Error(err), zap.String("requestID", requestID))
			apperr.Respond(c, err)
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Set("accessToken", tokenStr)
		c.Next()
	}
}
