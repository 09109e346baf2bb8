package user

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type logoutBody struct {
	All bool `json:"all"`
}

// UserLogout revokes the calling session, or every session of the user
// when "all" is set. The rows stay in the database marked inactive
func UserLogout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	var data logoutBody
	// Body is optional, an empty logout revokes just this session
	_ = c.ShouldBind(&data)

	token := c.GetString("accessToken")

	affected, err := d.Sessions.Revoke(token, u.ID, data.All)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to revoke session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revoked":   affected,
		"requestID": requestID,
	})
}
