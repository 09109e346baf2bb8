package user

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func UserRefresh(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if data.RefreshToken == "" {
		apperr.Respond(c, apperr.Validation("No refresh token provided", "refresh_token"))
		return
	}

	pair, err := d.Sessions.Refresh(data.RefreshToken)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Debug("Refresh failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, tokenResponse(pair))
}
