package handlers

import (
	"net/http"
	"strings"

	"directchat/internal/errs"
	"directchat/internal/models"
	"directchat/internal/msgs"
	"directchat/internal/utils"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware verifies the bearer token and exposes the
// caller's id and display tag to the handlers. Token issuance lives in the
// account service; this side only verifies.
func (rh *RestHandler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		if strings.Contains(jwtToken, "Bearer") {
			jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
		}

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorStrings([]error{errs.ErrUnauthorized}),
			})
			return
		}

		// A token that was presented but failed verification is reported as
		// invalid, distinct from no token at all.
		claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorStrings([]error{errs.ErrInvalidToken}),
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("user_tag", claims.Tag)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}
