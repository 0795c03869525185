package middleware

import (
	"net/http"

	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/service"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gin-gonic/gin"
)

// RequireSession authenticates via an opaque session token carried in the
// Authorization header. A valid hit slides the session expiry forward; any
// failure is an indistinct 401.
func (g *AuthGuard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok || len(token) != service.OpaqueTokenBytes*2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			return
		}

		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "RequireSession")
		session, err := g.auth.ResolveSession(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			return
		}

		c.Set(constants.GinKeySession, session)
		c.Set(constants.GinKeyAuthUser, &session.User)
		c.Set(constants.GinKeyUserID, session.UserID)
		c.Next()
	}
}
