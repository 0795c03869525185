package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gestio-app/gestio/internal/constants"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gestio-app/gestio/internal/service"
	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthGuard holds the dependencies of the bearer-token access guards.
type AuthGuard struct {
	auth  *service.AuthService
	users service.UserStore
}

func NewAuthGuard(auth *service.AuthService, users service.UserStore) *AuthGuard {
	return &AuthGuard{auth: auth, users: users}
}

// RequireAuth validates the signed bearer token from the Authorization
// header. A missing or malformed header is a 401; a present token that
// fails validation (bad signature, expired) is a 403.
func (g *AuthGuard) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(apperrors.ErrMalformedToken.Message, ""))
			return
		}

		claims, err := g.auth.ValidateBearer(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse(apperrors.ErrInvalidToken.Message, ""))
			return
		}

		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyEmail, claims.Email)
		c.Set(constants.GinKeyName, claims.Name)
		c.Next()
	}
}

// RequireRoles gates a route on role membership. The account is re-resolved
// from storage on every request so a role change or deletion takes effect
// immediately, regardless of what the token was minted with.
func (g *AuthGuard) RequireRoles(allowed ...constants.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
			return
		}

		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "RequireRoles")
		user, err := g.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					constants.BuildErrorResponse(constants.MsgUnauthorized, ""))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				constants.BuildErrorResponse(constants.MsgInternalError, ""))
			return
		}

		if !constants.RoleIn(user.RoleValue(), allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				constants.BuildErrorResponse(apperrors.ErrForbidden.Message, ""))
			return
		}

		c.Set(constants.GinKeyAuthUser, user)
		c.Set(constants.GinKeyUserRole, user.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
