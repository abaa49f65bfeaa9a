package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ecosense/internal/domain/auth"
	"github.com/yanqian/ecosense/internal/infra/config"
	apperrors "github.com/yanqian/ecosense/pkg/errors"
)

// identityMiddleware resolves the caller from a bearer token. Without a token the
// configured demo user is used unless authentication is required.
func identityMiddleware(svc auth.Service, cfg config.AuthConfig) gin.HandlerFunc {
	demo := identity{UserID: cfg.DemoUserID, Username: cfg.DemoUsername}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if cfg.Required {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil))
				return
			}
			setIdentity(c, demo)
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				abortWithAppError(c, err)
				return
			}
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", errMessage(err), err))
			return
		}
		setIdentity(c, identity{UserID: claims.UserID, Username: claims.Username, Authenticated: true})
		c.Next()
	}
}

func requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !getIdentity(c).Authenticated {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
			return
		}
		c.Next()
	}
}
