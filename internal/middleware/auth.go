package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

const principalKey = "principal"

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionResolver turns a session id into the acting principal.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (access.Principal, error)
}

var _ SessionResolver = (*services.AuthService)(nil)

// LookupSession reads the session cookie and resolves it. ok is false when the
// request carries no usable session.
func LookupSession(c *gin.Context, resolver SessionResolver, cfg *config.Config) (access.Principal, bool, error) {
	token, err := c.Cookie(utils.SessionCookie)
	if err != nil || token == "" {
		return access.Principal{}, false, nil
	}
	claims, err := utils.ValidateToken(token, cfg.SessionSecret)
	if err != nil {
		return access.Principal{}, false, nil
	}
	p, err := resolver.Resolve(c.Request.Context(), claims.SessionID)
	if errors.Is(err, services.ErrUnauthenticated) {
		return access.Principal{}, false, nil
	}
	if err != nil {
		return access.Principal{}, false, err
	}
	return p, true, nil
}

// RequireSession admits requests with an active session and stores the
// principal in the context. Others are redirected to the login page.
func RequireSession(resolver SessionResolver, cfg *config.Config, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok, err := LookupSession(c, resolver, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("resolve session")
			utils.InternalServerError(c, "could not verify session")
			c.Abort()
			return
		}
		if !ok {
			if _, cerr := c.Cookie(utils.SessionCookie); cerr == nil {
				utils.ClearSessionCookie(c, !cfg.IsDevelopment())
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAction rejects principals whose role may not perform action by
// redirecting to location with an error notice. It should be used *after*
// RequireSession.
func RequireAction(action access.Action, location, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok || !access.Allowed(action, p.Role) {
			utils.RedirectWithNotice(c, location, utils.Failure(message))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by RequireSession.
func CurrentPrincipal(c *gin.Context) (access.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return access.Principal{}, false
	}
	p, ok := v.(access.Principal)
	return p, ok
}
