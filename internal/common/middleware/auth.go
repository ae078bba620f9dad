package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/domain/credentials"
)

// Gin context keys set by the auth middlewares.
const (
	ContextSessionID    = "session_id"
	ContextCredentials  = "credentials"
	ContextAuthMethod   = "auth_method"
	ContextTelegramUser = "user"
	ContextUserID       = "user_id"
)

const (
	AuthMethodBearer    = "bearer"
	AuthMethodInitData  = "init_data"
	AuthMethodAutoLogin = "auto_login"
)

// SessionAuthenticator resolves the credentials of a request and binds the
// clients built from them to the request context.
type SessionAuthenticator interface {
	// Lookup returns the session id and credentials behind a bearer token.
	Lookup(ctx context.Context, token string) (string, credentials.Credentials, error)
	// StaticCredentials are the configured credentials and whether they may
	// be used without an explicit login.
	StaticCredentials() (credentials.Credentials, bool)
	Bind(ctx context.Context, creds credentials.Credentials) context.Context
}

// RequireSession authenticates by bearer token, then by a Mini App admin
// user, then by auto login. Anything else is 401.
func RequireSession(auth SessionAuthenticator, adminIDs []int64) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			sessionID, creds, err := auth.Lookup(ctx, token)
			if err != nil {
				c.Error(err)
				c.Abort()
				return
			}
			c.Set(ContextSessionID, sessionID)
			accept(c, auth, creds, AuthMethodBearer)
			return
		}

		if v, exists := c.Get(ContextTelegramUser); exists {
			tgUser, ok := v.(initdata.User)
			if !ok {
				c.Error(errors.New(errors.ErrCodeBadRequest, "Invalid user data format"))
				c.Abort()
				return
			}
			if _, isAdmin := admins[tgUser.ID]; !isAdmin {
				c.Error(errors.NewForbiddenError("admin access required"))
				c.Abort()
				return
			}
			static, _ := auth.StaticCredentials()
			if !static.HasBackend() {
				c.Error(errors.NewUnauthorizedError("no stored credentials for Mini App login"))
				c.Abort()
				return
			}
			accept(c, auth, static, AuthMethodInitData)
			return
		}

		if static, autoLogin := auth.StaticCredentials(); autoLogin && static.HasBackend() {
			accept(c, auth, static, AuthMethodAutoLogin)
			return
		}

		c.Error(errors.NewUnauthorizedError("login required"))
		c.Abort()
	}
}

func accept(c *gin.Context, auth SessionAuthenticator, creds credentials.Credentials, method string) {
	c.Set(ContextCredentials, creds)
	c.Set(ContextAuthMethod, method)
	c.Request = c.Request.WithContext(auth.Bind(c.Request.Context(), creds))
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CredentialsFrom returns the credentials set by RequireSession.
func CredentialsFrom(c *gin.Context) credentials.Credentials {
	if v, ok := c.Get(ContextCredentials); ok {
		if creds, ok := v.(credentials.Credentials); ok {
			return creds
		}
	}
	return credentials.Credentials{}
}
