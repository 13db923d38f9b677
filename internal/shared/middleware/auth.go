package middleware

import (
	"github.com/gin-gonic/gin"

	"gcmn-library-backend/internal/domains/identity/model"
	"gcmn-library-backend/internal/domains/identity/service"
	"gcmn-library-backend/internal/infrastructure/session"
	"gcmn-library-backend/internal/shared/response"
)

const (
	actorKey        = "actor"
	sessionTokenKey = "session_token"
)

// Authenticate resolves the session cookie into an actor and stores it on
// the context. It never aborts: public routes see an anonymous actor.
func Authenticate(cookieName string, sessions session.Store, identity service.ServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Set(actorKey, model.Anonymous())
			c.Next()
			return
		}
		c.Set(sessionTokenKey, token)

		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.Set(actorKey, model.Anonymous())
			c.Next()
			return
		}

		actor, err := identity.ResolveActor(c.Request.Context(), sess)
		if err != nil {
			c.Set(actorKey, model.Anonymous())
			c.Next()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Kind == model.ActorAnonymous {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose actor lacks admin capability.
// Runs after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor.Kind == model.ActorAnonymous {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !actor.Admin {
			response.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor returns the resolved actor, anonymous when nothing is set.
func GetActor(c *gin.Context) model.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Anonymous()
}

// GetSessionToken returns the raw session token for this request, empty
// when no cookie was sent.
func GetSessionToken(c *gin.Context) string {
	if v, ok := c.Get(sessionTokenKey); ok {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
