package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/logger"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
)

// UserResolver looks up the user behind a session or a bearer token.
type UserResolver interface {
	GetUser(id uint64) (*models.User, error)
	UserFromToken(tokenString string) (*models.User, error)
}

// ResolveActor attaches an authz.Actor to every request. The session is
// checked first, then an "Authorization: Bearer <token>" or "JWT <token>"
// header. Requests without valid credentials continue as anonymous; the
// operations themselves decide whether that is acceptable.
func ResolveActor(users UserResolver, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		actor := authz.Anonymous()

		if user := sessionUser(c, users, log); user != nil {
			actor = authz.ForUser(user)
		} else if tokenString := bearerToken(c.GetHeader("Authorization")); tokenString != "" {
			user, err := users.UserFromToken(tokenString)
			if err != nil {
				logger.WithRequestID(c.Request.Context(), log).Debug("ignoring bearer token", zap.Error(err))
			} else {
				actor = authz.ForUser(user)
			}
		}

		c.Set(constants.ContextKeyActor, actor)
		if actor.IsAuthenticated() {
			c.Set(constants.ContextKeyUserID, actor.UserID())
		}
		c.Next()
	}
}

func sessionUser(c *gin.Context, users UserResolver, log *zap.Logger) *models.User {
	session := sessions.Default(c)
	userID, ok := toUserID(session.Get(constants.ContextKeyUserID))
	if !ok {
		return nil
	}

	user, err := users.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// the account behind the session is gone
			session.Clear()
			_ = session.Save()
		} else {
			logger.WithRequestID(c.Request.Context(), log).Error("failed to resolve session user",
				zap.Uint64("user_id", userID),
				zap.Error(err),
			)
		}
		return nil
	}
	return user
}

func bearerToken(header string) string {
	scheme, tokenString, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "bearer", "jwt":
		return strings.TrimSpace(tokenString)
	default:
		return ""
	}
}

// GetActor returns the actor attached by ResolveActor, or anonymous.
func GetActor(c *gin.Context) authz.Actor {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return authz.Anonymous()
	}
	actor, _ := value.(authz.Actor)
	return actor
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
