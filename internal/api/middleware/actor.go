package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

const (
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"

	actorKey = "konveksi.actor"
)

// Actor reads the caller from the identity headers. A request without headers
// proceeds anonymously and is refused by any guarded operation; an unknown
// role is rejected outright.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(HeaderUserName))
		rawRole := c.GetHeader(HeaderUserRole)

		actor := domain.Actor{Name: name}
		if strings.TrimSpace(rawRole) != "" {
			role, ok := domain.ParseRole(rawRole)
			if !ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"code":    "invalid_input",
					"message": "unknown role " + rawRole,
				})
				return
			}
			actor.Role = role
		}
		if actor.Name == "" {
			actor.Name = "anonymous"
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the caller resolved by Actor
func ActorFrom(c *gin.Context) domain.Actor {
	actor, _ := lookupActor(c)
	return actor
}

func lookupActor(c *gin.Context) (domain.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}
