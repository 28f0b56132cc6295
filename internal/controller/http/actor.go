package http

import (
	"cloud-video/internal/entity"
	"cloud-video/internal/guard"
	"cloud-video/pkg/logger"
	"cloud-video/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticate resolves the bearer token into the acting user and stores it
// on the context. Requests without a valid token are rejected with 401.
func Authenticate(g *guard.Guard, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := middleware.BearerToken(c)
		actor, err := g.ResolveActor(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, log, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func currentActor(c *gin.Context) *entity.User {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*entity.User); ok {
			return actor
		}
	}
	return nil
}
