package middleware

import "github.com/gin-gonic/gin"

// actorKey is the key under which the acting user is stored. The platform in
// front of this service authenticates requests and forwards the user name in
// the X-Actor header; the core only attributes writes to it.
const actorKey = contextKey("actor")

const actorHeader = "X-Actor"

// ActorMiddleware copies the forwarded actor identity into the gin context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader(actorHeader); actor != "" {
			c.Set(string(actorKey), actor)
		}
		c.Next()
	}
}

// GetActorFromContext retrieves the acting user from the gin context,
// defaulting to "system" when the upstream sent none.
func GetActorFromContext(c *gin.Context) string {
	if v, ok := c.Get(string(actorKey)); ok {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}
	return "system"
}
