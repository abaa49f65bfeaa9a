package http

import (
	"github.com/gin-gonic/gin"
)

const identityKey = "caller_identity"

// identity is the caller a request acts for. Demo callers are not Authenticated.
type identity struct {
	UserID        int64
	Username      string
	Authenticated bool
}

func setIdentity(c *gin.Context, id identity) {
	c.Set(identityKey, id)
}

func getIdentity(c *gin.Context) identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return identity{}
	}
	id, _ := value.(identity)
	return id
}
