package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pixamint/pixamint/internal/interfaces/http/middleware"
)

// mustUserID returns the authenticated user ID. Routes using it sit behind
// RequireAuth, so a missing value means a wiring bug; zero falls through to
// the use case's not-found path rather than panicking.
func mustUserID(c *gin.Context) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}
