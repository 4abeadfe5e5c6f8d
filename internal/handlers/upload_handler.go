package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/middleware"
)

// ServeUpload handles GET /uploads/*path. Files are only served with a
// valid HMAC signature derived from the configured secret, so attachment
// URLs cannot be guessed or traversed.
func ServeUpload(c *gin.Context) {
	relPath := strings.TrimPrefix(c.Param("path"), "/")
	signature := c.Query("sig")

	store := middleware.GetStore(c)
	if relPath == "" || signature == "" || !store.VerifySignature(relPath, signature) {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid or missing signature.")
		return
	}

	abs, err := store.Resolve(relPath)
	if err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid path.")
		return
	}

	c.File(abs)
}
