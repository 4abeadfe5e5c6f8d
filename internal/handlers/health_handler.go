package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health backs GET /up for uptime monitors and load balancers.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Manifest serves the PWA manifest.
func Manifest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":             "djtip",
		"short_name":       "djtip",
		"start_url":        "/",
		"display":          "standalone",
		"background_color": "#ffffff",
		"theme_color":      "#111111",
		"icons":            []gin.H{},
	})
}
