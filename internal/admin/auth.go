// Package admin implements the session-backed HTML admin interface:
// dashboard, listings with search and filters, and CRUD forms for events,
// users, performers, and tips.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
)

func ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Alert": c.Query("alert"),
	})
}

func PerformLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Alert": "Invalid credentials."})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Alert": "Invalid credentials."})
		return
	}
	if !user.Admin {
		c.HTML(http.StatusForbidden, "login.html", gin.H{"Alert": "Access denied. Admin privileges required."})
		return
	}

	if err := middleware.SignInAdmin(c, user.ID.String()); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Alert": "Could not start session."})
		return
	}

	c.Redirect(http.StatusFound, "/admin")
}

func Logout(c *gin.Context) {
	_ = middleware.SignOutAdmin(c)
	c.Redirect(http.StatusFound, "/admin/login")
}
