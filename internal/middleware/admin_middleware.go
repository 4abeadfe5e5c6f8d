package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/rob-j-au/djtip/internal/models"
)

const sessionUserKey = "admin_user_id"

// AdminRequired guards the admin namespace. Anyone without an admin session
// is bounced to the login page with an alert, no state change.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserKey).(string)
		if !ok || userID == "" {
			c.Redirect(http.StatusFound, "/admin/login?alert=Access+denied.+Admin+privileges+required.")
			c.Abort()
			return
		}

		db := GetDB(c)
		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil || !user.Admin {
			session.Delete(sessionUserKey)
			_ = session.Save()
			c.Redirect(http.StatusFound, "/admin/login?alert=Access+denied.+Admin+privileges+required.")
			c.Abort()
			return
		}

		c.Set("current_user", &user)
		c.Next()
	}
}

// SignInAdmin records the admin's id in the session after a login.
func SignInAdmin(c *gin.Context, userID string) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}

// SignOutAdmin clears the session.
func SignOutAdmin(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionUserKey)
	return session.Save()
}

// CurrentUser returns the admin attached by AdminRequired.
func CurrentUser(c *gin.Context) *models.User {
	user, exists := c.Get("current_user")
	if !exists {
		return nil
	}
	return user.(*models.User)
}
