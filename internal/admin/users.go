package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/rob-j-au/djtip/internal/handlers"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
)

func UsersIndex(c *gin.Context) {
	db := middleware.GetDB(c)

	var users []models.User
	db.Model(&models.User{}).
		Scopes(
			scopes.Search(c.Query("search"), "name", "email"),
			scopes.AdminFilter(c.Query("filter")),
		).
		Order("name ASC").
		Find(&users)

	c.HTML(http.StatusOK, "users_index.html", gin.H{
		"PageTitle": "Users",
		"Users":     users,
		"Search":    c.Query("search"),
		"Filter":    c.Query("filter"),
		"Notice":    c.Query("notice"),
		"Alert":     c.Query("alert"),
	})
}

func UsersShow(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "User not found.")
		return
	}

	var tips []models.Tip
	db.Preload("Event").Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(relatedTipsLimit).Find(&tips)

	var totalTips float64
	db.Model(&models.Tip{}).Where("user_id = ?", user.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalTips)

	var eventsCount int64
	db.Model(&models.Tip{}).Where("user_id = ?", user.ID).
		Distinct("event_id").Count(&eventsCount)

	c.HTML(http.StatusOK, "users_show.html", gin.H{
		"PageTitle":   "User: " + user.Name,
		"User":        user,
		"Tips":        tips,
		"TotalTips":   totalTips,
		"EventsCount": eventsCount,
		"Notice":      c.Query("notice"),
		"Alert":       c.Query("alert"),
	})
}

func UsersNew(c *gin.Context) {
	c.HTML(http.StatusOK, "users_form.html", gin.H{
		"PageTitle": "New User",
		"User":      models.User{},
		"Action":    "/admin/users",
	})
}

func UsersCreate(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	assignUserForm(c, &user)

	errs := user.Validate()
	errs = append(errs, user.ValidateUnique(db)...)
	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "users_form.html", gin.H{
			"PageTitle": "New User",
			"User":      user,
			"Action":    "/admin/users",
			"Errors":    errs,
		})
		return
	}

	if err := db.Create(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "Failed to create user.")
		return
	}

	redirectWithNotice(c, "/admin/users/"+user.ID.String(), "User was successfully created.")
}

func UsersEdit(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "User not found.")
		return
	}

	c.HTML(http.StatusOK, "users_form.html", gin.H{
		"PageTitle": "Edit User: " + user.Name,
		"User":      user,
		"Action":    "/admin/users/" + user.ID.String(),
	})
}

func UsersUpdate(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "User not found.")
		return
	}

	assignUserForm(c, &user)

	errs := user.Validate()
	errs = append(errs, user.ValidateUnique(db)...)
	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "users_form.html", gin.H{
			"PageTitle": "Edit User: " + user.Name,
			"User":      user,
			"Action":    "/admin/users/" + user.ID.String(),
			"Errors":    errs,
		})
		return
	}

	if err := db.Save(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "Failed to update user.")
		return
	}

	redirectWithNotice(c, "/admin/users/"+user.ID.String(), "User was successfully updated.")
}

// UsersDestroy deletes a user. Admins cannot delete their own account.
func UsersDestroy(c *gin.Context) {
	db := middleware.GetDB(c)
	current := middleware.CurrentUser(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "User not found.")
		return
	}

	if current != nil && current.ID == user.ID {
		redirectWithAlert(c, "/admin/users", "You cannot delete yourself.")
		return
	}

	if err := handlers.DestroyUser(db, middleware.GetScheduler(c), &user); err != nil {
		redirectWithAlert(c, "/admin/users", "Failed to delete user.")
		return
	}

	redirectWithNotice(c, "/admin/users", "User was successfully deleted.")
}

// UsersToggleAdmin flips the admin flag. Admins cannot change their own.
func UsersToggleAdmin(c *gin.Context) {
	db := middleware.GetDB(c)
	current := middleware.CurrentUser(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		redirectWithAlert(c, "/admin/users", "User not found.")
		return
	}

	if current != nil && current.ID == user.ID {
		redirectWithAlert(c, "/admin/users/"+user.ID.String(), "You cannot change your own admin status.")
		return
	}

	// Update writes the new value back into user.Admin, so decide the
	// notice before flipping.
	granting := !user.Admin
	if err := db.Model(&user).Update("admin", granting).Error; err != nil {
		redirectWithAlert(c, "/admin/users/"+user.ID.String(), "Failed to update admin status.")
		return
	}

	status := "revoked"
	if granting {
		status = "granted"
	}
	redirectWithNotice(c, "/admin/users/"+user.ID.String(), "Admin privileges "+status+".")
}

func assignUserForm(c *gin.Context, user *models.User) {
	user.Name = c.PostForm("name")
	user.Email = c.PostForm("email")
	user.Phone = c.PostForm("phone")
	user.Admin = c.PostForm("admin") == "true" || c.PostForm("admin") == "on"

	if password := c.PostForm("password"); password != "" {
		if hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			user.PasswordHash = string(hashed)
		}
	}
}
