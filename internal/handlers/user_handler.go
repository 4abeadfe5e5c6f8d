package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/jobs"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
	"github.com/rob-j-au/djtip/internal/serializers"
	"github.com/rob-j-au/djtip/internal/uploads"
)

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	EventID  string `json:"event_id"`
}

func imageResolver(c *gin.Context) serializers.ImageURLResolver {
	store := middleware.GetStore(c)
	if store == nil {
		return nil
	}
	return store.URL
}

func ListUsers(c *gin.Context) {
	db := middleware.GetDB(c)

	var users []models.User
	err := db.Model(&models.User{}).
		Scopes(
			scopes.Search(c.Query("search"), "name", "email"),
			scopes.AdminFilter(c.Query("filter")),
		).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewUsers(users, imageResolver(c)))
}

func GetUser(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	err := db.Preload("Tips", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Limit(relatedTipsLimit)
	}).Where("id = ?", c.Param("id")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewUser(&user, imageResolver(c)))
}

func CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	errs := user.Validate()
	errs = append(errs, user.ValidateUnique(db)...)
	if len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to create user", errs)
		return
	}

	if err := db.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	if req.EventID != "" {
		attachUserToEvent(db, &user, req.EventID)
	}

	c.JSON(http.StatusCreated, serializers.NewUser(&user, imageResolver(c)))
}

func UpdateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone

	errs := user.Validate()
	errs = append(errs, user.ValidateUnique(db)...)
	if len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to update user", errs)
		return
	}

	if err := db.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	if req.EventID != "" {
		attachUserToEvent(db, &user, req.EventID)
	}

	c.JSON(http.StatusOK, serializers.NewUser(&user, imageResolver(c)))
}

func DeleteUser(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	if err := DestroyUser(db, middleware.GetScheduler(c), &user); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	c.Status(http.StatusNoContent)
}

// DestroyUser removes the user, their event memberships, and schedules
// cleanup of any attached image files.
func DestroyUser(db *gorm.DB, scheduler jobs.Scheduler, user *models.User) error {
	if err := db.Model(user).Association("Events").Clear(); err != nil {
		return err
	}
	if err := db.Delete(user).Error; err != nil {
		return err
	}
	if user.HasImage() && scheduler != nil {
		return scheduler.ScheduleDestruction([]string{user.ImageOriginal, user.ImageThumb, user.ImageMedium})
	}
	return nil
}

// UploadUserImage validates and stores a new image for the user. The
// original persists immediately; derivatives arrive via the promotion job.
func UploadUserImage(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		helpers.RespondValidationErrors(c, "Failed to attach image", []string{"Image can't be blank"})
		return
	}

	if errs := uploads.ValidateImage(fileHeader); len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to attach image", errs)
		return
	}

	store := middleware.GetStore(c)
	cached, err := store.SaveToCache(fileHeader)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to store image.")
		return
	}

	oldPaths := []string{user.ImageOriginal, user.ImageThumb, user.ImageMedium}

	user.ImageOriginal = cached
	user.ImageThumb = ""
	user.ImageMedium = ""
	user.ImageStatus = models.ImageStatusPending
	if err := db.Save(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save user.")
		return
	}

	scheduler := middleware.GetScheduler(c)
	if scheduler != nil {
		_ = scheduler.SchedulePromotion("user", user.ID)
		if oldPaths[0] != "" {
			_ = scheduler.ScheduleDestruction(oldPaths)
		}
	}

	c.JSON(http.StatusAccepted, serializers.NewUser(&user, imageResolver(c)))
}

// DeleteUserImage clears the attachment columns and schedules file cleanup.
func DeleteUserImage(c *gin.Context) {
	db := middleware.GetDB(c)

	var user models.User
	if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding user.")
		return
	}

	if !user.HasImage() {
		c.Status(http.StatusNoContent)
		return
	}

	paths := []string{user.ImageOriginal, user.ImageThumb, user.ImageMedium}
	err := db.Model(&user).Updates(map[string]interface{}{
		"image_original": "",
		"image_thumb":    "",
		"image_medium":   "",
		"image_status":   "",
	}).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	if scheduler := middleware.GetScheduler(c); scheduler != nil {
		_ = scheduler.ScheduleDestruction(paths)
	}

	c.Status(http.StatusNoContent)
}

func attachUserToEvent(db *gorm.DB, user *models.User, eventID string) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return
	}
	var event models.Event
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		return
	}
	_ = db.Model(user).Association("Events").Append(&event)
}
