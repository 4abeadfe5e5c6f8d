package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/serializers"
)

type TipRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Message  string  `json:"message"`
	UserID   string  `json:"user_id"`
}

// ListEventTips handles GET /v1/events/:event_id/tips, most recent first.
func ListEventTips(c *gin.Context) {
	db := middleware.GetDB(c)

	event, ok := findEvent(c, db)
	if !ok {
		return
	}

	var tips []models.Tip
	err := db.Preload("User").Preload("Event").
		Where("event_id = ?", event.ID).
		Order("created_at DESC").
		Find(&tips).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tips.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewTips(tips, true))
}

// CreateEventTip handles POST /v1/events/:event_id/tips. A persisted tip
// schedules a notification job.
func CreateEventTip(c *gin.Context) {
	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	event, ok := findEvent(c, db)
	if !ok {
		return
	}

	tip := models.Tip{
		Amount:   req.Amount,
		Currency: req.Currency,
		Message:  req.Message,
		EventID:  event.ID,
	}
	if tip.Currency == "" {
		tip.Currency = models.DefaultCurrency
	}

	errs := validateUserReference(db, &tip, req.UserID)
	errs = append(errs, validationWithoutBlankUser(&tip, req.UserID)...)
	if len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to create tip", errs)
		return
	}

	if err := db.Create(&tip).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create tip.")
		return
	}

	if scheduler := middleware.GetScheduler(c); scheduler != nil {
		_ = scheduler.ScheduleTipNotification(tip.ID)
	}

	db.Preload("User").Preload("Event").First(&tip, "id = ?", tip.ID)
	c.JSON(http.StatusCreated, serializers.NewTip(&tip, true))
}

func GetTip(c *gin.Context) {
	db := middleware.GetDB(c)

	var tip models.Tip
	err := db.Preload("User").Preload("Event").Where("id = ?", c.Param("id")).First(&tip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tip.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewTip(&tip, true))
}

func UpdateTip(c *gin.Context) {
	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var tip models.Tip
	if err := db.Where("id = ?", c.Param("id")).First(&tip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding tip.")
		return
	}

	tip.Amount = req.Amount
	tip.Message = req.Message
	if req.Currency != "" {
		tip.Currency = req.Currency
	}

	errs := validateUserReference(db, &tip, req.UserID)
	errs = append(errs, validationWithoutBlankUser(&tip, req.UserID)...)
	if len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to update tip", errs)
		return
	}

	if err := db.Save(&tip).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update tip.")
		return
	}

	db.Preload("User").Preload("Event").First(&tip, "id = ?", tip.ID)
	c.JSON(http.StatusOK, serializers.NewTip(&tip, true))
}

func DeleteTip(c *gin.Context) {
	db := middleware.GetDB(c)

	result := db.Where("id = ?", c.Param("id")).Delete(&models.Tip{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete tip.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondNotFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// validateUserReference resolves a submitted user id onto the tip. A
// malformed or unknown id reports "User must exist" rather than falling
// through to the blank-reference message.
func validateUserReference(db *gorm.DB, tip *models.Tip, rawUserID string) []string {
	if rawUserID == "" {
		return nil
	}

	id, err := uuid.Parse(rawUserID)
	if err != nil {
		return []string{"User must exist"}
	}
	tip.UserID = id

	var count int64
	db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return []string{"User must exist"}
	}
	return nil
}

// validationWithoutBlankUser runs tip.Validate but drops the blank-user
// message when the caller did send a user id; validateUserReference has
// already reported the more specific problem.
func validationWithoutBlankUser(tip *models.Tip, rawUserID string) []string {
	errs := tip.Validate()
	if rawUserID == "" {
		return errs
	}
	out := errs[:0]
	for _, msg := range errs {
		if msg != "User can't be blank" {
			out = append(out, msg)
		}
	}
	return out
}

func findEvent(c *gin.Context, db *gorm.DB) (*models.Event, bool) {
	var event models.Event
	if err := db.Where("id = ?", c.Param("event_id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return nil, false
	}
	return &event, true
}
