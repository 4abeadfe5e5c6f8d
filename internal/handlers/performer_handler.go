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
	"github.com/rob-j-au/djtip/internal/scopes"
	"github.com/rob-j-au/djtip/internal/serializers"
)

type PerformerRequest struct {
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	Genre   string `json:"genre"`
	Contact string `json:"contact"`
	EventID string `json:"event_id"`
}

func (req *PerformerRequest) apply(performer *models.Performer) {
	performer.Name = req.Name
	performer.Bio = req.Bio
	performer.Genre = req.Genre
	performer.Contact = req.Contact
	if req.EventID == "" {
		performer.EventID = nil
	} else if id, err := uuid.Parse(req.EventID); err == nil {
		performer.EventID = &id
	}
}

func ListPerformers(c *gin.Context) {
	db := middleware.GetDB(c)

	query := db.Model(&models.Performer{}).
		Scopes(scopes.Search(c.Query("search"), "name", "genre", "bio"))
	if genre := c.Query("genre"); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var performers []models.Performer
	if err := query.Preload("Event").Order("name ASC").Find(&performers).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving performers.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewPerformers(performers, true))
}

func GetPerformer(c *gin.Context) {
	db := middleware.GetDB(c)

	var performer models.Performer
	if err := db.Preload("Event").Where("id = ?", c.Param("id")).First(&performer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving performer.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewPerformer(&performer, true))
}

func CreatePerformer(c *gin.Context) {
	var req PerformerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var performer models.Performer
	req.apply(&performer)
	if errs := performer.Validate(); len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to create performer", errs)
		return
	}

	if err := db.Create(&performer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create performer.")
		return
	}

	db.Preload("Event").First(&performer, "id = ?", performer.ID)
	c.JSON(http.StatusCreated, serializers.NewPerformer(&performer, true))
}

func UpdatePerformer(c *gin.Context) {
	var req PerformerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var performer models.Performer
	if err := db.Where("id = ?", c.Param("id")).First(&performer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding performer.")
		return
	}

	req.apply(&performer)
	if errs := performer.Validate(); len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to update performer", errs)
		return
	}

	if err := db.Save(&performer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update performer.")
		return
	}

	db.Preload("Event").First(&performer, "id = ?", performer.ID)
	c.JSON(http.StatusOK, serializers.NewPerformer(&performer, true))
}

func DeletePerformer(c *gin.Context) {
	db := middleware.GetDB(c)

	result := db.Where("id = ?", c.Param("id")).Delete(&models.Performer{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete performer.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondNotFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}
