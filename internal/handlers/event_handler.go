package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
	"github.com/rob-j-au/djtip/internal/serializers"
)

// Show pages and event JSON cap the inlined tip list at the 20 most recent.
const relatedTipsLimit = 20

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

func (req *EventRequest) apply(event *models.Event) {
	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.Date = helpers.ParseDate(req.Date)
}

func ListEvents(c *gin.Context) {
	db := middleware.GetDB(c)

	var events []models.Event
	err := db.Model(&models.Event{}).
		Scopes(
			scopes.Search(c.Query("search"), "title", "location", "description"),
			scopes.EventDateFilter(c.Query("date_filter"), time.Now()),
		).
		Preload("Users").Preload("Performers").
		Order("date DESC").
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewEvents(events))
}

func GetEvent(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	err := db.Preload("Users").Preload("Performers").
		Preload("Tips", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(relatedTipsLimit)
		}).
		Where("id = ?", c.Param("id")).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewEvent(&event))
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var event models.Event
	req.apply(&event)
	if errs := event.Validate(); len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to create event", errs)
		return
	}

	if err := db.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, serializers.NewEvent(&event))
}

func UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	req.apply(&event)
	if errs := event.Validate(); len(errs) > 0 {
		helpers.RespondValidationErrors(c, "Failed to update event", errs)
		return
	}

	if err := db.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, serializers.NewEvent(&event))
}

func DeleteEvent(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	if err := DestroyEvent(db, &event); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.Status(http.StatusNoContent)
}

// DestroyEvent removes an event and applies the cascade policy: tips are
// destroyed, users are detached from the join table, performers keep their
// records but lose the event link.
func DestroyEvent(db *gorm.DB, event *models.Event) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Tip{}).Error; err != nil {
			return err
		}
		if err := tx.Model(event).Association("Users").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&models.Performer{}).Where("event_id = ?", event.ID).Update("event_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

// requestScheme resolves the external scheme of a request, honoring a
// TLS-terminating proxy's X-Forwarded-Proto header.
func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// EventQR renders a PNG QR code pointing at the event's tip page, for
// venues to print and display.
func EventQR(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondNotFound(c)
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	target := fmt.Sprintf("%s://%s/v1/events/%s/tips", requestScheme(c), c.Request.Host, event.ID)
	png, err := qrcode.Encode(target, qrcode.Medium, 300)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", png)
}
