package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
)

func PerformersIndex(c *gin.Context) {
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
	query.Preload("Event").Order("name ASC").Find(&performers)

	var genres []string
	db.Model(&models.Performer{}).Where("genre <> ''").
		Distinct("genre").Order("genre ASC").Pluck("genre", &genres)

	var events []models.Event
	db.Order("title ASC").Find(&events)

	c.HTML(http.StatusOK, "performers_index.html", gin.H{
		"PageTitle":  "Performers",
		"Performers": performers,
		"Genres":     genres,
		"Events":     events,
		"Search":     c.Query("search"),
		"Notice":     c.Query("notice"),
		"Alert":      c.Query("alert"),
	})
}

func PerformersShow(c *gin.Context) {
	db := middleware.GetDB(c)

	var performer models.Performer
	if err := db.Preload("Event").Where("id = ?", c.Param("id")).First(&performer).Error; err != nil {
		redirectWithAlert(c, "/admin/performers", "Performer not found.")
		return
	}

	c.HTML(http.StatusOK, "performers_show.html", gin.H{
		"PageTitle": "Performer: " + performer.Name,
		"Performer": performer,
		"Notice":    c.Query("notice"),
	})
}

func PerformersNew(c *gin.Context) {
	db := middleware.GetDB(c)

	var events []models.Event
	db.Order("title ASC").Find(&events)

	c.HTML(http.StatusOK, "performers_form.html", gin.H{
		"PageTitle": "New Performer",
		"Performer": models.Performer{},
		"Events":    events,
		"Action":    "/admin/performers",
	})
}

func PerformersCreate(c *gin.Context) {
	db := middleware.GetDB(c)

	var performer models.Performer
	assignPerformerForm(c, &performer)

	if errs := performer.Validate(); len(errs) > 0 {
		var events []models.Event
		db.Order("title ASC").Find(&events)
		c.HTML(http.StatusUnprocessableEntity, "performers_form.html", gin.H{
			"PageTitle": "New Performer",
			"Performer": performer,
			"Events":    events,
			"Action":    "/admin/performers",
			"Errors":    errs,
		})
		return
	}

	if err := db.Create(&performer).Error; err != nil {
		redirectWithAlert(c, "/admin/performers", "Failed to create performer.")
		return
	}

	redirectWithNotice(c, "/admin/performers/"+performer.ID.String(), "Performer was successfully created.")
}

func PerformersEdit(c *gin.Context) {
	db := middleware.GetDB(c)

	var performer models.Performer
	if err := db.Where("id = ?", c.Param("id")).First(&performer).Error; err != nil {
		redirectWithAlert(c, "/admin/performers", "Performer not found.")
		return
	}

	var events []models.Event
	db.Order("title ASC").Find(&events)

	c.HTML(http.StatusOK, "performers_form.html", gin.H{
		"PageTitle": "Edit Performer: " + performer.Name,
		"Performer": performer,
		"Events":    events,
		"Action":    "/admin/performers/" + performer.ID.String(),
	})
}

func PerformersUpdate(c *gin.Context) {
	db := middleware.GetDB(c)

	var performer models.Performer
	if err := db.Where("id = ?", c.Param("id")).First(&performer).Error; err != nil {
		redirectWithAlert(c, "/admin/performers", "Performer not found.")
		return
	}

	assignPerformerForm(c, &performer)

	if errs := performer.Validate(); len(errs) > 0 {
		var events []models.Event
		db.Order("title ASC").Find(&events)
		c.HTML(http.StatusUnprocessableEntity, "performers_form.html", gin.H{
			"PageTitle": "Edit Performer: " + performer.Name,
			"Performer": performer,
			"Events":    events,
			"Action":    "/admin/performers/" + performer.ID.String(),
			"Errors":    errs,
		})
		return
	}

	if err := db.Save(&performer).Error; err != nil {
		redirectWithAlert(c, "/admin/performers", "Failed to update performer.")
		return
	}

	redirectWithNotice(c, "/admin/performers/"+performer.ID.String(), "Performer was successfully updated.")
}

func PerformersDestroy(c *gin.Context) {
	db := middleware.GetDB(c)

	result := db.Where("id = ?", c.Param("id")).Delete(&models.Performer{})
	if result.Error != nil || result.RowsAffected == 0 {
		redirectWithAlert(c, "/admin/performers", "Performer not found.")
		return
	}

	redirectWithNotice(c, "/admin/performers", "Performer was successfully deleted.")
}

func assignPerformerForm(c *gin.Context, performer *models.Performer) {
	performer.Name = c.PostForm("name")
	performer.Bio = c.PostForm("bio")
	performer.Genre = c.PostForm("genre")
	performer.Contact = c.PostForm("contact")

	if eventID := c.PostForm("event_id"); eventID != "" {
		if id, err := uuid.Parse(eventID); err == nil {
			performer.EventID = &id
		}
	} else {
		performer.EventID = nil
	}
}
