package admin

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rob-j-au/djtip/internal/handlers"
	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
)

const relatedTipsLimit = 20

func EventsIndex(c *gin.Context) {
	db := middleware.GetDB(c)

	var events []models.Event
	db.Model(&models.Event{}).
		Scopes(
			scopes.Search(c.Query("search"), "title", "location", "description"),
			scopes.EventDateFilter(c.Query("date_filter"), time.Now()),
		).
		Order("date DESC").
		Find(&events)

	c.HTML(http.StatusOK, "events_index.html", gin.H{
		"PageTitle":  "Events",
		"Events":     events,
		"Search":     c.Query("search"),
		"DateFilter": c.Query("date_filter"),
		"Notice":     c.Query("notice"),
		"Alert":      c.Query("alert"),
	})
}

func EventsShow(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Event not found.")
		return
	}

	var users []models.User
	db.Joins("JOIN event_users ON event_users.user_id = users.id").
		Where("event_users.event_id = ?", event.ID).
		Order("users.name ASC").
		Find(&users)

	var performers []models.Performer
	db.Where("event_id = ?", event.ID).Order("name ASC").Find(&performers)

	var tips []models.Tip
	db.Preload("User").Where("event_id = ?", event.ID).
		Order("created_at DESC").Limit(relatedTipsLimit).Find(&tips)

	var totalTips float64
	db.Model(&models.Tip{}).Where("event_id = ?", event.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalTips)

	c.HTML(http.StatusOK, "events_show.html", gin.H{
		"PageTitle":  "Event: " + event.Title,
		"Event":      event,
		"Users":      users,
		"Performers": performers,
		"Tips":       tips,
		"TotalTips":  totalTips,
		"Notice":     c.Query("notice"),
	})
}

func EventsNew(c *gin.Context) {
	c.HTML(http.StatusOK, "events_form.html", gin.H{
		"PageTitle": "New Event",
		"Event":     models.Event{},
		"Action":    "/admin/events",
	})
}

func EventsCreate(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	assignEventForm(c, &event)

	if errs := event.Validate(); len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "events_form.html", gin.H{
			"PageTitle": "New Event",
			"Event":     event,
			"Action":    "/admin/events",
			"Errors":    errs,
		})
		return
	}

	if err := db.Create(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Failed to create event.")
		return
	}

	redirectWithNotice(c, "/admin/events/"+event.ID.String(), "Event was successfully created.")
}

func EventsEdit(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Event not found.")
		return
	}

	c.HTML(http.StatusOK, "events_form.html", gin.H{
		"PageTitle": "Edit Event: " + event.Title,
		"Event":     event,
		"Action":    "/admin/events/" + event.ID.String(),
	})
}

func EventsUpdate(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Event not found.")
		return
	}

	assignEventForm(c, &event)

	if errs := event.Validate(); len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "events_form.html", gin.H{
			"PageTitle": "Edit Event: " + event.Title,
			"Event":     event,
			"Action":    "/admin/events/" + event.ID.String(),
			"Errors":    errs,
		})
		return
	}

	if err := db.Save(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Failed to update event.")
		return
	}

	redirectWithNotice(c, "/admin/events/"+event.ID.String(), "Event was successfully updated.")
}

func EventsDestroy(c *gin.Context) {
	db := middleware.GetDB(c)

	var event models.Event
	if err := db.Where("id = ?", c.Param("id")).First(&event).Error; err != nil {
		redirectWithAlert(c, "/admin/events", "Event not found.")
		return
	}

	if err := handlers.DestroyEvent(db, &event); err != nil {
		redirectWithAlert(c, "/admin/events", "Failed to delete event.")
		return
	}

	redirectWithNotice(c, "/admin/events", "Event was successfully deleted.")
}

// assignEventForm copies the posted form onto the event. The date arrives
// either as one datetime-local string or as separate date and
// hour/minute/am-pm fields; unparseable input leaves a zero date for the
// validator to report.
func assignEventForm(c *gin.Context, event *models.Event) {
	event.Title = c.PostForm("title")
	event.Description = c.PostForm("description")
	event.Location = c.PostForm("location")

	if hour := c.PostForm("hour"); hour != "" {
		event.Date = helpers.CombineDateTime(c.PostForm("date"), hour, c.PostForm("minute"), c.PostForm("meridiem"))
	} else {
		event.Date = helpers.ParseDate(c.PostForm("date"))
	}
}

func redirectWithNotice(c *gin.Context, path, notice string) {
	c.Redirect(http.StatusSeeOther, path+"?notice="+url.QueryEscape(notice))
}

func redirectWithAlert(c *gin.Context, path, alert string) {
	c.Redirect(http.StatusSeeOther, path+"?alert="+url.QueryEscape(alert))
}
