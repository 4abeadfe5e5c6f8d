package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rob-j-au/djtip/internal/helpers"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/scopes"
)

// TipsIndex lists tips with cross-entity search (message, user name, event
// title), identity filters, and amount/date ranges. There is no admin tip
// creation; tips only arrive through the public flow.
func TipsIndex(c *gin.Context) {
	db := middleware.GetDB(c)

	query := db.Model(&models.Tip{}).
		Scopes(scopes.TipSearch(db, c.Query("search")))

	if eventID, err := uuid.Parse(c.Query("event_id")); err == nil {
		query = query.Scopes(scopes.ByEvent(eventID))
	}
	if userID, err := uuid.Parse(c.Query("user_id")); err == nil {
		query = query.Scopes(scopes.ByUser(userID))
	}
	if min, err := strconv.ParseFloat(c.Query("min_amount"), 64); err == nil {
		query = query.Scopes(scopes.AmountAtLeast(min))
	}
	if max, err := strconv.ParseFloat(c.Query("max_amount"), 64); err == nil {
		query = query.Scopes(scopes.AmountAtMost(max))
	}
	if from := helpers.ParseDate(c.Query("date_from")); !from.IsZero() {
		query = query.Scopes(scopes.CreatedFrom(from))
	}
	if to := helpers.ParseDate(c.Query("date_to")); !to.IsZero() {
		query = query.Scopes(scopes.CreatedTo(to))
	}

	var tips []models.Tip
	query.Preload("User").Preload("Event").Order("created_at DESC").Find(&tips)

	var totalAmount float64
	for i := range tips {
		totalAmount += tips[i].Amount
	}

	var events []models.Event
	db.Order("title ASC").Find(&events)

	var users []models.User
	db.Order("name ASC").Find(&users)

	c.HTML(http.StatusOK, "tips_index.html", gin.H{
		"PageTitle":   "Tips",
		"Tips":        tips,
		"TotalAmount": totalAmount,
		"Events":      events,
		"Users":       users,
		"Search":      c.Query("search"),
		"Notice":      c.Query("notice"),
		"Alert":       c.Query("alert"),
	})
}

func TipsShow(c *gin.Context) {
	db := middleware.GetDB(c)

	var tip models.Tip
	if err := db.Preload("User").Preload("Event").Where("id = ?", c.Param("id")).First(&tip).Error; err != nil {
		redirectWithAlert(c, "/admin/tips", "Tip not found.")
		return
	}

	c.HTML(http.StatusOK, "tips_show.html", gin.H{
		"PageTitle": "Tip Details",
		"Tip":       tip,
		"Notice":    c.Query("notice"),
	})
}

func TipsEdit(c *gin.Context) {
	db := middleware.GetDB(c)

	var tip models.Tip
	if err := db.Where("id = ?", c.Param("id")).First(&tip).Error; err != nil {
		redirectWithAlert(c, "/admin/tips", "Tip not found.")
		return
	}

	var events []models.Event
	db.Order("title ASC").Find(&events)

	var users []models.User
	db.Order("name ASC").Find(&users)

	c.HTML(http.StatusOK, "tips_form.html", gin.H{
		"PageTitle": "Edit Tip",
		"Tip":       tip,
		"Events":    events,
		"Users":     users,
		"Action":    "/admin/tips/" + tip.ID.String(),
	})
}

func TipsUpdate(c *gin.Context) {
	db := middleware.GetDB(c)

	var tip models.Tip
	if err := db.Where("id = ?", c.Param("id")).First(&tip).Error; err != nil {
		redirectWithAlert(c, "/admin/tips", "Tip not found.")
		return
	}

	if amount, err := strconv.ParseFloat(c.PostForm("amount"), 64); err == nil {
		tip.Amount = amount
	} else {
		tip.Amount = 0
	}
	if currency := c.PostForm("currency"); currency != "" {
		tip.Currency = currency
	}
	tip.Message = c.PostForm("message")
	if id, err := uuid.Parse(c.PostForm("event_id")); err == nil {
		tip.EventID = id
	}
	if id, err := uuid.Parse(c.PostForm("user_id")); err == nil {
		tip.UserID = id
	}

	if errs := tip.Validate(); len(errs) > 0 {
		var events []models.Event
		db.Order("title ASC").Find(&events)
		var users []models.User
		db.Order("name ASC").Find(&users)
		c.HTML(http.StatusUnprocessableEntity, "tips_form.html", gin.H{
			"PageTitle": "Edit Tip",
			"Tip":       tip,
			"Events":    events,
			"Users":     users,
			"Action":    "/admin/tips/" + tip.ID.String(),
			"Errors":    errs,
		})
		return
	}

	if err := db.Save(&tip).Error; err != nil {
		redirectWithAlert(c, "/admin/tips", "Failed to update tip.")
		return
	}

	redirectWithNotice(c, "/admin/tips/"+tip.ID.String(), "Tip was successfully updated.")
}

func TipsDestroy(c *gin.Context) {
	db := middleware.GetDB(c)

	result := db.Where("id = ?", c.Param("id")).Delete(&models.Tip{})
	if result.Error != nil || result.RowsAffected == 0 {
		redirectWithAlert(c, "/admin/tips", "Tip not found.")
		return
	}

	redirectWithNotice(c, "/admin/tips", "Tip was successfully deleted.")
}
