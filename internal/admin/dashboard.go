package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/models"
)

func Dashboard(c *gin.Context) {
	db := middleware.GetDB(c)

	var totalEvents, totalUsers, totalPerformers, totalTips, adminUsers int64
	db.Model(&models.Event{}).Count(&totalEvents)
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.Performer{}).Count(&totalPerformers)
	db.Model(&models.Tip{}).Count(&totalTips)
	db.Model(&models.User{}).Where("admin = ?", true).Count(&adminUsers)

	var totalTipAmount float64
	db.Model(&models.Tip{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalTipAmount)

	var recentEvents []models.Event
	db.Order("created_at DESC").Limit(5).Find(&recentEvents)

	var recentTips []models.Tip
	db.Preload("User").Preload("Event").Order("created_at DESC").Limit(10).Find(&recentTips)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"PageTitle":       "Dashboard",
		"TotalEvents":     totalEvents,
		"TotalUsers":      totalUsers,
		"TotalPerformers": totalPerformers,
		"TotalTips":       totalTips,
		"TotalTipAmount":  totalTipAmount,
		"AdminUsers":      adminUsers,
		"RecentEvents":    recentEvents,
		"RecentTips":      recentTips,
	})
}
