package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rob-j-au/djtip/internal/jobs"
	"github.com/rob-j-au/djtip/internal/uploads"
)

func SchedulerMiddleware(scheduler jobs.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("scheduler", scheduler)
		c.Next()
	}
}

func GetScheduler(c *gin.Context) jobs.Scheduler {
	scheduler, exists := c.Get("scheduler")
	if !exists {
		return nil
	}
	return scheduler.(jobs.Scheduler)
}

func StoreMiddleware(store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("upload_store", store)
		c.Next()
	}
}

func GetStore(c *gin.Context) *uploads.Store {
	store, exists := c.Get("upload_store")
	if !exists {
		return nil
	}
	return store.(*uploads.Store)
}
