package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postloop/postloop/models"
	"github.com/postloop/postloop/services"
)

// ViewRecorder aggregates daily view counts for content reads (post details
// and public profiles). Only successful GETs on those paths are counted; the
// rows feed the daily view figure in the stats endpoint.
func ViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}

		path := c.Request.URL.Path
		if !isContentPath(path) {
			return
		}

		today := services.DateOf(time.Now().UTC())

		// Atomic upsert to avoid duplicate key errors under concurrency
		_ = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
		}).Create(&models.PageView{Date: today, Path: path, Count: 1}).Error
	}
}

// isContentPath keeps view counting scoped to post detail and user profile
// reads, so health checks, feeds, and stats never skew the numbers.
func isContentPath(path string) bool {
	if strings.HasSuffix(path, "/posts") || strings.HasSuffix(path, "/comments") || strings.HasSuffix(path, "/like") {
		return false
	}
	if strings.HasPrefix(path, "/api/v1/posts/") {
		return true
	}
	if strings.HasPrefix(path, "/api/v1/users/") {
		return !strings.Contains(path[len("/api/v1/users/"):], "/")
	}
	return false
}
