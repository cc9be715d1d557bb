package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
	"github.com/postloop/postloop/services"
	"github.com/postloop/postloop/utils"
)

// StatsController serves site-wide counters and per-user analytics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns global counts plus today's recorded page views.
func (s *StatsController) GetStats(ctx *gin.Context) {
	const cacheKey = "cache:stats:global"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var userCount, postCount, commentCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load stats")
		return
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load stats")
		return
	}

	today := services.DateOf(time.Now().UTC())
	var todayViews int64
	s.db.Model(&models.PageView{}).
		Select("COALESCE(SUM(count), 0)").
		Where("date = ?", today).
		Scan(&todayViews)

	payload := gin.H{
		"users":       userCount,
		"posts":       postCount,
		"comments":    commentCount,
		"views_today": todayViews,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 5*time.Minute)
	utils.Success(ctx, payload)
}

// GetUserAnalytics returns per-user posting analytics: totals, streaks and a
// category breakdown plus activity over the last 30 days.
func (s *StatsController) GetUserAnalytics(ctx *gin.Context) {
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}

	var user models.User
	if err := s.db.First(&user, targetID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	type categoryRow struct {
		Category string `json:"category"`
		Label    string `json:"label" gorm:"-"`
		Icon     string `json:"icon" gorm:"-"`
		Count    int64  `json:"count"`
	}
	var byCategory []categoryRow
	err = s.db.Model(&models.Post{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ?", user.ID).
		Group("category").
		Order("count DESC").
		Scan(&byCategory).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load analytics")
		return
	}
	for i := range byCategory {
		byCategory[i].Label = models.CategoryLabel(byCategory[i].Category)
		byCategory[i].Icon = models.CategoryIcon(byCategory[i].Category)
	}

	since := services.DateOf(time.Now().UTC()).AddDate(0, 0, -30)
	var monthlyPosts int64
	err = s.db.Model(&models.Post{}).
		Where("user_id = ? AND post_date >= ?", user.ID, since).
		Count(&monthlyPosts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load analytics")
		return
	}

	utils.Success(ctx, gin.H{
		"total_posts":        user.TotalPosts,
		"current_streak":     user.CurrentStreak,
		"longest_streak":     user.LongestStreak,
		"level":              user.Level,
		"posts_by_category":  byCategory,
		"posts_last_30_days": monthlyPosts,
	})
}
