package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
	"github.com/postloop/postloop/services"
	"github.com/postloop/postloop/utils"
)

// StreakController exposes streak and progression read endpoints.
type StreakController struct {
	db      *gorm.DB
	streaks *services.StreakService
}

// NewStreakController creates a StreakController.
func NewStreakController(db *gorm.DB, streaks *services.StreakService) *StreakController {
	return &StreakController{db: db, streaks: streaks}
}

// GetMyStreak returns the authenticated user's streak and progression state.
func (c *StreakController) GetMyStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	c.respondStreak(ctx, userID)
}

// GetUserStreak returns another user's streak and progression state.
func (c *StreakController) GetUserStreak(ctx *gin.Context) {
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}
	c.respondStreak(ctx, uint(targetID))
}

func (c *StreakController) respondStreak(ctx *gin.Context, userID uint) {
	var user models.User
	if err := c.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	active, err := c.streaks.ActiveStreak(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load streak")
		return
	}

	payload := gin.H{
		"current_streak": user.CurrentStreak,
		"longest_streak": user.LongestStreak,
		"level":          user.Level,
		"total_posts":    user.TotalPosts,
		"last_post_date": user.LastPostDate,
	}
	if active != nil {
		payload["active_streak"] = gin.H{
			"start_date": active.StartDate.Format(services.PostDateLayout),
			"end_date":   active.EndDate.Format(services.PostDateLayout),
			"length":     active.Length,
		}
	}
	utils.Success(ctx, payload)
}
