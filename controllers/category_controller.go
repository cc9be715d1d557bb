package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postloop/postloop/models"
	"github.com/postloop/postloop/utils"
)

// CategoryController serves the predefined post category list.
type CategoryController struct{}

// NewCategoryController creates a CategoryController.
func NewCategoryController() *CategoryController {
	return &CategoryController{}
}

// ListCategories returns the full category list, or matches for an optional
// search query over value, label and keywords.
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("search"))
	if query == "" {
		utils.Success(ctx, gin.H{"categories": models.PredefinedCategories})
		return
	}
	utils.Success(ctx, gin.H{"categories": models.SearchCategories(query)})
}
