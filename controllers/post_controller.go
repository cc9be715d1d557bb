package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postloop/postloop/middleware"
	"github.com/postloop/postloop/models"
	"github.com/postloop/postloop/services"
	"github.com/postloop/postloop/utils"
)

// PostController handles post publishing, feeds, comments and shares.
type PostController struct {
	db      *gorm.DB
	streaks *services.StreakService
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB, streaks *services.StreakService) *PostController {
	return &PostController{db: db, streaks: streaks}
}

// CreatePost publishes a new post. The row insert and the author's streak
// transition commit in one transaction, so a post never exists without its
// counter updates and vice versa.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	type request struct {
		Title     string `json:"title" binding:"required,min=1,max=255"`
		Content   string `json:"content" binding:"required,min=1"`
		Category  string `json:"category"`
		IsPublic  *bool  `json:"is_public"`
		MediaURLs string `json:"media_urls"`
		MediaType string `json:"media_type"`
		Location  string `json:"location"`
		Tags      string `json:"tags"`
		PostDate  string `json:"post_date"` // YYYY-MM-DD, defaults to today
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	day := services.DateOf(time.Now().UTC())
	if strings.TrimSpace(req.PostDate) != "" {
		parsed, err := services.ParsePostDate(req.PostDate)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40011, "post_date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	if !models.ValidCategory(category) {
		utils.Error(ctx, http.StatusBadRequest, 40012, "unknown category")
		return
	}

	mediaType := strings.TrimSpace(req.MediaType)
	if mediaType == "" {
		mediaType = "text"
	}
	switch mediaType {
	case "text", "image", "video", "reel", "location":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40013, "unknown media type")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := models.Post{
		UserID:    userID,
		Title:     utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:   utils.Sanitize(req.Content),
		Category:  category,
		IsPublic:  isPublic,
		MediaURLs: strings.TrimSpace(req.MediaURLs),
		MediaType: mediaType,
		Location:  strings.TrimSpace(req.Location),
		Tags:      strings.TrimSpace(req.Tags),
		PostDate:  day,
	}

	err := p.streaks.RecordPostWith(ctx.Request.Context(), userID, day, func(tx *gorm.DB, user *models.User) error {
		// Stamp the author's level at publish time, after the engine has
		// advanced it for this post.
		post.Level = user.Level
		return tx.Omit("User", "Comments").Create(&post).Error
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:feed:")
	utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(userID)))
	utils.InvalidateByPrefix("cache:stats:")

	utils.Success(ctx, post)
}

// ListPosts returns the public feed, newest first, optionally filtered by
// category or a search term over title and content.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, size := parsePagination(ctx)
	category := strings.TrimSpace(ctx.Query("category"))
	search := strings.TrimSpace(ctx.Query("search"))

	cacheKey := fmt.Sprintf("cache:posts:feed:p%d:s%d:c%s:q%s", page, size, category, search)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	query := p.db.Model(&models.Post{}).Where("is_public = ?", true)
	if category != "" {
		if !models.ValidCategory(category) {
			utils.Error(ctx, http.StatusBadRequest, 40014, "unknown category")
			return
		}
		query = query.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to count posts")
		return
	}

	var posts []models.Post
	err := query.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name, avatar_url, level, current_streak")
		}).
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list posts")
		return
	}

	payload := gin.H{
		"posts": posts,
		"total": total,
		"page":  page,
		"size":  size,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 5*time.Minute)
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its author and comments. Private posts
// are only visible to their author.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}

	// Public detail pages are viewer-independent, so the cached body is safe
	// to serve to anyone. Private posts always hit the database.
	cacheKey := "cache:posts:detail:" + strconv.Itoa(postID)
	if _, authed := getUserID(ctx); !authed {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var post models.Post
	err = p.db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name, avatar_url, level, current_streak")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, avatar_url")
		}).
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to get post")
		return
	}

	if !post.IsPublic {
		viewerID, _ := getUserID(ctx)
		if viewerID != post.UserID {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
	} else {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: post}, 5*time.Minute)
	}

	utils.Success(ctx, post)
}

// ListUserPosts returns the public posts of one user.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40016, "invalid user id")
		return
	}
	page, size := parsePagination(ctx)

	query := p.db.Model(&models.Post{}).
		Where("user_id = ? AND is_public = ?", targetID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to count posts")
		return
	}

	var posts []models.Post
	err = query.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{"posts": posts, "total": total, "page": page, "size": size})
}

// ListMyPosts returns all posts of the authenticated user, private included.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	page, size := parsePagination(ctx)

	query := p.db.Model(&models.Post{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to count posts")
		return
	}

	var posts []models.Post
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to list posts")
		return
	}

	utils.Success(ctx, gin.H{"posts": posts, "total": total, "page": page, "size": size})
}

// UpdateVisibility toggles a post between public and private.
func (p *PostController) UpdateVisibility(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}

	var req struct {
		IsPublic *bool `json:"is_public" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40017, "is_public is required")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "not the post author")
		return
	}

	if err := p.db.Model(&post).Update("is_public", *req.IsPublic).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:feed:")
	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(int(post.ID)))
	utils.Success(ctx, gin.H{"id": post.ID, "is_public": *req.IsPublic})
}

// DeletePost removes a post and its comments and likes. Deleting a post does
// not rewind the author's streak, level or total count.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "not the post author")
		return
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:feed:")
	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(int(post.ID)))
	utils.InvalidateByPrefix("cache:stats:")
	utils.Success(ctx, gin.H{"id": post.ID, "deleted": true})
}

// SharePost records a share event and returns a share token for building
// external links. Works for anonymous visitors too.
func (p *PostController) SharePost(ctx *gin.Context) {
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if !post.IsPublic {
		utils.Error(ctx, http.StatusForbidden, 40302, "cannot share a private post")
		return
	}

	userID, _ := getUserID(ctx)
	share := models.Share{
		PostID: post.ID,
		UserID: userID,
		Token:  uuid.NewString(),
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&share).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("shares_count", gorm.Expr("shares_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to share post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(int(post.ID)))
	utils.Success(ctx, gin.H{
		"token":        share.Token,
		"shares_count": post.SharesCount + 1,
	})
}

// CreateComment adds a comment to a post and bumps its comment counter.
func (p *PostController) CreateComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,min=1,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40018, "comment content is required")
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if !post.IsPublic && post.UserID != userID {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: utils.Sanitize(strings.TrimSpace(req.Content)),
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(int(post.ID)))
	utils.Success(ctx, comment)
}

// ListComments returns a post's comments, oldest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || postID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40015, "invalid post id")
		return
	}
	page, size := parsePagination(ctx)

	var comments []models.Comment
	err = p.db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, avatar_url")
		}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&comments).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list comments")
		return
	}

	utils.Success(ctx, gin.H{"comments": comments, "page": page, "size": size})
}

// DeleteComment removes a comment. Allowed for the comment author and for
// the post author.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	commentID, err := strconv.Atoi(ctx.Param("commentId"))
	if err != nil || commentID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40019, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := p.db.First(&comment, commentID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "comment not found")
		return
	}

	var post models.Post
	if err := p.db.First(&post, comment.PostID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}
	if comment.UserID != userID && post.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40303, "not allowed to delete this comment")
		return
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ? AND comments_count > 0", post.ID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(int(post.ID)))
	utils.Success(ctx, gin.H{"id": comment.ID, "deleted": true})
}

// getUserID reads the authenticated user ID placed in context by the auth
// middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// parsePagination reads page/size query params with sane bounds.
func parsePagination(ctx *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(ctx.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
