package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postloop/postloop/services"
	"github.com/postloop/postloop/utils"
)

// SocialController exposes the follow graph and like endpoints.
type SocialController struct {
	social *services.SocialService
}

// NewSocialController creates a SocialController.
func NewSocialController(db *gorm.DB) *SocialController {
	return &SocialController{social: services.NewSocialService(db)}
}

// Follow makes the authenticated user follow the target user.
func (s *SocialController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}

	err = s.social.Follow(ctx.Request.Context(), userID, uint(targetID))
	switch {
	case err == nil:
		invalidateUserCaches(userID, uint(targetID))
		utils.Success(ctx, gin.H{"following": true})
	case errors.Is(err, services.ErrSelfFollow):
		utils.Error(ctx, http.StatusBadRequest, 40021, "cannot follow yourself")
	case errors.Is(err, services.ErrAlreadyFollowing):
		utils.Error(ctx, http.StatusConflict, 40902, "already following")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to follow user")
	}
}

// Unfollow removes a follow edge.
func (s *SocialController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}

	err = s.social.Unfollow(ctx.Request.Context(), userID, uint(targetID))
	switch {
	case err == nil:
		invalidateUserCaches(userID, uint(targetID))
		utils.Success(ctx, gin.H{"following": false})
	case errors.Is(err, services.ErrNotFollowing):
		utils.Error(ctx, http.StatusConflict, 40903, "not following")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to unfollow user")
	}
}

// FollowStatus reports whether the authenticated user follows the target.
func (s *SocialController) FollowStatus(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}

	following, err := s.social.IsFollowing(ctx.Request.Context(), userID, uint(targetID))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to check follow status")
		return
	}
	utils.Success(ctx, gin.H{"following": following})
}

// Followers lists the users following the target, newest edge first.
func (s *SocialController) Followers(ctx *gin.Context) {
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}
	page, size := parsePagination(ctx)

	users, err := s.social.Followers(ctx.Request.Context(), uint(targetID), (page-1)*size, size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to list followers")
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, publicUserResponse(u))
	}
	utils.Success(ctx, gin.H{"users": out, "page": page, "size": size})
}

// Following lists the users the target follows, newest edge first.
func (s *SocialController) Following(ctx *gin.Context) {
	targetID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || targetID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid user id")
		return
	}
	page, size := parsePagination(ctx)

	users, err := s.social.Following(ctx.Request.Context(), uint(targetID), (page-1)*size, size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to list following")
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, publicUserResponse(u))
	}
	utils.Success(ctx, gin.H{"users": out, "page": page, "size": size})
}

// Like marks a post as liked by the authenticated user.
func (s *SocialController) Like(ctx *gin.Context) {
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

	err = s.social.Like(ctx.Request.Context(), userID, uint(postID))
	switch {
	case err == nil:
		utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(postID))
		utils.Success(ctx, gin.H{"liked": true})
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
	case errors.Is(err, services.ErrAlreadyLiked):
		utils.Error(ctx, http.StatusConflict, 40904, "already liked")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to like post")
	}
}

// Unlike removes a like.
func (s *SocialController) Unlike(ctx *gin.Context) {
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

	err = s.social.Unlike(ctx.Request.Context(), userID, uint(postID))
	switch {
	case err == nil:
		utils.InvalidateByPrefix("cache:posts:detail:" + strconv.Itoa(postID))
		utils.Success(ctx, gin.H{"liked": false})
	case errors.Is(err, services.ErrNotLiked):
		utils.Error(ctx, http.StatusConflict, 40905, "not liked")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to unlike post")
	}
}

// invalidateUserCaches drops cached public payloads for users whose
// follower counters just changed.
func invalidateUserCaches(ids ...uint) {
	for _, id := range ids {
		utils.InvalidateByPrefix("cache:user:public:" + strconv.Itoa(int(id)))
	}
}

// LikeStatus reports whether the authenticated user has liked the post.
func (s *SocialController) LikeStatus(ctx *gin.Context) {
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

	liked, err := s.social.IsPostLiked(ctx.Request.Context(), userID, uint(postID))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50037, "failed to check like status")
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}
