package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrPostNotFound     = errors.New("post not found")
	ErrAlreadyLiked     = errors.New("post already liked")
	ErrNotLiked         = errors.New("post not liked")
)

// SocialService maintains the follow graph and post likes together with the
// denormalized counters that summarize them (followers_count/following_count
// on users, likes_count on posts). Edge row and counter always move in the
// same transaction.
type SocialService struct {
	db *gorm.DB
}

// NewSocialService creates a SocialService on top of the given database.
func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// Follow makes followerID follow followingID and bumps both users' counters.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID uint) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&models.User{}).Where("id IN ?", []uint{followerID, followingID}).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt != 2 {
			return ErrUserNotFound
		}

		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existing).Error
		if err == nil {
			return ErrAlreadyFollowing
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error
	})
}

// Unfollow removes the edge and decrements both counters.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFollowing
		}
		if err := tx.Model(&models.User{}).Where("id = ? AND following_count > 0", followerID).
			UpdateColumn("following_count", gorm.Expr("following_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ? AND followers_count > 0", followingID).
			UpdateColumn("followers_count", gorm.Expr("followers_count - 1")).Error
	})
}

// IsFollowing reports whether followerID follows followingID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error
	return cnt > 0, err
}

// Followers lists the users following userID, most recent edge first.
func (s *SocialService) Followers(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

// Following lists the users userID follows, most recent edge first.
func (s *SocialService) Following(ctx context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

// Like marks the post liked by userID and bumps the post's likes_count.
func (s *SocialService) Like(ctx context.Context, userID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
}

// Unlike removes the like row and decrements the post's likes_count.
func (s *SocialService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotLiked
		}
		return tx.Model(&models.Post{}).Where("id = ? AND likes_count > 0", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
}

// IsPostLiked reports whether userID has liked the post.
func (s *SocialService) IsPostLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var cnt int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error
	return cnt > 0, err
}
