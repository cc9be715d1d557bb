package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
)

func setupSocialDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{}, &models.Like{}))
	return db
}

func TestFollowAndUnfollow(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	gotAlice := reload(t, db, alice.ID)
	gotBob := reload(t, db, bob.ID)
	assert.Equal(t, 1, gotAlice.FollowingCount)
	assert.Equal(t, 0, gotAlice.FollowersCount)
	assert.Equal(t, 1, gotBob.FollowersCount)
	assert.Equal(t, 0, gotBob.FollowingCount)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	following, err = svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	gotAlice = reload(t, db, alice.ID)
	gotBob = reload(t, db, bob.ID)
	assert.Equal(t, 0, gotAlice.FollowingCount)
	assert.Equal(t, 0, gotBob.FollowersCount)
}

func TestFollowSelf(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")

	err := svc.Follow(context.Background(), alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowDuplicate(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	err := svc.Follow(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrAlreadyFollowing)

	// the failed attempt must not bump counters
	gotBob := reload(t, db, bob.ID)
	assert.Equal(t, 1, gotBob.FollowersCount)
}

func TestFollowUnknownUser(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")

	err := svc.Follow(context.Background(), alice.ID, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	err := svc.Unfollow(context.Background(), alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollowersAndFollowingLists(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, svc.Follow(ctx, carol.ID, alice.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	followers, err := svc.Followers(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	names := []string{followers[0].Username, followers[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)

	following, err := svc.Following(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	gotAlice := reload(t, db, alice.ID)
	assert.Equal(t, 2, gotAlice.FollowersCount)
	assert.Equal(t, 1, gotAlice.FollowingCount)
}

func seedPost(t *testing.T, db *gorm.DB, userID uint) models.Post {
	post := models.Post{UserID: userID, Title: "t", Content: "c", Category: "other", PostDate: day("2026-01-01")}
	require.NoError(t, db.Omit("User", "Comments").Create(&post).Error)
	return post
}

func TestLikeAndUnlike(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID)
	ctx := context.Background()

	require.NoError(t, svc.Like(ctx, bob.ID, post.ID))

	liked, err := svc.IsPostLiked(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 1, got.LikesCount)

	require.ErrorIs(t, svc.Like(ctx, bob.ID, post.ID), ErrAlreadyLiked)

	require.NoError(t, svc.Unlike(ctx, bob.ID, post.ID))
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, 0, got.LikesCount)

	require.ErrorIs(t, svc.Unlike(ctx, bob.ID, post.ID), ErrNotLiked)
}

func TestLikeUnknownPost(t *testing.T) {
	db := setupSocialDB(t)
	svc := NewSocialService(db)
	bob := seedUser(t, db, "bob")

	err := svc.Like(context.Background(), bob.ID, 9999)
	require.ErrorIs(t, err, ErrPostNotFound)
}
