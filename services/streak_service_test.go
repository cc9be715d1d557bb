package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
)

func setupStreakDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Streak{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func day(s string) time.Time {
	t, err := ParsePostDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func reload(t *testing.T, db *gorm.DB, id uint) models.User {
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return u
}

func activeStreaks(t *testing.T, db *gorm.DB, userID uint) []models.Streak {
	var streaks []models.Streak
	require.NoError(t, db.Where("user_id = ? AND is_active = ?", userID, true).Find(&streaks).Error)
	return streaks
}

func TestRecordPostFirstEver(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")

	require.NoError(t, svc.RecordPost(context.Background(), u.ID, day("2026-01-01")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, 1, got.TotalPosts)
	assert.Equal(t, 2, got.Level) // starts at 1, one post adds one
	require.NotNil(t, got.LastPostDate)
	assert.Equal(t, "2026-01-01", DateOf(*got.LastPostDate).Format(PostDateLayout))

	active := activeStreaks(t, db, u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].Length)
	assert.Equal(t, "2026-01-01", DateOf(active[0].StartDate).Format(PostDateLayout))
	assert.Equal(t, "2026-01-01", DateOf(active[0].EndDate).Format(PostDateLayout))
}

func TestRecordPostConsecutiveDayExtends(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-02")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)

	active := activeStreaks(t, db, u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, 2, active[0].Length)
	assert.Equal(t, "2026-01-01", DateOf(active[0].StartDate).Format(PostDateLayout))
	assert.Equal(t, "2026-01-02", DateOf(active[0].EndDate).Format(PostDateLayout))

	// the extension mutates the row in place, no second streak appears
	var total int64
	require.NoError(t, db.Model(&models.Streak{}).Where("user_id = ?", u.ID).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestRecordPostGapClosesAndRestarts(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-02")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-05")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak) // record of 2 survives the reset

	var closed models.Streak
	require.NoError(t, db.Where("user_id = ? AND is_active = ?", u.ID, false).First(&closed).Error)
	assert.Equal(t, 2, closed.Length)
	assert.Equal(t, "2026-01-02", DateOf(closed.EndDate).Format(PostDateLayout))

	active := activeStreaks(t, db, u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].Length)
	assert.Equal(t, "2026-01-05", DateOf(active[0].StartDate).Format(PostDateLayout))
}

func TestRecordPostSameDayKeepsStreak(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 3, got.TotalPosts) // per-post counters still move
	assert.Equal(t, 4, got.Level)

	active := activeStreaks(t, db, u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].Length)
}

func TestRecordPostBackfillDoesNotRegress(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-05")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-02")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 2, got.TotalPosts)
	require.NotNil(t, got.LastPostDate)
	// a backfilled older post never moves last_post_date backwards
	assert.Equal(t, "2026-01-05", DateOf(*got.LastPostDate).Format(PostDateLayout))

	active := activeStreaks(t, db, u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, "2026-01-05", DateOf(active[0].EndDate).Format(PostDateLayout))
}

func TestLongestStreakOnlyGrows(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	for _, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04"} {
		require.NoError(t, svc.RecordPost(ctx, u.ID, day(d)))
	}
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-02-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-02-02")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
}

func TestThreeDayRunThenBreak(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-02")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-03")))

	got := reload(t, db, u.ID)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, 3, got.TotalPosts)
	assert.Equal(t, 4, got.Level)

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-06")))

	got = reload(t, db, u.ID)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	assert.Equal(t, 4, got.TotalPosts)
	assert.Equal(t, 5, got.Level)

	var streaks []models.Streak
	require.NoError(t, db.Where("user_id = ?", u.ID).Order("start_date ASC").Find(&streaks).Error)
	require.Len(t, streaks, 2)
	assert.False(t, streaks[0].IsActive)
	assert.Equal(t, 3, streaks[0].Length)
	assert.True(t, streaks[1].IsActive)
	assert.Equal(t, 1, streaks[1].Length)
}

func TestRecordPostUnknownUser(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)

	err := svc.RecordPost(context.Background(), 9999, day("2026-01-01"))
	require.ErrorIs(t, err, ErrUserNotFound)

	var cnt int64
	require.NoError(t, db.Model(&models.Streak{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestRecordPostZeroDate(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")

	err := svc.RecordPost(context.Background(), u.ID, time.Time{})
	require.ErrorIs(t, err, ErrInvalidDate)

	got := reload(t, db, u.ID)
	assert.Equal(t, 0, got.TotalPosts)
}

func TestRecordPostWithRollsBackTogether(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")

	boom := errors.New("boom")
	err := svc.RecordPostWith(context.Background(), u.ID, day("2026-01-01"), func(tx *gorm.DB, user *models.User) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	got := reload(t, db, u.ID)
	assert.Equal(t, 0, got.TotalPosts)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Empty(t, activeStreaks(t, db, u.ID))
}

func TestRecordPostWithInsertsPostAtomically(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")

	post := models.Post{UserID: u.ID, Title: "hello", Content: "world", Category: "other", PostDate: day("2026-01-01")}
	err := svc.RecordPostWith(context.Background(), u.ID, day("2026-01-01"), func(tx *gorm.DB, user *models.User) error {
		post.Level = user.Level
		return tx.Omit("User", "Comments").Create(&post).Error
	})
	require.NoError(t, err)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", u.ID).Count(&postCount).Error)
	assert.EqualValues(t, 1, postCount)

	got := reload(t, db, u.ID)
	assert.Equal(t, 1, got.TotalPosts)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestRecordPostWithStampsPostIncrementLevel(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	// the callback sees the user after the transition, so each row carries
	// the level that counted this post
	for i, d := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
		post := models.Post{UserID: u.ID, Title: "t", Content: "c", Category: "other", PostDate: day(d)}
		err := svc.RecordPostWith(ctx, u.ID, day(d), func(tx *gorm.DB, user *models.User) error {
			post.Level = user.Level
			return tx.Omit("User", "Comments").Create(&post).Error
		})
		require.NoError(t, err)

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, i+2, got.Level) // level starts at 1, each post adds one
	}
}

func TestActiveStreak(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	u := seedUser(t, db, "alice")
	ctx := context.Background()

	st, err := svc.ActiveStreak(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, st)

	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, u.ID, day("2026-01-02")))

	st, err = svc.ActiveStreak(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 2, st.Length)
	assert.True(t, st.IsActive)
}

func TestUsersAreIndependent(t *testing.T) {
	db := setupStreakDB(t)
	svc := NewStreakService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	require.NoError(t, svc.RecordPost(ctx, alice.ID, day("2026-01-01")))
	require.NoError(t, svc.RecordPost(ctx, alice.ID, day("2026-01-02")))
	require.NoError(t, svc.RecordPost(ctx, bob.ID, day("2026-01-02")))

	gotAlice := reload(t, db, alice.ID)
	gotBob := reload(t, db, bob.ID)
	assert.Equal(t, 2, gotAlice.CurrentStreak)
	assert.Equal(t, 1, gotBob.CurrentStreak)
}

func TestParsePostDate(t *testing.T) {
	got, err := ParsePostDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.Format(PostDateLayout))

	_, err = ParsePostDate("03/01/2026")
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParsePostDate("")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysBetweenAcrossMonths(t *testing.T) {
	assert.Equal(t, 1, daysBetween(day("2026-01-31"), day("2026-02-01")))
	assert.Equal(t, 1, daysBetween(day("2026-02-28"), day("2026-03-01")))
	assert.Equal(t, 0, daysBetween(day("2026-01-01"), day("2026-01-01")))
	assert.Equal(t, -3, daysBetween(day("2026-01-05"), day("2026-01-02")))
}
