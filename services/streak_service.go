package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/postloop/postloop/models"
)

var (
	// ErrUserNotFound is returned when the referenced user does not exist;
	// nothing is written in that case.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidDate is returned when a post date fails to parse as a calendar day.
	ErrInvalidDate = errors.New("invalid post date")
)

// PostDateLayout is the wire format for calendar dates.
const PostDateLayout = "2006-01-02"

// ParsePostDate parses a YYYY-MM-DD calendar date.
func ParsePostDate(s string) (time.Time, error) {
	t, err := time.Parse(PostDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DateOf truncates t to its calendar day. The result is always midnight UTC so
// day arithmetic is exact regardless of the zone a driver returned.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / (24 * time.Hour))
}

// StreakService maintains the streak history and the user's denormalized
// streak/level counters as an atomic consequence of a new post being recorded.
//
// Writes for one user are serialized through a per-user lock: the transition
// is a read-modify-write over the active streak and the user counters, and two
// concurrent posts by the same user racing it would corrupt both. Different
// users share no state and proceed in parallel.
type StreakService struct {
	db *gorm.DB

	// locks holds one mutex per user that has posted since boot. Entries are
	// never evicted: deleting one while another goroutine holds it would hand
	// out a second mutex for the same user and break the serialization, and
	// at one small struct per posting user the retained memory stays trivial.
	locks sync.Map // user id -> *sync.Mutex
}

// NewStreakService creates a StreakService on top of the given database.
func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{db: db}
}

func (s *StreakService) userLock(userID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// RecordPost applies the streak transition for a post made on postDate and
// persists the user's counters. All writes land in one transaction; if the
// user does not exist the call fails with ErrUserNotFound and writes nothing.
func (s *StreakService) RecordPost(ctx context.Context, userID uint, postDate time.Time) error {
	return s.RecordPostWith(ctx, userID, postDate, nil)
}

// RecordPostWith is RecordPost with an extra step run inside the same
// transaction, so the caller can make the post row itself and the
// streak/counter updates land or roll back together. The callback sees the
// user after the transition, letting derived fields (the author's level at
// publish time) be stamped on the new row atomically.
func (s *StreakService) RecordPostWith(ctx context.Context, userID uint, postDate time.Time, within func(tx *gorm.DB, user *models.User) error) error {
	if postDate.IsZero() {
		return ErrInvalidDate
	}
	day := DateOf(postDate)

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := s.apply(tx, &user, day); err != nil {
			return err
		}
		if within != nil {
			return within(tx, &user)
		}
		return nil
	})
}

// apply runs the per-user state machine. Exactly one streak row stays active
// afterwards, and user.CurrentStreak equals that row's length.
func (s *StreakService) apply(tx *gorm.DB, user *models.User, day time.Time) error {
	var active models.Streak
	err := tx.Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("start_date DESC").
		First(&active).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First post ever, or every prior streak is closed: open a fresh one.
		if err := openStreak(tx, user.ID, day); err != nil {
			return err
		}
		user.CurrentStreak = 1
		if user.LongestStreak < 1 {
			user.LongestStreak = 1
		}

	case err != nil:
		return err

	default:
		gap := daysBetween(active.EndDate, day)
		switch {
		case gap == 1:
			// Consecutive day: extend the active streak in place.
			active.EndDate = day
			active.Length++
			if err := tx.Model(&models.Streak{}).Where("id = ?", active.ID).
				Updates(map[string]interface{}{"end_date": day, "length": active.Length}).Error; err != nil {
				return err
			}
			user.CurrentStreak = active.Length
			if user.LongestStreak < active.Length {
				user.LongestStreak = active.Length
			}

		case gap > 1:
			// Streak broken: close the old run, open a new one of length 1.
			// LongestStreak only ever grows, so it stays untouched here.
			if err := tx.Model(&models.Streak{}).Where("id = ?", active.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			if err := openStreak(tx, user.ID, day); err != nil {
				return err
			}
			user.CurrentStreak = 1

		default:
			// gap <= 0: another post on the same day, or a backfilled earlier
			// date. Streak state is untouched; only the per-post counters below
			// still move.
		}
	}

	user.TotalPosts++
	user.Level++
	if user.LastPostDate == nil || day.After(DateOf(*user.LastPostDate)) {
		d := day
		user.LastPostDate = &d
	}
	return tx.Save(user).Error
}

func openStreak(tx *gorm.DB, userID uint, day time.Time) error {
	return tx.Create(&models.Streak{
		UserID:    userID,
		StartDate: day,
		EndDate:   day,
		Length:    1,
		IsActive:  true,
	}).Error
}

// ActiveStreak returns the user's currently active streak, or nil when the
// user has never posted or every streak is closed.
func (s *StreakService) ActiveStreak(ctx context.Context, userID uint) (*models.Streak, error) {
	var st models.Streak
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("start_date DESC").
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}
