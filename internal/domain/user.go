package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrUserIDEmpty       = errors.New("user ID cannot be empty")
	ErrUserEmailEmpty    = errors.New("user email cannot be empty")
	ErrInvalidStreak     = errors.New("streak counters must be greater than or equal to 0")
	ErrUserDisabled      = errors.New("user account is disabled")
	ErrUserPasswordEmpty = errors.New("user hashed password cannot be empty")
)

// User represents a learner account. Besides identity it carries the
// practice streak counters, which are updated on every processed answer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Disabled       bool      `json:"disabled"`
	StreakCurrent  int       `json:"streak_current"`
	StreakBest     int       `json:"streak_best"`
	// LastPracticeDay is the UTC calendar date (truncated to midnight) of the
	// most recent processed answer. Zero before the first answer.
	LastPracticeDay time.Time `json:"last_practice_day"`
	TotalAnswered   int       `json:"total_answered"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUser creates a user with zeroed streak counters.
func NewUser(email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}
	if u.Email == "" {
		return ErrUserEmailEmpty
	}
	if u.HashedPassword == "" {
		return ErrUserPasswordEmpty
	}
	if u.StreakCurrent < 0 || u.StreakBest < 0 {
		return ErrInvalidStreak
	}
	return nil
}

// TouchPractice advances the streak counters for an answer processed at now.
// Practicing again on the same UTC day is a no-op; practicing on the day
// after the last practice day extends the streak; any larger gap resets it.
// Best streak is the running maximum. Returns a new User, leaving the
// receiver unmodified.
func (u *User) TouchPractice(now time.Time) *User {
	next := *u
	today := now.UTC().Truncate(24 * time.Hour)

	if !next.LastPracticeDay.Equal(today) {
		yesterday := today.AddDate(0, 0, -1)
		if next.LastPracticeDay.Equal(yesterday) {
			next.StreakCurrent++
		} else {
			next.StreakCurrent = 1
		}
		if next.StreakCurrent > next.StreakBest {
			next.StreakBest = next.StreakCurrent
		}
		next.LastPracticeDay = today
	}

	next.TotalAnswered++
	next.UpdatedAt = now.UTC()
	return &next
}
