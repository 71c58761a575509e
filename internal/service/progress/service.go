// Package progress computes read-only learner statistics: per-topic mastery
// breakdowns, recent activity counts, the practice heatmap and streak
// summary. Everything here is derived from the learning states and the
// attempt log; nothing is written.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/domain/mastery"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/store"
)

// Activity and heatmap windows, in days.
const (
	activityWindowDays = 7
	heatmapWindowDays  = 28
	maxHeatmapLevel    = 4
)

// TopicStats summarizes a user's standing in one topic.
type TopicStats struct {
	TopicID         uuid.UUID
	TotalQuestions  int
	SeenQuestions   int
	TotalAttempts   int
	CorrectAttempts int
	// Accuracy is correct/total over all attempts in the topic, 0 when the
	// user has not attempted anything yet.
	Accuracy float64
	DueCount int
	// Buckets counts seen questions per mastery bucket.
	Buckets map[mastery.Bucket]int
	// BoxDistribution counts seen questions per Leitner box (1..6).
	BoxDistribution map[int]int
}

// DayActivity is the attempt count for one UTC calendar day.
type DayActivity struct {
	Day      string
	Attempts int
}

// HeatmapCell is one day of the practice heatmap. Level scales the day's
// attempt count against the busiest day in the window.
type HeatmapCell struct {
	Day      string
	Attempts int
	Level    int
}

// StreakSummary is the user's current practice streak.
type StreakSummary struct {
	Current         int
	Best            int
	LastPracticeDay string
	TotalAnswered   int
}

// Service computes progress statistics from the stores.
type Service struct {
	users     store.UserStore
	questions store.QuestionStore
	states    store.LearningStateStore
	attempts  store.AttemptStore
	timeFunc  func() time.Time
	logger    *slog.Logger
}

// NewService creates a progress service.
func NewService(
	users store.UserStore,
	questions store.QuestionStore,
	states store.LearningStateStore,
	attempts store.AttemptStore,
	logger *slog.Logger,
) *Service {
	if users == nil || questions == nil || states == nil || attempts == nil {
		panic("stores cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:     users,
		questions: questions,
		states:    states,
		attempts:  attempts,
		timeFunc:  time.Now,
		logger:    logger.With(slog.String("component", "progress_service")),
	}
}

// TopicStats computes the mastery breakdown for one topic.
func (s *Service) TopicStats(ctx context.Context, userID, topicID uuid.UUID) (*TopicStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc().UTC()

	total, err := s.questions.CountActive(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to count topic questions: %w", err)
	}

	states, err := s.states.ListByTopic(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list learning states: %w", err)
	}

	lastThree, err := s.attempts.LastOutcomesByTopic(ctx, userID, topicID, mastery.MinAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent outcomes: %w", err)
	}

	stats := &TopicStats{
		TopicID:         topicID,
		TotalQuestions:  total,
		SeenQuestions:   len(states),
		Buckets:         make(map[mastery.Bucket]int, 4),
		BoxDistribution: make(map[int]int, domain.MaxBoxNumber),
	}

	for _, state := range states {
		stats.TotalAttempts += state.TotalAttempts
		stats.CorrectAttempts += state.CorrectAttempts
		if state.IsDue(now) {
			stats.DueCount++
		}
		stats.BoxDistribution[state.BoxNumber]++

		bucket := mastery.Classify(mastery.Signal{
			TotalAttempts:   state.TotalAttempts,
			CorrectAttempts: state.CorrectAttempts,
			BoxNumber:       state.BoxNumber,
			IntervalDays:    state.IntervalDays,
			LastThree:       lastThree[state.QuestionID],
		})
		stats.Buckets[bucket]++
	}

	if stats.TotalAttempts > 0 {
		stats.Accuracy = float64(stats.CorrectAttempts) / float64(stats.TotalAttempts)
	}

	log.Debug("topic stats computed",
		slog.String("user_id", userID.String()),
		slog.String("topic_id", topicID.String()),
		slog.Int("seen", stats.SeenQuestions),
		slog.Int("due", stats.DueCount))

	return stats, nil
}

// RecentActivity returns attempt counts for the last seven UTC days,
// oldest first. Days without attempts appear with a zero count.
func (s *Service) RecentActivity(ctx context.Context, userID uuid.UUID) ([]DayActivity, error) {
	counts, days, err := s.countWindow(ctx, userID, activityWindowDays)
	if err != nil {
		return nil, err
	}

	activity := make([]DayActivity, 0, len(days))
	for _, day := range days {
		activity = append(activity, DayActivity{Day: day, Attempts: counts[day]})
	}
	return activity, nil
}

// Heatmap returns the 28-day practice heatmap, oldest day first. Levels run
// 0..4, scaled linearly against the busiest day in the window.
func (s *Service) Heatmap(ctx context.Context, userID uuid.UUID) ([]HeatmapCell, error) {
	counts, days, err := s.countWindow(ctx, userID, heatmapWindowDays)
	if err != nil {
		return nil, err
	}

	maxAttempts := 0
	for _, day := range days {
		if counts[day] > maxAttempts {
			maxAttempts = counts[day]
		}
	}

	cells := make([]HeatmapCell, 0, len(days))
	for _, day := range days {
		cells = append(cells, HeatmapCell{
			Day:      day,
			Attempts: counts[day],
			Level:    heatLevel(counts[day], maxAttempts),
		})
	}
	return cells, nil
}

// Streak returns the user's streak counters.
func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (*StreakSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	summary := &StreakSummary{
		Current:       user.StreakCurrent,
		Best:          user.StreakBest,
		TotalAnswered: user.TotalAnswered,
	}
	if !user.LastPracticeDay.IsZero() {
		summary.LastPracticeDay = user.LastPracticeDay.UTC().Format(time.DateOnly)
	}
	return summary, nil
}

// countWindow loads per-day attempt counts for the trailing window and
// returns the full list of day keys, oldest first.
func (s *Service) countWindow(
	ctx context.Context,
	userID uuid.UUID,
	windowDays int,
) (map[string]int, []string, error) {
	today := s.timeFunc().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(windowDays - 1))

	counts, err := s.attempts.CountByDay(ctx, userID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count attempts by day: %w", err)
	}

	days := make([]string, 0, windowDays)
	for d := 0; d < windowDays; d++ {
		days = append(days, since.AddDate(0, 0, d).Format(time.DateOnly))
	}
	return counts, days, nil
}

// heatLevel maps an attempt count to a 0..4 intensity bucket.
func heatLevel(attempts, maxAttempts int) int {
	if attempts == 0 || maxAttempts == 0 {
		return 0
	}
	level := (attempts*maxHeatmapLevel + maxAttempts - 1) / maxAttempts
	if level > maxHeatmapLevel {
		level = maxHeatmapLevel
	}
	return level
}
