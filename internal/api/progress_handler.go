package api

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/praxisapp/praxis-api/internal/api/shared"
	"github.com/praxisapp/praxis-api/internal/domain/mastery"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/service/progress"
)

// ProgressHandler serves the read-only progress endpoints.
type ProgressHandler struct {
	progressService *progress.Service
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *progress.Service, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// TopicStats handles GET /topics/{id}/stats requests.
func (h *ProgressHandler) TopicStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	topicID, ok := getPathUUID(r, "id")
	if !ok {
		log.Warn("invalid topic ID in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid topic ID format")
		return
	}

	stats, err := h.progressService.TopicStats(r.Context(), userID, topicID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to load topic stats", err)
		return
	}

	buckets := make(map[string]int, len(stats.Buckets))
	for bucket, count := range stats.Buckets {
		buckets[string(bucket)] = count
	}
	// Every bucket key is present even when empty.
	for _, bucket := range []mastery.Bucket{
		mastery.BucketMastered, mastery.BucketAlmost, mastery.BucketWeak, mastery.BucketInsufficient,
	} {
		if _, ok := buckets[string(bucket)]; !ok {
			buckets[string(bucket)] = 0
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TopicStatsResponse{
		TopicID:         stats.TopicID.String(),
		TotalQuestions:  stats.TotalQuestions,
		SeenQuestions:   stats.SeenQuestions,
		TotalAttempts:   stats.TotalAttempts,
		CorrectAttempts: stats.CorrectAttempts,
		AccuracyPercent: math.Round(stats.Accuracy*1000) / 10,
		DueCount:        stats.DueCount,
		Buckets:         buckets,
		BoxDistribution: stats.BoxDistribution,
	})
}

// Activity handles GET /me/activity requests.
func (h *ProgressHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	activity, err := h.progressService.RecentActivity(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to load activity", err)
		return
	}

	days := make([]ActivityDayResponse, 0, len(activity))
	for _, day := range activity {
		days = append(days, ActivityDayResponse{Day: day.Day, Attempts: day.Attempts})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, days)
}

// Heatmap handles GET /me/heatmap requests.
func (h *ProgressHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cells, err := h.progressService.Heatmap(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to load heatmap", err)
		return
	}

	response := make([]HeatmapCellResponse, 0, len(cells))
	for _, cell := range cells {
		response = append(response, HeatmapCellResponse{
			Day:      cell.Day,
			Attempts: cell.Attempts,
			Level:    cell.Level,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Streak handles GET /me/streak requests.
func (h *ProgressHandler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	streak, err := h.progressService.Streak(r.Context(), userID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load streak"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StreakResponse{
		Current:         streak.Current,
		Best:            streak.Best,
		LastPracticeDay: streak.LastPracticeDay,
		TotalAnswered:   streak.TotalAnswered,
	})
}
