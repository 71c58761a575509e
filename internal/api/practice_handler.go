// Package api provides HTTP handlers for the practice API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/praxisapp/praxis-api/internal/api/shared"
	"github.com/praxisapp/praxis-api/internal/domain"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/redact"
	"github.com/praxisapp/praxis-api/internal/service/review"
	"github.com/praxisapp/praxis-api/internal/service/session"
)

// PracticeHandler handles answer submission and session composition.
type PracticeHandler struct {
	reviewService  review.ReviewService
	sessionService *session.Service
	logger         *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(
	reviewService review.ReviewService,
	sessionService *session.Service,
	logger *slog.Logger,
) *PracticeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PracticeHandler")
	}

	return &PracticeHandler{
		reviewService:  reviewService,
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "practice_handler")),
	}
}

// SubmitAnswer handles POST /questions/{id}/answer requests.
// It grades the submission and advances the question's review schedule.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	questionID, ok := getPathUUID(r, "id")
	if !ok {
		log.Warn("invalid question ID in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid question ID format")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	// Exactly one of chosen_index and dont_know must be present.
	if req.DontKnow == (req.ChosenIndex != nil) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Provide either chosen_index or dont_know")
		return
	}

	attemptID, err := uuid.Parse(req.AttemptID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt ID format")
		return
	}

	sub := review.AnswerSubmission{
		AttemptID:  attemptID,
		QuestionID: questionID,
		DontKnow:   req.DontKnow,
	}
	if req.ChosenIndex != nil {
		sub.ChosenIndex = *req.ChosenIndex
	}

	outcome, err := h.reviewService.SubmitAnswer(r.Context(), userID, sub)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit answer"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("answer submitted",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Bool("correct", outcome.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, SubmitAnswerResponse{
		Correct:      outcome.Correct,
		CorrectIndex: outcome.CanonicalIndex,
		Explanation:  outcome.Explanation,
		EaseFactor:   outcome.EaseFactor,
		IntervalDays: outcome.IntervalDays,
		Replayed:     outcome.Replayed,
	})
}

// ComposeSession handles POST /sessions requests.
// It draws a practice session for the requested topic and mode.
func (h *PracticeHandler) ComposeSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ComposeSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session mode")
		return
	}

	topicID, err := uuid.Parse(req.TopicID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid topic ID format")
		return
	}

	size := session.DefaultSize
	if req.Size != nil {
		size = *req.Size
	}

	selection, err := h.sessionService.Compose(r.Context(), userID, topicID, mode, size)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to compose session", err)
		return
	}

	log.Debug("session composed",
		slog.String("user_id", userID.String()),
		slog.String("session_id", selection.SessionID.String()),
		slog.Int("question_count", len(selection.Questions)))
	shared.RespondWithJSON(w, r, http.StatusOK, ComposeSessionResponse{
		SessionID: selection.SessionID.String(),
		Mode:      string(selection.Mode),
		Questions: questionsToViews(selection.Questions),
	})
}

// questionsToViews converts questions to their practice-time projection,
// omitting the canonical answer.
func questionsToViews(questions []*domain.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:      q.ID.String(),
			TopicID: q.TopicID.String(),
			Stem:    q.Stem,
			Choices: q.Choices,
		})
	}
	return views
}
