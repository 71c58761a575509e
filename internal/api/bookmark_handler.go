package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/praxisapp/praxis-api/internal/api/shared"
	"github.com/praxisapp/praxis-api/internal/platform/logger"
	"github.com/praxisapp/praxis-api/internal/redact"
	"github.com/praxisapp/praxis-api/internal/service/bookmark"
	"github.com/praxisapp/praxis-api/internal/service/report"
)

// BookmarkHandler handles bookmark toggling, listing and question reports.
type BookmarkHandler struct {
	bookmarkService *bookmark.Service
	reportService   *report.Service
	logger          *slog.Logger
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(
	bookmarkService *bookmark.Service,
	reportService *report.Service,
	logger *slog.Logger,
) *BookmarkHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BookmarkHandler")
	}

	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		reportService:   reportService,
		logger:          logger.With(slog.String("component", "bookmark_handler")),
	}
}

// Toggle handles POST /questions/{id}/bookmark requests.
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
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

	bookmarked, err := h.bookmarkService.Toggle(r.Context(), userID, questionID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to toggle bookmark"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookmarkToggleResponse{
		QuestionID: questionID.String(),
		Bookmarked: bookmarked,
	})
}

// List handles GET /me/bookmarks requests. Paging comes from the optional
// limit and offset query parameters.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", bookmark.DefaultPageSize)
	offset := queryInt(r, "offset", 0)

	bookmarks, err := h.bookmarkService.List(r.Context(), userID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list bookmarks", err)
		return
	}

	views := make([]BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		views = append(views, BookmarkView{
			QuestionID: b.QuestionID.String(),
			CreatedAt:  b.CreatedAt,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, views)
}

// Report handles POST /questions/{id}/report requests.
func (h *BookmarkHandler) Report(w http.ResponseWriter, r *http.Request) {
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

	var req ReportQuestionRequest
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

	rpt, err := h.reportService.File(r.Context(), userID, questionID, req.IssueType, req.Message)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to file report"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ReportQuestionResponse{
		ReportID: rpt.ID.String(),
	})
}

// queryInt parses an integer query parameter, falling back to def on absence
// or garbage.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
