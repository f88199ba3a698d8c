package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"github.com/corefac/facility_billing_app/internal/dto"
	"github.com/corefac/facility_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// respondServiceError translates service errors to HTTP responses. Typed
// creation errors carry messages safe to surface; everything else collapses
// to a generic 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var alreadyJournaled *apperrors.AlreadyJournaledError
	var pendingJournal *apperrors.FacilityHasPendingJournalError
	var invalidAccount *apperrors.InvalidAccountError
	var requiredField *apperrors.RequiredFieldError

	switch {
	case errors.As(err, &alreadyJournaled) || errors.As(err, &pendingJournal) || errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting journal operation", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &invalidAccount):
		logger.Warn("Funding account rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &requiredField) || errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// createJournal handles POST /journals
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	createReq := dto.CreateJournalRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), createReq, createReq.CreatedBy)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// listJournals handles GET /journals
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListJournalsParams{}
	if raw := c.Query("facilityIDs"); raw != "" {
		params.FacilityIDs = strings.Split(raw, ",")
	}
	params.IncludeMulti = c.Query("includeMulti") == "true"
	params.IncludeRows = c.Query("includeRows") == "true"
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getJournal handles GET /journals/:journalID
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal")
		return
	}

	logger.Debug("Journal retrieved successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// getJournalStatus handles GET /journals/:journalID/status
func (h *journalHandler) getJournalStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	status, err := h.journalService.Status(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive journal status")
		return
	}
	reconciled, err := h.journalService.IsReconciled(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive journal status")
		return
	}
	amount, err := h.journalService.Amount(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute journal amount")
		return
	}
	facilityIDs, err := h.journalService.FacilityIDs(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve journal facilities")
		return
	}

	c.JSON(http.StatusOK, dto.JournalStatusResponse{
		JournalID:   journalID,
		Status:      status,
		Reconciled:  reconciled,
		Amount:      amount,
		FacilityIDs: facilityIDs,
	})
}

// closeJournal handles POST /journals/:journalID/close
func (h *journalHandler) closeJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	closeReq := dto.CloseJournalRequest{}
	if err := c.ShouldBindJSON(&closeReq); err != nil {
		logger.Error("Failed to bind JSON for closeJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	journal, err := h.journalService.CloseJournal(c.Request.Context(), journalID, *closeReq.Succeeded, closeReq.Reference, closeReq.UpdatedBy)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close journal")
		return
	}

	logger.Info("Journal closed successfully", slog.String("journal_id", journalID), slog.String("outcome", string(journal.Outcome)))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// exportJournal handles POST /journals/:journalID/export
func (h *journalHandler) exportJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	exportReq := dto.ExportJournalRequest{}
	if err := c.ShouldBindJSON(&exportReq); err != nil {
		logger.Error("Failed to bind JSON for exportJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	exported, err := h.journalService.ExportSpreadsheet(c.Request.Context(), journalID, exportReq.UpdatedBy)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export journal")
		return
	}
	if !exported {
		c.JSON(http.StatusOK, gin.H{"exported": false, "reason": "journal has no rows"})
		return
	}

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": true, "fileObject": journal.FileObject})
}

// spanCheck handles POST /journals/span-check
func (h *journalHandler) spanCheck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	spanReq := dto.SpanCheckRequest{}
	if err := c.ShouldBindJSON(&spanReq); err != nil {
		logger.Error("Failed to bind JSON for spanCheck", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	spans, err := h.journalService.SpansFiscalYears(c.Request.Context(), spanReq.RecordIDs)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check fiscal year span")
		return
	}
	c.JSON(http.StatusOK, dto.SpanCheckResponse{SpansFiscalYears: spans})
}

// pendingFacilities handles GET /facilities/pending
func (h *journalHandler) pendingFacilities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ids, err := h.journalService.PendingFacilityIDs(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list pending facilities")
		return
	}
	c.JSON(http.StatusOK, gin.H{"facilityIDs": ids})
}

// registerJournalRoutes registers journal specific routes
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := group.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.POST("/span-check", h.spanCheck)
		journals.GET("/:journalID", h.getJournal)
		journals.GET("/:journalID/status", h.getJournalStatus)
		journals.POST("/:journalID/close", h.closeJournal)
		journals.POST("/:journalID/export", h.exportJournal)
	}

	group.GET("/facilities/pending", h.pendingFacilities)
}
