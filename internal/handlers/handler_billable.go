package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
	"github.com/corefac/facility_billing_app/internal/dto"
	"github.com/corefac/facility_billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billableHandler handles HTTP requests related to billable records.
type billableHandler struct {
	billableService portssvc.BillableSvcFacade
}

// newBillableHandler creates a new billableHandler.
func newBillableHandler(billableService portssvc.BillableSvcFacade) *billableHandler {
	return &billableHandler{
		billableService: billableService,
	}
}

// listUnjournaled handles GET /billables
func (h *billableHandler) listUnjournaled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	facilityID := c.Query("facilityID")
	if facilityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "facilityID query parameter is required"})
		return
	}

	records, err := h.billableService.ListUnjournaled(c.Request.Context(), facilityID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list billable records")
		return
	}

	logger.Debug("Billable records listed", slog.String("facility_id", facilityID), slog.Int("count", len(records)))
	c.JSON(http.StatusOK, gin.H{"records": dto.ToBillableRecordResponses(records)})
}

// registerBillableRoutes registers billable record specific routes
func registerBillableRoutes(group *gin.RouterGroup, billableService portssvc.BillableSvcFacade) {
	h := newBillableHandler(billableService)

	group.GET("/billables", h.listUnjournaled)
}
