package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reconapp "github.com/portal/backend/internal/application/reconciliation"
	"github.com/portal/backend/internal/application/replenishment"
	"github.com/portal/backend/internal/domain/reconciliation"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/interfaces/http/dto"
)

// ReconciliationHandler exposes the reorder report, BOM status and
// draft-PO batch generation endpoints
type ReconciliationHandler struct {
	BaseHandler
	reorder *reconapp.ReorderReportService
	bom     *reconapp.BomStatusService
	batch   *replenishment.BatchGenerator
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(
	reorder *reconapp.ReorderReportService,
	bom *reconapp.BomStatusService,
	batch *replenishment.BatchGenerator,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		reorder: reorder,
		bom:     bom,
		batch:   batch,
	}
}

// RegisterRoutes registers reconciliation routes on the given group
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reorder-report", h.Report)
	rg.POST("/reorder-report/generate-pos", h.GenerateDraftPOs)
	rg.GET("/job-cards/:id/bom-status", h.BomStatus)
}

// Report handles GET /reorder-report?warehouse=...
func (h *ReconciliationHandler) Report(c *gin.Context) {
	records, err := h.reorder.Report(c.Request.Context(), c.Query("warehouse"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// BomStatus handles GET /job-cards/:id/bom-status
func (h *ReconciliationHandler) BomStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job card ID")
		return
	}

	resp, err := h.bom.StatusForJobCard(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GenerateDraftPOsRequest carries the shortfall rows the user selected
// from the reorder report
type GenerateDraftPOsRequest struct {
	Selected []reconciliation.ShortfallRecord `json:"selected" binding:"required"`
}

// GenerateDraftPOs handles POST /reorder-report/generate-pos. When the
// batch stops partway the orders created before the failure are kept
// and reported alongside the error.
func (h *ReconciliationHandler) GenerateDraftPOs(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req GenerateDraftPOsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.batch.GenerateDraftPOs(c.Request.Context(), req.Selected, actor)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodePartialBatchFailure {
			c.JSON(dto.GetHTTPStatus(domainErr.Code),
				dto.NewPartialResponse(result, domainErr.Code, domainErr.Message, getRequestID(c)))
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
