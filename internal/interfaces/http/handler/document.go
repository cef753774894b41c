package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	workflowapp "github.com/portal/backend/internal/application/workflow"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/portal/backend/internal/interfaces/http/dto"
)

// DocumentHandler exposes document creation, lookup and transition endpoints
type DocumentHandler struct {
	BaseHandler
	documents   *workflowapp.DocumentService
	transitions *workflowapp.TransitionService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *workflowapp.DocumentService, transitions *workflowapp.TransitionService) *DocumentHandler {
	return &DocumentHandler{
		documents:   documents,
		transitions: transitions,
	}
}

// RegisterRoutes registers document routes on the given group
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:id", h.Get)
		docs.GET("/:id/audit-trail", h.AuditTrail)
		docs.POST("/:id/transitions", h.Transition)
	}
}

// Create handles POST /documents
func (h *DocumentHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req workflowapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.documents.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /documents?kind=...&status=...
func (h *DocumentHandler) List(c *gin.Context) {
	kind := workflow.DocumentKind(c.Query("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Query parameter \"kind\" is required and must name a document kind")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}
	if listReq.Status != "" {
		filter.Filters["status"] = listReq.Status
	}

	resp, err := h.documents.ListByKind(c.Request.Context(), kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AuditTrail handles GET /documents/:id/audit-trail
func (h *DocumentHandler) AuditTrail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documents.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Transition handles POST /documents/:id/transitions
func (h *DocumentHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	actor, err := getActor(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req workflowapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.transitions.Execute(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
