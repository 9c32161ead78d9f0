package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/warehouse"
)

// WarehouseHandler serves the supply request queue.
type WarehouseHandler struct {
	svc    *warehouse.Service
	logger *zap.Logger
}

// NewWarehouseHandler constructs the warehouse handler.
func NewWarehouseHandler(svc *warehouse.Service, logger *zap.Logger) *WarehouseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarehouseHandler{svc: svc, logger: logger}
}

// List returns requests, optionally filtered by ?status=PENDING|COMPLETED.
func (h *WarehouseHandler) List(c *gin.Context) {
	filter := models.RequestStatus(strings.ToUpper(c.Query("status")))
	if filter != "" && filter != models.RequestPending && filter != models.RequestCompleted {
		respondError(c, h.logger, domain.NewValidationError("status", "must be PENDING or COMPLETED"), http.StatusInternalServerError)
		return
	}

	requests, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Stats returns the pending and distinct-unit counters.
func (h *WarehouseHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type importRequest struct {
	Code string `json:"code"`
}

// Import decodes a pasted sync code into a new pending request.
func (h *WarehouseHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.Import(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Complete marks a request as dispatched.
func (h *WarehouseHandler) Complete(c *gin.Context) {
	updated, err := h.svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Analyze asks the AI for a dispatch plan over the pending queue.
func (h *WarehouseHandler) Analyze(c *gin.Context) {
	summary, err := h.svc.Analyze(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": summary})
}
