package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/archive"
	"github.com/mamadbah2/fleetcheck/internal/service/climate"
	"github.com/mamadbah2/fleetcheck/internal/service/inventory"
	"github.com/mamadbah2/fleetcheck/internal/service/reporting"
	"github.com/mamadbah2/fleetcheck/internal/service/status"
	"github.com/mamadbah2/fleetcheck/internal/service/synccode"
)

// MobileHandler serves the crew and driver checklist endpoints.
type MobileHandler struct {
	inventory *inventory.Service
	climate   *climate.Service
	reporting *reporting.Service
	archive   *archive.Service
	logger    *zap.Logger
	now       func() time.Time
}

// NewMobileHandler constructs the unit-facing handler.
func NewMobileHandler(inv *inventory.Service, cl *climate.Service, rep *reporting.Service, arc *archive.Service, logger *zap.Logger) *MobileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MobileHandler{inventory: inv, climate: cl, reporting: rep, archive: arc, logger: logger, now: time.Now}
}

// Inventory returns the unit's document and its catalog.
func (h *MobileHandler) Inventory(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"state":   h.inventory.State(user),
		"catalog": models.ItemsFor(user.Kind),
	})
}

// Apply runs one checklist action.
func (h *MobileHandler) Apply(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := currentUser(c)
	action, err := req.toAction(user)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	state, err := h.inventory.Apply(c.Request.Context(), user, action)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Save stamps and stores the document, then tries the central server.
func (h *MobileHandler) Save(c *gin.Context) {
	result, err := h.inventory.Save(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status reports the completion flags of the unit for ?day=.
func (h *MobileHandler) Status(c *gin.Context) {
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"day": day, "status": status.Compute(user, h.inventory.State(user), day)})
}

// SyncCode produces the replenishment token for ?day=.
func (h *MobileHandler) SyncCode(c *gin.Context) {
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	user := currentUser(c)
	payload := synccode.Build(user, h.inventory.State(user), day, h.now())
	code, err := synccode.Encode(payload)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "items": len(payload.Items), "day": day})
}

type climatePushRequest struct {
	Day   int           `json:"day"`
	Shift climate.Shift `json:"shift"`
}

// PushClimate sends one shift reading to the central server.
func (h *MobileHandler) PushClimate(c *gin.Context) {
	var req climatePushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Day == 0 {
		req.Day = h.now().Day()
	}

	if err := h.climate.Push(c.Request.Context(), currentUser(c), req.Day, req.Shift); err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s reading sent", req.Shift)})
}

// ClimateTrend returns the monthly temperature and humidity series.
func (h *MobileHandler) ClimateTrend(c *gin.Context) {
	c.JSON(http.StatusOK, h.climate.Trend(currentUser(c)))
}

// Expiry lists the worst batch status per catalog item.
func (h *MobileHandler) Expiry(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventory.ExpiryReport(currentUser(c)))
}

// ControlSheet downloads the unit's monthly control workbook.
func (h *MobileHandler) ControlSheet(c *gin.Context) {
	user := currentUser(c)
	data, err := h.reporting.UnitControl(user)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	attachment(c, fmt.Sprintf("CONTROL_%s.xlsx", models.FolderName(user.DisplayName)), data)
}

// Template downloads the configured template filled for the unit.
func (h *MobileHandler) Template(c *gin.Context) {
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	user := currentUser(c)
	data, err := h.reporting.Template(c.Request.Context(), user, day)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	attachment(c, fmt.Sprintf("VOM_%s_%d.xlsx", models.FolderName(user.DisplayName), day), data)
}

// History lists the unit's own archived reports.
func (h *MobileHandler) History(c *gin.Context) {
	entries, err := h.archive.List(c.Request.Context(), currentUser(c).DisplayName)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, entries)
}
