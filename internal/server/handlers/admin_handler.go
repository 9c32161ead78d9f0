package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/archive"
	"github.com/mamadbah2/fleetcheck/internal/service/auth"
	"github.com/mamadbah2/fleetcheck/internal/service/fleet"
	"github.com/mamadbah2/fleetcheck/internal/service/reporting"
)

// AdminHandler serves the fleet dashboard, exports and account management.
type AdminHandler struct {
	fleet     *fleet.Service
	users     *auth.Service
	reporting *reporting.Service
	archive   *archive.Service
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdminHandler constructs the administrator handler.
func NewAdminHandler(fl *fleet.Service, users *auth.Service, rep *reporting.Service, arc *archive.Service, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{fleet: fl, users: users, reporting: rep, archive: arc, logger: logger, now: time.Now}
}

// Fleet returns every unit with both sides' status for ?day=.
func (h *AdminHandler) Fleet(c *gin.Context) {
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	done, total, pending := h.fleet.Tally(day)
	c.JSON(http.StatusOK, gin.H{
		"day":     day,
		"units":   h.fleet.Overview(day),
		"done":    done,
		"total":   total,
		"pending": pending,
	})
}

// UnitDetail lists one side of a unit.
func (h *AdminHandler) UnitDetail(c *gin.Context) {
	unit, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		respondError(c, h.logger, domain.NewValidationError("number", "must be a number"), http.StatusInternalServerError)
		return
	}
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	detail, err := h.fleet.UnitDetail(unit, models.UnitKind(c.Param("kind")), day)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Users lists every account.
func (h *AdminHandler) Users(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.Users())
}

type passwordRequest struct {
	Password string `json:"password"`
}

// ChangePassword sets a new password for the account in the path.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), currentUser(c), c.Param("id"), req.Password); err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Export downloads the consolidated fleet workbook.
func (h *AdminHandler) Export(c *gin.Context) {
	day, err := dayParam(c, h.now)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}

	name, data, err := h.reporting.Consolidated(day)
	if err != nil {
		respondError(c, h.logger, err, http.StatusInternalServerError)
		return
	}
	attachment(c, name, data)
}

// History lists the archived reports of the unit named in the path.
func (h *AdminHandler) History(c *gin.Context) {
	entries, err := h.archive.List(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Publish overwrites the shared consolidated sheet right away.
func (h *AdminHandler) Publish(c *gin.Context) {
	rows, err := h.reporting.PublishConsolidated(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadGateway)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
