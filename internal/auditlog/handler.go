package auditlog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"code": "invalid_input", "message": msg, "field": field},
	})
}

func parseUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, name, "Invalid "+name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func parseDateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		badRequest(c, name, "Invalid "+name+" format. Use YYYY-MM-DD")
		return nil, false
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, true
}

// filterFromQuery writes a 400 and returns false on a malformed parameter.
func filterFromQuery(c *gin.Context) (AuditLogFilter, bool) {
	f := AuditLogFilter{Action: c.Query("action"), Status: c.Query("status")}
	var ok bool

	if f.ActorID, ok = parseUintQuery(c, "actorId"); !ok {
		return f, false
	}
	if f.TempleID, ok = parseUintQuery(c, "templeId"); !ok {
		return f, false
	}
	if f.FromDate, ok = parseDateQuery(c, "fromDate", false); !ok {
		return f, false
	}
	if f.ToDate, ok = parseDateQuery(c, "toDate", true); !ok {
		return f, false
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return f, true
}

// GetAuditLogs godoc
// @Summary List audit log entries
// @Tags AuditLog
// @Produce json
// @Param actorId query int false "Actor ID"
// @Param templeId query int false "Temple ID"
// @Param action query string false "Action (substring)"
// @Param status query string false "success or failure"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD, inclusive"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter, ok := filterFromQuery(c)
	if !ok {
		return
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("❌ audit log listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "upstream_failure", "message": "Failed to retrieve audit logs"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GetAuditLogByID godoc
// @Summary Get one audit log entry
// @Tags AuditLog
// @Produce json
// @Param id path int true "Audit log ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/audit-logs/{id} [get]
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "id", "Invalid audit log ID")
		return
	}

	entry, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "not_found", "message": "Audit log not found"}})
		return
	case err != nil:
		log.Error().Err(err).Uint64("id", id).Msg("❌ audit log lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "upstream_failure", "message": "Failed to retrieve audit log"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}

// GetAuditLogStats godoc
// @Summary Audit log counts for the last N days
// @Tags AuditLog
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/audit-logs/stats [get]
func (h *Handler) GetAuditLogStats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > 365 {
		badRequest(c, "days", "days must be between 1 and 365")
		return
	}

	to := h.now()
	stats, err := h.service.GetStats(c.Request.Context(), to.AddDate(0, 0, -days), to)
	if err != nil {
		log.Error().Err(err).Msg("❌ audit stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "upstream_failure", "message": "Failed to retrieve audit log stats"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
