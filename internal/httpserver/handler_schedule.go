package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"creatorpulse/internal/model"
	"creatorpulse/internal/repository"
)

type ScheduleHandler struct {
	schedules *repository.ScheduleRepository
	drafts    *repository.DraftRepository
	logger    *zap.Logger
}

func NewScheduleHandler(schedules *repository.ScheduleRepository, drafts *repository.DraftRepository, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		schedules: schedules,
		drafts:    drafts,
		logger:    logger,
	}
}

// GetSchedule handles GET /api/schedule/:user_id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	userID := c.Param("user_id")

	sched, err := h.schedules.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		h.logger.Error("GetSchedule: failed to fetch schedule",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, sched)
}

// PutSchedule handles PUT /api/schedule/:user_id
func (h *ScheduleHandler) PutSchedule(c *gin.Context) {
	userID := c.Param("user_id")

	var req struct {
		Enabled    bool     `json:"enabled"`
		LocalTime  string   `json:"local_time"`
		Timezone   string   `json:"timezone"`
		Frequency  string   `json:"frequency"`
		Recipients []string `json:"recipients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	lt, err := model.ParseLocalTime(req.LocalTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid local_time: " + err.Error()})
		return
	}

	sched := &model.DeliverySchedule{
		UserID:     userID,
		Enabled:    req.Enabled,
		LocalTime:  lt,
		Timezone:   req.Timezone,
		Frequency:  model.Frequency(req.Frequency),
		Recipients: req.Recipients,
	}

	if err := h.schedules.Upsert(c.Request.Context(), sched); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return
		}
		h.logger.Error("PutSchedule: failed to save schedule",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// DisableSchedule handles POST /api/schedule/:user_id/disable
func (h *ScheduleHandler) DisableSchedule(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.schedules.Disable(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		h.logger.Error("DisableSchedule: failed to disable",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to disable schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "disabled"})
}

// ListDrafts handles GET /api/drafts/:user_id
func (h *ScheduleHandler) ListDrafts(c *gin.Context) {
	userID := c.Param("user_id")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	drafts, err := h.drafts.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("ListDrafts: failed to fetch drafts",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch drafts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drafts": drafts,
		"count":  len(drafts),
	})
}
