package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

type recordUsageRequest struct {
	SubscriptionID string    `json:"subscription_id"`
	UsageHours     float64   `json:"usage_hours"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
}

// @Summary      Record Usage
// @Description  Upsert an observed usage window for a subscription
// @Tags         usage
// @Accept       json
// @Produce      json
// @Param        request body recordUsageRequest true "Record Usage Request"
// @Success      200  {object}  usagedomain.ServiceUsage
// @Router       /api/usage [post]
func (s *Server) RecordUsage(c *gin.Context) {
	var req recordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subscriptionID, err := snowflake.ParseString(req.SubscriptionID)
	if err != nil {
		AbortWithError(c, newValidationError("subscription_id", "invalid_subscription_id", "invalid subscription_id"))
		return
	}

	userID := currentUserID(c)
	usage, err := s.usageSvc.Record(c.Request.Context(), usagedomain.RecordRequest{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		UsageHours:     req.UsageHours,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Fresh usage changes what the engine would recommend.
	s.debouncer.Trigger(userID)

	c.JSON(http.StatusOK, gin.H{"data": usage})
}
