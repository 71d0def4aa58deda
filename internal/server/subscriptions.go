package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
)

type markOptimizedRequest struct {
	Type           string   `json:"type"`
	NewCost        *float64 `json:"new_cost"`
	MonthlySavings float64  `json:"monthly_savings"`
}

// @Summary      Mark Subscription Optimized
// @Description  Record that the user applied an optimization to a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        id      path  string                true  "Subscription ID"
// @Param        request body  markOptimizedRequest  true  "Mark Optimized Request"
// @Success      200  {object}  map[string]string
// @Router       /api/subscriptions/{id}/optimize [post]
func (s *Server) MarkSubscriptionOptimized(c *gin.Context) {
	subscriptionID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, subscriptiondomain.ErrInvalidSubscription)
		return
	}

	var req markOptimizedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID := currentUserID(c)
	if err := s.subSvc.MarkOptimized(c.Request.Context(), subscriptiondomain.MarkOptimizedRequest{
		UserID:         userID,
		SubscriptionID: subscriptionID,
		Type:           req.Type,
		NewCost:        req.NewCost,
		MonthlySavings: req.MonthlySavings,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	// The changed cost invalidates open recommendations for this user.
	s.debouncer.Trigger(userID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Initiate Cancellation
// @Description  Move an active subscription into cancellation
// @Tags         subscriptions
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  map[string]string
// @Router       /api/subscriptions/{id}/cancel [post]
func (s *Server) InitiateCancellation(c *gin.Context) {
	subscriptionID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, subscriptiondomain.ErrInvalidSubscription)
		return
	}

	userID := currentUserID(c)
	if err := s.subSvc.InitiateCancellation(c.Request.Context(), userID, subscriptionID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.debouncer.Trigger(userID)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
