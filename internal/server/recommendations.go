package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
)

// @Summary      List Recommendations
// @Description  List the user's pending usage-based recommendations
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  []recdomain.OptimizationRecommendation
// @Router       /api/recommendations [get]
func (s *Server) ListRecommendations(c *gin.Context) {
	recs, err := s.recSvc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// @Summary      Trigger Refresh
// @Description  Schedule a debounced regeneration of the user's recommendations
// @Tags         recommendations
// @Produce      json
// @Success      202  {object}  map[string]string
// @Router       /api/recommendations/refresh [post]
func (s *Server) TriggerRefresh(c *gin.Context) {
	s.debouncer.Trigger(currentUserID(c))
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

type updateRecommendationStatusRequest struct {
	Status string `json:"status"`
}

// @Summary      Update Recommendation Status
// @Description  Accept or dismiss a pending recommendation
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        id      path  string                             true  "Recommendation ID"
// @Param        request body  updateRecommendationStatusRequest  true  "Status Update Request"
// @Success      200  {object}  map[string]string
// @Router       /api/recommendations/{id}/status [post]
func (s *Server) UpdateRecommendationStatus(c *gin.Context) {
	recID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, recdomain.ErrInvalidID)
		return
	}

	var req updateRecommendationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.recSvc.UpdateStatus(c.Request.Context(), currentUserID(c), recID, recdomain.RecommendationStatus(req.Status)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Savings Summary
// @Description  Potential and realized savings totals for the user
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  recdomain.SavingsSummary
// @Router       /api/savings/summary [get]
func (s *Server) SavingsSummary(c *gin.Context) {
	summary, err := s.recSvc.SavingsSummary(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
