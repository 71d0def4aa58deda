package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
)

// @Summary      Find Bundle Matches
// @Description  Match the user's active subscriptions against the bundle catalog
// @Tags         bundles
// @Produce      json
// @Param        min_savings           query  number  false  "Minimum monthly savings"
// @Param        min_match_percentage  query  number  false  "Minimum match percentage"
// @Param        max_results           query  int     false  "Maximum results"
// @Success      200  {object}  bundledomain.MatchResult
// @Router       /api/bundles/matches [get]
func (s *Server) FindBundleMatches(c *gin.Context) {
	var opts bundledomain.MatchOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result := s.bundleSvc.FindMatches(c.Request.Context(), currentUserID(c), opts)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// @Summary      List Bundle Recommendations
// @Description  List the user's persisted bundle recommendations
// @Tags         bundles
// @Produce      json
// @Success      200  {object}  []bundledomain.BundleRecommendation
// @Router       /api/bundles/recommendations [get]
func (s *Server) ListBundleRecommendations(c *gin.Context) {
	recs, err := s.bundleSvc.ListRecommendations(c.Request.Context(), currentUserID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// @Summary      Click Bundle Recommendation
// @Description  Record that the user opened a bundle recommendation
// @Tags         bundles
// @Produce      json
// @Param        id  path  string  true  "Bundle Recommendation ID"
// @Success      200  {object}  map[string]string
// @Router       /api/bundles/recommendations/{id}/click [post]
func (s *Server) ClickBundleRecommendation(c *gin.Context) {
	recID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, bundledomain.ErrInvalidID)
		return
	}

	if err := s.bundleSvc.MarkClicked(c.Request.Context(), currentUserID(c), recID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateBundleStatusRequest struct {
	Status string `json:"status"`
}

// @Summary      Update Bundle Recommendation Status
// @Description  Accept or dismiss a bundle recommendation
// @Tags         bundles
// @Accept       json
// @Produce      json
// @Param        id      path  string                     true  "Bundle Recommendation ID"
// @Param        request body  updateBundleStatusRequest  true  "Status Update Request"
// @Success      200  {object}  map[string]string
// @Router       /api/bundles/recommendations/{id}/status [post]
func (s *Server) UpdateBundleRecommendationStatus(c *gin.Context) {
	recID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, bundledomain.ErrInvalidID)
		return
	}

	var req updateBundleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.bundleSvc.UpdateStatus(c.Request.Context(), currentUserID(c), recID, bundledomain.BundleRecommendationStatus(req.Status)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
