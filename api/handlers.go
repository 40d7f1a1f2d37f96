// Package api 提供排序服务的 HTTP 接口（gin 实现）。
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/service"
)

// API holds dependencies for API handlers.
type API struct {
	rec    *service.Recommender
	logger zerolog.Logger
}

// NewAPI creates a new API handler structure.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAPI(rec *service.Recommender, logger zerolog.Logger) *API {
	return &API{
		rec:    rec,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// SetupRoutes defines all the HTTP routes for the ranker service.
func SetupRoutes(router *gin.Engine, rec *service.Recommender, logger zerolog.Logger) {
	apiHandler := NewAPI(rec, logger)

	router.GET("/healthz", apiHandler.HealthHandler)
	router.POST("/rank", apiHandler.RankHandler)
}

// DefaultTopK 是请求未携带 topK 时的默认返回数量。
const DefaultTopK = 20

// RankRequest defines the structure for rank requests.
// TopK 用指针区分"未携带"（默认 20）与显式 0/负数（按 max(1, topK) 截断）。
type RankRequest struct {
	UserProfile core.VisitorProfile `json:"userProfile"`
	Exhibits    []*core.Exhibit     `json:"exhibits"`
	TopK        *int                `json:"topK"`
	VisitorID   string              `json:"visitorId,omitempty"`
}

// RankResponse defines the structure for rank responses.
// 失败也返回 200，错误通过 success=false 与 error 字段表达，
// 调用方只依赖 body 判断结果。
type RankResponse struct {
	Success bool                   `json:"success"`
	Results []service.RankedResult `json:"results"`
	Error   string                 `json:"error,omitempty"`
}

// RankHandler handles POST /rank.
func (api *API) RankHandler(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, RankResponse{
			Success: false,
			Results: []service.RankedResult{},
			Error:   "invalid request: " + err.Error(),
		})
		return
	}

	topK := DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	results, err := api.rec.Recommend(c.Request.Context(), &service.Request{
		Visitor:   &req.UserProfile,
		VisitorID: req.VisitorID,
		Exhibits:  req.Exhibits,
		TopK:      topK,
	})
	if err != nil {
		api.logger.Error().Err(err).Int("exhibits", len(req.Exhibits)).Msg("rank failed")
		c.JSON(http.StatusOK, RankResponse{
			Success: false,
			Results: []service.RankedResult{},
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, RankResponse{
		Success: true,
		Results: results,
	})
}

// HealthHandler handles GET /healthz：返回服务状态与集成成员。
func (api *API) HealthHandler(c *gin.Context) {
	members := api.rec.Ensemble().Members()
	models := make([]gin.H, 0, len(members))
	for _, m := range members {
		models = append(models, gin.H{
			"name":   m.Scorer.Name(),
			"weight": m.Weight,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"models": models,
	})
}
