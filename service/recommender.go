package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/exhibitkit/catalog"
	"github.com/rushteam/exhibitkit/core"
	"github.com/rushteam/exhibitkit/feature"
	"github.com/rushteam/exhibitkit/filter"
	"github.com/rushteam/exhibitkit/model"
	"github.com/rushteam/exhibitkit/pipeline"
	"github.com/rushteam/exhibitkit/rank"
	"github.com/rushteam/exhibitkit/rerank"
)

// Config 是 Recommender 的装配配置。
type Config struct {
	// Builder 特征构建器，nil 时用默认同义词表构建
	Builder *feature.Builder

	// Metadata 特征元数据，nil 时按 Advanced 用内置顺序
	Metadata *feature.Metadata

	// Scaler 特征标准化器（可选）
	Scaler feature.FeatureScaler

	// Ensemble 打分集成，必填：没有主模型服务无法工作
	Ensemble *model.Ensemble

	// AnchorRules 锚定规则表，nil 时用内置规则
	AnchorRules []rerank.AnchorRule

	// Advanced 是否启用扩展特征
	Advanced bool

	// Catalog 展品目录，用于补全残缺展品（可选）
	Catalog *catalog.Catalog

	// Enricher 实时访客特征来源（可选）
	Enricher feature.VisitorFeatureLoader

	// BlacklistIDs 内存黑名单展品 ID（可选）
	BlacklistIDs []string

	// Concurrency 特征构建并发数（<=0 用默认）
	Concurrency int
}

// Request 是一次推荐请求。
type Request struct {
	Visitor   *core.VisitorProfile
	VisitorID string
	Exhibits  []*core.Exhibit
	TopK      int
}

// RankedResult 是推荐结果里的一项。
type RankedResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Recommender 是展品推荐服务：补全目录数据后，按访客是否带兴趣
// 走模型排序管线或冷启动兜底，输出排好序的展品 ID 与分数。
type Recommender struct {
	builder  *feature.Builder
	catalog  *catalog.Catalog
	ensemble *model.Ensemble
	advanced bool

	pipeline  *pipeline.Pipeline
	coldstart *pipeline.Pipeline

	logger zerolog.Logger
}

// New 装配 Recommender。Ensemble 缺失是致命错误：服务不应在没有
// 主模型的情况下启动。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (*Recommender, error) {
	if cfg.Ensemble == nil {
		return nil, fmt.Errorf("service: ensemble is required")
	}

	builder := cfg.Builder
	if builder == nil {
		builder = feature.NewBuilder()
	}
	meta := cfg.Metadata
	if meta == nil {
		meta = feature.DefaultMetadata(cfg.Advanced)
	}
	rules := cfg.AnchorRules
	if rules == nil {
		rules = rerank.DefaultAnchorRules()
	}

	log := logger.With().Str("service", "recommender").Logger()
	cfg.Ensemble.OnDimensionFix = func(fix model.DimensionFix) {
		log.Warn().
			Str("model", fix.Model).
			Int("want", fix.Want).
			Int("got", fix.Got).
			Msg("feature vector dimension mismatch, truncated/padded")
	}

	filters := []filter.Filter{&filter.InvalidFilter{}}
	if len(cfg.BlacklistIDs) > 0 {
		filters = append(filters, filter.NewBlacklistFilter(cfg.BlacklistIDs, nil, ""))
	}

	nodes := []pipeline.Node{
		&filter.FilterNode{Filters: filters},
	}
	if cfg.Enricher != nil {
		nodes = append(nodes, &feature.EnrichNode{Loader: cfg.Enricher})
	}
	nodes = append(nodes,
		&rank.ScorerNode{
			Builder:     builder,
			Metadata:    meta,
			Scaler:      cfg.Scaler,
			Ensemble:    cfg.Ensemble,
			Concurrency: cfg.Concurrency,
		},
		&rerank.ConfidenceNode{},
		&rerank.MatchNode{},
		&rerank.AnchorNode{Rules: rules},
		&rerank.StrictNode{},
		&rerank.BlendNode{},
		&rerank.DiversityNode{},
		&rerank.OrderNode{},
	)

	coldNodes := []pipeline.Node{
		&filter.FilterNode{Filters: filters},
		&rank.ColdStartNode{},
	}

	return &Recommender{
		builder:   builder,
		catalog:   cfg.Catalog,
		ensemble:  cfg.Ensemble,
		advanced:  cfg.Advanced,
		pipeline:  &pipeline.Pipeline{Nodes: nodes},
		coldstart: &pipeline.Pipeline{Nodes: coldNodes},
		logger:    log,
	}, nil
}

// Ensemble 返回打分集成（用于健康检查展示成员）。
func (r *Recommender) Ensemble() *model.Ensemble { return r.ensemble }

// Recommend 执行一次推荐。
//
// 约定：
//   - 缺 ID 的展品静默丢弃
//   - 空候选集返回空结果而非错误
//   - 结果最多 max(1, topK) 条，按分数降序
func (r *Recommender) Recommend(ctx context.Context, req *Request) ([]RankedResult, error) {
	if req == nil || len(req.Exhibits) == 0 {
		return []RankedResult{}, nil
	}

	visitor := req.Visitor
	if visitor == nil {
		visitor = &core.VisitorProfile{}
	}

	exhibits := req.Exhibits
	if r.catalog != nil {
		exhibits = r.catalog.EnrichExhibits(ctx, exhibits)
	}

	items := make([]*core.Item, 0, len(exhibits))
	for _, ex := range exhibits {
		if ex == nil {
			continue
		}
		items = append(items, core.NewItem(ex))
	}

	rctx := &core.RecommendContext{
		Visitor:  visitor,
		TopK:     req.TopK,
		Advanced: r.advanced,
	}
	if req.VisitorID != "" {
		rctx.Params = map[string]any{"visitor_id": req.VisitorID}
	}

	var (
		ranked []*core.Item
		err    error
	)
	if visitor.HasInterests() {
		ranked, err = r.pipeline.Run(ctx, rctx, items)
	} else {
		r.logger.Debug().Int("candidates", len(items)).Msg("no interests, cold start ranking")
		ranked, err = r.coldstart.Run(ctx, rctx, items)
	}
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK < 1 {
		topK = 1
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	results := make([]RankedResult, 0, len(ranked))
	for _, it := range ranked {
		if it == nil {
			continue
		}
		results = append(results, RankedResult{ID: it.ID, Score: it.FinalScore})
	}

	r.logger.Debug().
		Int("candidates", len(req.Exhibits)).
		Int("results", len(results)).
		Int("top_k", req.TopK).
		Msg("recommend done")
	return results, nil
}
