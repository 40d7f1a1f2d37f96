// exhibitd 是展品排序服务的可执行入口：
// 加载模型权重与特征元数据，装配推荐管线并启动 HTTP 服务。
package main

import (
	"flag"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rushteam/exhibitkit/api"
	"github.com/rushteam/exhibitkit/catalog"
	"github.com/rushteam/exhibitkit/config"
	"github.com/rushteam/exhibitkit/feast"
	"github.com/rushteam/exhibitkit/feature"
	"github.com/rushteam/exhibitkit/model"
	"github.com/rushteam/exhibitkit/rerank"
	"github.com/rushteam/exhibitkit/service"
	"github.com/rushteam/exhibitkit/store"
)

func main() {
	var (
		addr         = flag.String("addr", envOr("EXHIBITD_ADDR", ":8012"), "HTTP listen address")
		modelPath    = flag.String("model", envOr("EXHIBITD_MODEL", "models/linear.json"), "linear model weights (JSON)")
		dnnPath      = flag.String("dnn-model", os.Getenv("EXHIBITD_DNN_MODEL"), "dnn model weights (JSON, optional)")
		rpcEndpoint  = flag.String("rpc-endpoint", os.Getenv("EXHIBITD_RPC_ENDPOINT"), "remote scorer endpoint (optional)")
		metadataPath = flag.String("metadata", os.Getenv("EXHIBITD_METADATA"), "feature metadata (JSON, optional)")
		scalerPath   = flag.String("scaler", os.Getenv("EXHIBITD_SCALER"), "feature scaler (JSON, optional)")
		synonymsPath = flag.String("synonyms", os.Getenv("EXHIBITD_SYNONYMS"), "synonym table (YAML, optional)")
		anchorsPath  = flag.String("anchors", os.Getenv("EXHIBITD_ANCHORS"), "anchor rules (YAML, optional)")
		redisAddr    = flag.String("redis", os.Getenv("EXHIBITD_REDIS"), "redis address for exhibit catalog (optional)")
		feastHost    = flag.String("feast-host", os.Getenv("EXHIBITD_FEAST_HOST"), "feast feature server host (optional)")
		feastPort    = flag.Int("feast-port", 6565, "feast feature server grpc port")
		feastProject = flag.String("feast-project", envOr("EXHIBITD_FEAST_PROJECT", "exhibits"), "feast project name")
		advanced     = flag.Bool("advanced", true, "use expanded feature set")
		debug        = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// 主模型缺失是致命错误：没有打分模型服务没有意义
	linear, err := model.LoadLinearScorer(*modelPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *modelPath).Msg("load linear model failed")
	}
	members := []model.Member{{Scorer: linear, Weight: 0.6}}

	if *dnnPath != "" {
		dnn, err := model.LoadDNNScorer(*dnnPath)
		if err != nil {
			// 次级模型缺失只降级，不阻止启动
			logger.Warn().Err(err).Str("path", *dnnPath).Msg("load dnn model failed, degrading ensemble")
		} else {
			members = append(members, model.Member{Scorer: dnn, Weight: 0.3})
		}
	}
	if *rpcEndpoint != "" {
		members = append(members, model.Member{
			Scorer: model.NewRPCScorer("rpc", *rpcEndpoint, 5*time.Second),
			Weight: 0.1,
		})
	}

	ensemble, err := model.NewEnsemble(members...)
	if err != nil {
		logger.Fatal().Err(err).Msg("build ensemble failed")
	}

	builder := feature.NewBuilder()
	if *synonymsPath != "" {
		syn, err := feature.LoadSynonyms(*synonymsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *synonymsPath).Msg("load synonyms failed")
		}
		builder.Synonyms = syn
	}

	var meta *feature.Metadata
	if *metadataPath != "" {
		meta, err = feature.LoadMetadata(*metadataPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *metadataPath).Msg("load feature metadata failed")
		}
	}

	var scaler feature.FeatureScaler
	if *scalerPath != "" {
		scaler, err = feature.LoadScaler(*scalerPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *scalerPath).Msg("load feature scaler failed")
		}
	}

	var anchorRules []rerank.AnchorRule
	if *anchorsPath != "" {
		anchorRules, err = config.LoadAnchorRules(*anchorsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *anchorsPath).Msg("load anchor rules failed")
		}
	}

	var cat *catalog.Catalog
	if *redisAddr != "" {
		rs, err := store.NewRedisStore(*redisAddr, 0)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", *redisAddr).Msg("connect redis failed")
		}
		defer rs.Close()
		cat = catalog.New(rs)
	}

	var enricher feature.VisitorFeatureLoader
	if *feastHost != "" {
		client, err := feast.NewGrpcClient(*feastHost, *feastPort, *feastProject)
		if err != nil {
			logger.Warn().Err(err).Msg("connect feast failed, realtime features disabled")
		} else {
			defer client.Close()
			enricher = &feast.VisitorLoader{
				Client:   client,
				Features: feastFeatures(),
			}
		}
	}

	rec, err := service.New(service.Config{
		Builder:     builder,
		Metadata:    meta,
		Scaler:      scaler,
		Ensemble:    ensemble,
		AnchorRules: anchorRules,
		Advanced:    *advanced,
		Catalog:     cat,
		Enricher:    enricher,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build recommender failed")
	}

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, rec, logger)

	logger.Info().
		Str("addr", *addr).
		Int("models", len(ensemble.Members())).
		Bool("advanced", *advanced).
		Msg("exhibitd listening")
	if err := router.Run(*addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// feastFeatures 返回默认读取的实时访客特征。
func feastFeatures() []string {
	return []string{
		"visitor_stats:visit_count",
		"visitor_stats:avg_dwell_time",
	}
}
