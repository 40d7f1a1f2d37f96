package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/exhibitkit/config"
	"github.com/rushteam/exhibitkit/feast"
	"github.com/rushteam/exhibitkit/feature"
	"github.com/rushteam/exhibitkit/filter"
	"github.com/rushteam/exhibitkit/model"
	"github.com/rushteam/exhibitkit/pipeline"
	"github.com/rushteam/exhibitkit/pkg/conv"
	"github.com/rushteam/exhibitkit/rank"
	"github.com/rushteam/exhibitkit/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
	config.Register("rank.scorer", BuildScorerNode)
	config.Register("rank.coldstart", BuildColdStartNode)
	config.Register("rerank.confidence", BuildConfidenceNode)
	config.Register("rerank.match", BuildMatchNode)
	config.Register("rerank.anchor", BuildAnchorNode)
	config.Register("rerank.strict", BuildStrictNode)
	config.Register("rerank.blend", BuildBlendNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("rerank.order", BuildOrderNode)
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "invalid":
			filters = append(filters, &filter.InvalidFilter{})
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["exhibit_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, key))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildFeatureEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	host := conv.ConfigGet(cfg, "host", "")
	if host == "" {
		return nil, fmt.Errorf("feast host not found")
	}
	port := conv.ConfigGetInt(cfg, "port", 6565)
	project := conv.ConfigGet(cfg, "project", "")
	features := conv.SliceAnyToString(cfg["features"])
	if len(features) == 0 {
		return nil, fmt.Errorf("feast features not found")
	}

	var opts []feast.ClientOption
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		opts = append(opts, feast.WithTimeout(time.Duration(sec)*time.Second))
	}
	client, err := feast.NewGrpcClient(host, port, project, opts...)
	if err != nil {
		return nil, err
	}

	return &feature.EnrichNode{
		Loader: &feast.VisitorLoader{
			Client:    client,
			Features:  features,
			EntityKey: conv.ConfigGet(cfg, "entity_key", ""),
		},
		Prefix: conv.ConfigGet(cfg, "prefix", ""),
	}, nil
}

func BuildScorerNode(cfg map[string]interface{}) (pipeline.Node, error) {
	modelPath := conv.ConfigGet(cfg, "model", "")
	if modelPath == "" {
		return nil, fmt.Errorf("model path not found")
	}
	linear, err := model.LoadLinearScorer(modelPath)
	if err != nil {
		return nil, err
	}

	members := []model.Member{
		{Scorer: linear, Weight: conv.ConfigGetFloat(cfg, "linear_weight", 0.6)},
	}
	if dnnPath := conv.ConfigGet(cfg, "dnn_model", ""); dnnPath != "" {
		dnn, err := model.LoadDNNScorer(dnnPath)
		if err != nil {
			return nil, err
		}
		members = append(members, model.Member{
			Scorer: dnn,
			Weight: conv.ConfigGetFloat(cfg, "dnn_weight", 0.3),
		})
	}
	if endpoint := conv.ConfigGet(cfg, "rpc_endpoint", ""); endpoint != "" {
		timeout := time.Duration(conv.ConfigGetInt(cfg, "rpc_timeout", 5)) * time.Second
		members = append(members, model.Member{
			Scorer: model.NewRPCScorer("rpc", endpoint, timeout),
			Weight: conv.ConfigGetFloat(cfg, "rpc_weight", 0.1),
		})
	}
	ensemble, err := model.NewEnsemble(members...)
	if err != nil {
		return nil, err
	}

	builder := feature.NewBuilder()
	if synPath := conv.ConfigGet(cfg, "synonyms", ""); synPath != "" {
		syn, err := feature.LoadSynonyms(synPath)
		if err != nil {
			return nil, err
		}
		builder.Synonyms = syn
	}

	var meta *feature.Metadata
	if metaPath := conv.ConfigGet(cfg, "metadata", ""); metaPath != "" {
		meta, err = feature.LoadMetadata(metaPath)
		if err != nil {
			return nil, err
		}
	} else {
		meta = feature.DefaultMetadata(conv.ConfigGet(cfg, "advanced", true))
	}

	var scaler feature.FeatureScaler
	if scalerPath := conv.ConfigGet(cfg, "scaler", ""); scalerPath != "" {
		scaler, err = feature.LoadScaler(scalerPath)
		if err != nil {
			return nil, err
		}
	}

	return &rank.ScorerNode{
		Builder:     builder,
		Metadata:    meta,
		Scaler:      scaler,
		Ensemble:    ensemble,
		Concurrency: conv.ConfigGetInt(cfg, "concurrency", 0),
	}, nil
}

func BuildColdStartNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.ColdStartNode{}, nil
}

func BuildConfidenceNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.ConfidenceNode{}, nil
}

func BuildMatchNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.MatchNode{}, nil
}

func BuildAnchorNode(cfg map[string]interface{}) (pipeline.Node, error) {
	if path := conv.ConfigGet(cfg, "rules_file", ""); path != "" {
		rules, err := config.LoadAnchorRules(path)
		if err != nil {
			return nil, err
		}
		return &rerank.AnchorNode{Rules: rules}, nil
	}

	if rulesConfig, ok := cfg["rules"].([]interface{}); ok {
		configs := make([]config.AnchorRuleConfig, 0, len(rulesConfig))
		for _, rc := range rulesConfig {
			ruleMap, ok := rc.(map[string]interface{})
			if !ok {
				continue
			}
			configs = append(configs, config.AnchorRuleConfig{
				Name:      conv.ConfigGet(ruleMap, "name", ""),
				Keywords:  conv.SliceAnyToString(ruleMap["keywords"]),
				Predicate: conv.ConfigGet(ruleMap, "predicate", ""),
			})
		}
		rules, err := config.CompileAnchorRules(configs)
		if err != nil {
			return nil, err
		}
		return &rerank.AnchorNode{Rules: rules}, nil
	}

	return &rerank.AnchorNode{Rules: rerank.DefaultAnchorRules()}, nil
}

func BuildStrictNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.StrictNode{}, nil
}

func BuildBlendNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.BlendNode{}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.DiversityNode{}, nil
}

func BuildOrderNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.OrderNode{}, nil
}
