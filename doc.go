// Package exhibitkit 是博物馆展品排序工具包（Exhibit Ranking Kit）。
//
// 设计要点：
// - Pipeline-first: 排序逻辑通过 Node 串联（Filter → Feature → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地或 RPC 模型均可）
package exhibitkit

import "github.com/rushteam/exhibitkit/pipeline"

// 轻量 facade：便于用户直接 import "exhibitkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindFeature     = pipeline.KindFeature
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
