package model

// Scorer 是排序阶段的最小抽象：输入定长特征向量批次，输出可比较的分数批次。
// 具体实现可以是本地模型（Linear/DNN）或远程 RPC 服务。
//
// 约定：
//   - 对固定权重，ScoreBatch 是确定性的
//   - 返回的分数数量必须与输入向量数量一致
type Scorer interface {
	Name() string

	// NumFeatures 返回模型期望的向量维度；返回 0 表示任意维度（如远程模型）。
	NumFeatures() int

	// ScoreBatch 批量打分。
	ScoreBatch(vectors [][]float64) ([]float64, error)
}
