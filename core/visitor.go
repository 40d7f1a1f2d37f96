package core

import "strings"

// VisitorProfile 是一次推荐请求的访客画像，请求内不可变。
//
// 设计要点：
//  维度            作用
//  Interests       严格兴趣匹配 / 特征构建的核心信号
//  AgeBand/Group   类目与年龄段模糊匹配
//  TimeBudget      规则特征（原始分钟数）
//  Mobility        规则特征（one-hot：none）
//  CrowdTolerance  规则特征（one-hot：low/medium/high）
type VisitorProfile struct {
	Interests      []string `json:"interests"`
	AgeBand        string   `json:"ageBand"`
	GroupType      string   `json:"groupType"`
	GroupSize      int      `json:"groupSize,omitempty"`
	TimeBudget     int      `json:"timeBudget,omitempty"`
	Mobility       string   `json:"mobility"`
	CrowdTolerance string   `json:"crowdTolerance"`
}

// CleanInterests 返回去掉空白与空串后的兴趣列表（保序，不改写原 profile）。
func (p *VisitorProfile) CleanInterests() []string {
	out := make([]string, 0, len(p.Interests))
	for _, s := range p.Interests {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// HasInterests 判断访客是否带有兴趣；为空时走冷启动路径。
func (p *VisitorProfile) HasInterests() bool {
	return len(p.CleanInterests()) > 0
}
