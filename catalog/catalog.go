package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/exhibitkit/core"
)

// DefaultKeyPrefix 是展品在 Store 中的 key 前缀。
const DefaultKeyPrefix = "exhibit:"

// Catalog 是展品目录：同步任务把展品全量写入 Store（内存或 Redis），
// 服务侧按 ID 读取，用于补全请求里只带 ID 的残缺展品。
type Catalog struct {
	store core.Store

	// KeyPrefix 展品 key 前缀，默认 "exhibit:"
	KeyPrefix string
}

// New 创建展品目录。
func New(s core.Store) *Catalog {
	return &Catalog{store: s, KeyPrefix: DefaultKeyPrefix}
}

func (c *Catalog) key(id string) string {
	prefix := c.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + id
}

// GetExhibit 按 ID 读取展品。不存在时返回 core.ErrStoreNotFound。
func (c *Catalog) GetExhibit(ctx context.Context, id string) (*core.Exhibit, error) {
	data, err := c.store.Get(ctx, c.key(id))
	if err != nil {
		return nil, err
	}
	var ex core.Exhibit
	if err := json.Unmarshal(data, &ex); err != nil {
		return nil, fmt.Errorf("decode exhibit %s: %w", id, err)
	}
	return &ex, nil
}

// PutExhibit 写入单个展品（同步任务用）。
func (c *Catalog) PutExhibit(ctx context.Context, ex *core.Exhibit, ttl ...int) error {
	if ex == nil || ex.ID == "" {
		return fmt.Errorf("exhibit id is required")
	}
	data, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode exhibit %s: %w", ex.ID, err)
	}
	return c.store.Set(ctx, c.key(ex.ID), data, ttl...)
}

// PutExhibits 批量写入展品。
func (c *Catalog) PutExhibits(ctx context.Context, exhibits []*core.Exhibit, ttl ...int) error {
	kvs := make(map[string][]byte, len(exhibits))
	for _, ex := range exhibits {
		if ex == nil || ex.ID == "" {
			continue
		}
		data, err := json.Marshal(ex)
		if err != nil {
			return fmt.Errorf("encode exhibit %s: %w", ex.ID, err)
		}
		kvs[c.key(ex.ID)] = data
	}
	if len(kvs) == 0 {
		return nil
	}
	return c.store.BatchSet(ctx, kvs, ttl...)
}

// EnrichExhibits 用目录数据补全请求里的残缺展品：请求里为空的字段
// 以目录里的值填充，请求里已有的字段保持不变。目录查不到时静默跳过。
func (c *Catalog) EnrichExhibits(ctx context.Context, exhibits []*core.Exhibit) []*core.Exhibit {
	if len(exhibits) == 0 {
		return exhibits
	}

	keys := make([]string, 0, len(exhibits))
	for _, ex := range exhibits {
		if ex != nil && ex.ID != "" {
			keys = append(keys, c.key(ex.ID))
		}
	}
	stored, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return exhibits
	}

	for _, ex := range exhibits {
		if ex == nil || ex.ID == "" {
			continue
		}
		data, ok := stored[c.key(ex.ID)]
		if !ok {
			continue
		}
		var full core.Exhibit
		if err := json.Unmarshal(data, &full); err != nil {
			continue
		}
		fillMissing(ex, &full)
	}
	return exhibits
}

// fillMissing 把 full 中的字段填到 ex 的空缺位置。
func fillMissing(ex, full *core.Exhibit) {
	if ex.Name == "" {
		ex.Name = full.Name
	}
	if ex.Description == "" {
		ex.Description = full.Description
	}
	if ex.Category == "" {
		ex.Category = full.Category
	}
	if ex.ExhibitType == "" {
		ex.ExhibitType = full.ExhibitType
	}
	if ex.AgeRange == "" {
		ex.AgeRange = full.AgeRange
	}
	if ex.GroupType == "" {
		ex.GroupType = full.GroupType
	}
	if len(ex.Features) == 0 {
		ex.Features = full.Features
	}
	if len(ex.InteractiveFeatures) == 0 {
		ex.InteractiveFeatures = full.InteractiveFeatures
	}
	if len(ex.Tags) == 0 {
		ex.Tags = full.Tags
	}
	if ex.Rating == 0 {
		ex.Rating = full.Rating
	}
}
