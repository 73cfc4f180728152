package model

import (
	"encoding/json"
	"sort"
)

type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockVideo BlockType = "video"
)

const ContentVersion = "1.0"

// ContentBlock 课时富文本内容的一个单元
// swagger:model ContentBlock
type ContentBlock struct {
	ID    string                 `json:"id"`
	Type  BlockType              `json:"type"`
	Data  map[string]interface{} `json:"data"`
	Order int                    `json:"order"`
}

// VersionedContent 课时内容的规范存储格式
// swagger:model VersionedContent
type VersionedContent struct {
	Version string         `json:"version"`
	Blocks  []ContentBlock `json:"blocks"`
}

// ParseLessonContent 将三种历史编码（版本化对象、裸块数组、纯文本）统一解析为块列表。
// 无法解析为 JSON 的内容一律降级为单个 text 块，不向上抛错。
func ParseLessonContent(raw string) []ContentBlock {
	if raw == "" {
		return []ContentBlock{}
	}

	var versioned VersionedContent
	if err := json.Unmarshal([]byte(raw), &versioned); err == nil && versioned.Version != "" {
		return normalizeBlocks(versioned.Blocks)
	}

	var legacy []ContentBlock
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil {
		return normalizeBlocks(legacy)
	}

	return []ContentBlock{
		{
			ID:    GenerateUUID(),
			Type:  BlockText,
			Data:  map[string]interface{}{"text": raw},
			Order: 1,
		},
	}
}

// EncodeLessonContent 序列化为规范的版本化格式
func EncodeLessonContent(blocks []ContentBlock) string {
	content := VersionedContent{
		Version: ContentVersion,
		Blocks:  normalizeBlocks(blocks),
	}
	data, err := json.Marshal(content)
	if err != nil {
		return ""
	}
	return string(data)
}

// normalizeBlocks 按 order 排序后从 1 连续重编号，补齐缺失的 id 和 data
func normalizeBlocks(blocks []ContentBlock) []ContentBlock {
	out := make([]ContentBlock, len(blocks))
	copy(out, blocks)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})

	for i := range out {
		if out[i].ID == "" {
			out[i].ID = GenerateUUID()
		}
		if out[i].Type == "" {
			out[i].Type = BlockText
		}
		if out[i].Data == nil {
			out[i].Data = map[string]interface{}{}
		}
		out[i].Order = i + 1
	}
	return out
}
