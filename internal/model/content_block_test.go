package model

import (
	"encoding/json"
	"testing"
)

func TestParseLessonContentVersioned(t *testing.T) {
	raw := `{"version":"1.0","blocks":[{"id":"b1","type":"text","data":{"text":"hi"},"order":1},{"id":"b2","type":"image","data":{"url":"/a.png"},"order":2}]}`

	blocks := ParseLessonContent(raw)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].ID != "b1" || blocks[0].Type != BlockText {
		t.Errorf("unexpected first block: %+v", blocks[0])
	}
	if blocks[1].Type != BlockImage || blocks[1].Order != 2 {
		t.Errorf("unexpected second block: %+v", blocks[1])
	}
}

func TestParseLessonContentLegacyArray(t *testing.T) {
	raw := `[{"id":"b1","type":"text","data":{"text":"hi"},"order":1}]`

	blocks := ParseLessonContent(raw)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].ID != "b1" || blocks[0].Order != 1 {
		t.Errorf("unexpected block: %+v", blocks[0])
	}
}

func TestParseLessonContentPlainText(t *testing.T) {
	blocks := ParseLessonContent("just some prose")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 fallback block, got %d", len(blocks))
	}
	if blocks[0].Type != BlockText {
		t.Errorf("expected text block, got %s", blocks[0].Type)
	}
	if blocks[0].Data["text"] != "just some prose" {
		t.Errorf("expected original text preserved, got %v", blocks[0].Data["text"])
	}
	if blocks[0].ID == "" || blocks[0].Order != 1 {
		t.Errorf("fallback block missing id or order: %+v", blocks[0])
	}
}

func TestParseLessonContentGarbage(t *testing.T) {
	blocks := ParseLessonContent(`{"version":`)
	if len(blocks) != 1 || blocks[0].Type != BlockText {
		t.Fatalf("garbage input must degrade to a single text block, got %+v", blocks)
	}
}

func TestParseLessonContentEmpty(t *testing.T) {
	blocks := ParseLessonContent("")
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks for empty content, got %d", len(blocks))
	}
}

func TestNormalizeBlocksRenumber(t *testing.T) {
	raw := `{"version":"1.0","blocks":[{"id":"c","type":"text","order":9},{"id":"a","type":"text","order":2},{"type":"video","order":5}]}`

	blocks := ParseLessonContent(raw)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	// 按原 order 排序后从 1 连续编号
	if blocks[0].ID != "a" || blocks[2].ID != "c" {
		t.Errorf("blocks not sorted by original order: %v, %v, %v", blocks[0].ID, blocks[1].ID, blocks[2].ID)
	}
	for i, b := range blocks {
		if b.Order != i+1 {
			t.Errorf("block %d has order %d, want %d", i, b.Order, i+1)
		}
		if b.ID == "" {
			t.Errorf("block %d missing generated id", i)
		}
		if b.Data == nil {
			t.Errorf("block %d has nil data", i)
		}
	}
}

func TestEncodeLessonContentCanonical(t *testing.T) {
	encoded := EncodeLessonContent([]ContentBlock{
		{ID: "x", Type: BlockText, Data: map[string]interface{}{"text": "hi"}, Order: 7},
	})

	var content VersionedContent
	if err := json.Unmarshal([]byte(encoded), &content); err != nil {
		t.Fatalf("encoded content is not valid JSON: %v", err)
	}
	if content.Version != ContentVersion {
		t.Errorf("expected version %q, got %q", ContentVersion, content.Version)
	}
	if len(content.Blocks) != 1 || content.Blocks[0].Order != 1 {
		t.Errorf("expected single block renumbered to 1, got %+v", content.Blocks)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	original := `[{"type":"text","data":{"text":"a"},"order":3},{"type":"image","data":{"url":"/b.png"},"order":1}]`

	first := EncodeLessonContent(ParseLessonContent(original))
	second := EncodeLessonContent(ParseLessonContent(first))
	if first != second {
		t.Fatalf("normalization is not idempotent:\nfirst:  %s\nsecond: %s", first, second)
	}
}
