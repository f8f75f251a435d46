package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"document_id": {Kind: &qdrant.Value_StringValue{StringValue: "doc-1"}},
		"split_id":    {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
		"score":       {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}},
		"archived":    {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"tags": {Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{
			Values: []*qdrant.Value{
				{Kind: &qdrant.Value_StringValue{StringValue: "policy"}},
			},
		}}},
		"missing": nil,
	}

	got := convertPayloadToMap(payload)

	if got["document_id"] != "doc-1" {
		t.Errorf("document_id = %v, want doc-1", got["document_id"])
	}
	if got["split_id"] != int64(3) {
		t.Errorf("split_id = %v, want int64 3", got["split_id"])
	}
	if got["score"] != 0.5 {
		t.Errorf("score = %v, want 0.5", got["score"])
	}
	if got["archived"] != true {
		t.Errorf("archived = %v, want true", got["archived"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "policy" {
		t.Errorf("tags = %v, want [policy]", got["tags"])
	}
	if _, present := got["missing"]; present {
		t.Error("nil payload values should be dropped")
	}
}

func TestNewQdrantStoreInvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid"); err == nil {
		t.Error("NewQdrantStore() error = nil, want URL parse error")
	}
}
