package render

import (
	"strings"
	"testing"
)

func TestNodeMap_FlattensNestedNodes(t *testing.T) {
	tree := Node{
		Class:      "SerialSet",
		Attributes: map[string]any{"name": "page"},
		Entries: []any{
			Node{
				Context:    "SerialSet",
				Class:      "Text",
				Attributes: map[string]any{"content": "hello"},
			},
			"raw value",
		},
	}

	m := tree.Map()
	if m["class"] != "SerialSet" {
		t.Errorf("expected class key, got %v", m["class"])
	}
	entries, ok := m["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", m["entries"])
	}
	child, ok := entries[0].(map[string]any)
	if !ok {
		t.Fatalf("nested node should flatten to a map, got %T", entries[0])
	}
	if child["class"] != "Text" || child["context"] != "SerialSet" {
		t.Errorf("child mismatch: %v", child)
	}
	if entries[1] != "raw value" {
		t.Errorf("raw entries must pass through, got %v", entries[1])
	}
}

func TestTargetValid(t *testing.T) {
	for _, tc := range []struct {
		target Target
		want   bool
	}{
		{TargetDefault, true},
		{TargetMarkdown, true},
		{TargetHTML, true},
		{Target("latex"), false},
	} {
		if got := tc.target.Valid(); got != tc.want {
			t.Errorf("Valid(%q): expected %v, got %v", tc.target, tc.want, got)
		}
	}
}

func TestMarshalJSON(t *testing.T) {
	out, err := MarshalJSON(map[string]any{"title": "T", "sequence": []any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"title": "T"`) {
		t.Errorf("expected indented JSON, got %s", out)
	}
}
