package main

import (
	"testing"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  map[string]any
	}{
		{"empty", nil, nil},
		{"key value", []string{"team=search"}, map[string]any{"team": "search"}},
		{"bare key becomes true", []string{"beta"}, map[string]any{"beta": true}},
		{
			"multiple pairs",
			[]string{"team=search", "tier=premium"},
			map[string]any{"team": "search", "tier": "premium"},
		},
		{
			"value containing equals",
			[]string{"expr=a=b"},
			map[string]any{"expr": "a=b"},
		},
		{"empty value", []string{"note="}, map[string]any{"note": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTags(tt.pairs)
			if len(got) != len(tt.want) {
				t.Fatalf("parseTags(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("tag %q = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestToAnySlice(t *testing.T) {
	if got := toAnySlice(nil); got != nil {
		t.Errorf("toAnySlice(nil) = %v, want nil", got)
	}
	got := toAnySlice([]string{"first", "second"})
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("toAnySlice = %v", got)
	}
	if _, ok := got[0].(string); !ok {
		t.Errorf("element type = %T, want string", got[0])
	}
}
