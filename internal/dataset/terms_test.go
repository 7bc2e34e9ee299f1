package dataset

import (
	"reflect"
	"testing"
)

func TestCanonicalClusterKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2", "2"},
		{"2.0", "2"},
		{" 2 ", "2"},
		{"-1", "-1"},
		{"02", "2"},
		{"noise", "noise"},
		{" noise ", "noise"},
	}

	for _, tt := range tests {
		if got := CanonicalClusterKey(tt.in); got != tt.want {
			t.Errorf("CanonicalClusterKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTerms_CanonicalKeys(t *testing.T) {
	terms, err := parseTerms([]byte(`{"2.0": ["growth"], "3": ["pay"], "x": ["other"]}`))
	if err != nil {
		t.Fatalf("parseTerms: %v", err)
	}

	if got := terms[ClusterKey(2)]; !reflect.DeepEqual(got, []string{"growth"}) {
		t.Errorf("terms[2] = %v", got)
	}
	if got := terms[ClusterKey(3)]; !reflect.DeepEqual(got, []string{"pay"}) {
		t.Errorf("terms[3] = %v", got)
	}
	if _, ok := terms["2.0"]; ok {
		t.Error("raw key 2.0 should have been rewritten")
	}
	if len(terms) != 3 {
		t.Errorf("expected 3 keys, got %d", len(terms))
	}
}

func TestCanonicalTerms_ExactKeyWins(t *testing.T) {
	terms := canonicalTerms(map[string][]string{
		"2.0": {"float"},
		"2":   {"exact"},
		"02":  {"padded"},
	})

	if got := terms["2"]; !reflect.DeepEqual(got, []string{"exact"}) {
		t.Errorf("expected exact key to win, got %v", got)
	}
}
