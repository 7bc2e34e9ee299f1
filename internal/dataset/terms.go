package dataset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/reviewlens/internal/model"
)

// CanonicalClusterKey normalizes a cluster id key. Keys that spell an
// integer ("2", "2.0", " 2 ") become their decimal form; anything else is
// only trimmed.
func CanonicalClusterKey(key string) string {
	key = strings.TrimSpace(key)
	if n, err := parseInt(key); err == nil {
		return strconv.Itoa(n)
	}
	return key
}

// ClusterKey is the canonical key of an integer cluster id
func ClusterKey(id int) string {
	return strconv.Itoa(id)
}

// parseTerms decodes a cluster terms JSON object and canonicalizes its keys
func parseTerms(raw []byte) (model.ClusterTerms, error) {
	var decoded map[string][]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode cluster terms: %w", err)
	}
	return canonicalTerms(decoded), nil
}

// canonicalTerms rekeys a raw lookup. When two raw keys collapse onto the
// same canonical key the one already spelled canonically wins, then the
// lexically smallest.
func canonicalTerms(raw map[string][]string) model.ClusterTerms {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	terms := make(model.ClusterTerms, len(raw))
	exact := make(map[string]bool, len(raw))
	for _, k := range keys {
		canon := CanonicalClusterKey(k)
		isExact := k == canon
		if _, exists := terms[canon]; exists && (exact[canon] || !isExact) {
			continue
		}
		terms[canon] = raw[k]
		exact[canon] = isExact
	}

	return terms
}
