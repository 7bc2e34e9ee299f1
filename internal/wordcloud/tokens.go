package wordcloud

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/reviewlens/internal/model"
	"golang.org/x/text/unicode/norm"
)

// defaultStopwords is a common English stopword list. Review text is
// cleaned upstream, so this mostly catches what survived cleaning.
var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing", "down",
	"during", "each", "else", "ever", "few", "for", "from", "further", "get", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his",
	"how", "however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "me",
	"more", "most", "my", "myself", "no", "nor", "not", "of", "off", "on", "once", "only",
	"or", "other", "otherwise", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"same", "shall", "she", "should", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these", "they", "this",
	"those", "through", "to", "too", "under", "until", "up", "very", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "with", "would",
	"you", "your", "yours", "yourself", "yourselves", "www", "http", "com",
}

// NewStopwords builds a stopword set from the default list plus extra
func NewStopwords(extra []string) map[string]bool {
	stop := make(map[string]bool, len(defaultStopwords)+len(extra))
	for _, w := range defaultStopwords {
		stop[w] = true
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = true
		}
	}
	return stop
}

// Tokenize splits text into lower-cased word tokens.
// Text is NFC-normalized first so precomposed and combining spellings of
// the same accented word count together. Tokens shorter than two runes,
// pure numbers and stopwords are dropped; a trailing possessive 's is cut.
func Tokenize(text string, stop map[string]bool) []string {
	text = norm.NFC.String(text)

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && r != '\''
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'")
		f = strings.ToLower(f)
		f = strings.TrimSuffix(f, "'s")

		if len([]rune(f)) < 2 || isNumber(f) || stop[f] {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Frequencies counts tokens and returns the maxWords most frequent,
// ordered by count descending then text, weighted against the top count
func Frequencies(tokens []string, maxWords int) []model.WeightedWord {
	counts := make(map[string]int)
	for _, t := range tokens {
		counts[t]++
	}
	if len(counts) == 0 {
		return nil
	}

	words := make([]model.WeightedWord, 0, len(counts))
	for text, n := range counts {
		words = append(words, model.WeightedWord{Text: text, Count: n})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})

	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}

	top := float64(words[0].Count)
	for i := range words {
		words[i].Weight = float64(words[i].Count) / top
	}

	return words
}
