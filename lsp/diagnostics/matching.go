package diagnostics

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// closeMatchCutoff is the minimum similarity for a fuzzy suggestion.
// Below this, suggestions are noise.
const closeMatchCutoff = 0.6

// isExactMatch reports whether text matches any candidate case-insensitively.
func isExactMatch(text string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.EqualFold(text, candidate) {
			return true
		}
	}
	return false
}

// suggestions returns up to limit candidates resembling text: first
// case-insensitive prefix matches in candidate order, then fuzzy close
// matches, deduplicated, the exact fold excluded from both.
func suggestions(text string, candidates []string, limit int) []string {
	if len(candidates) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	var result []string
	seen := make(map[string]bool)

	for _, candidate := range candidates {
		cl := strings.ToLower(candidate)
		if strings.HasPrefix(cl, lower) && cl != lower && !seen[candidate] {
			result = append(result, candidate)
			seen[candidate] = true
		}
	}

	for _, match := range closeMatches(text, candidates, limit) {
		if strings.EqualFold(match, text) || seen[match] {
			continue
		}
		result = append(result, match)
		seen[match] = true
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// uniquePrefixMatch returns the single candidate text is a case-insensitive
// proper prefix of, or "" when zero or several match. A unique prefix match
// lets later validation stages resolve the node the user meant.
func uniquePrefixMatch(text string, candidates []string) string {
	lower := strings.ToLower(text)
	match := ""
	count := 0
	for _, candidate := range candidates {
		cl := strings.ToLower(candidate)
		if strings.HasPrefix(cl, lower) && cl != lower {
			match = candidate
			count++
		}
	}
	if count == 1 {
		return match
	}
	return ""
}

// closeMatches returns up to limit candidates whose similarity to text is
// at least closeMatchCutoff, best first.
func closeMatches(text string, candidates []string, limit int) []string {
	type scored struct {
		candidate string
		ratio     float64
		order     int
	}

	var matched []scored
	for i, candidate := range candidates {
		r := similarity(text, candidate)
		if r >= closeMatchCutoff {
			matched = append(matched, scored{candidate, r, i})
		}
	}

	sort.SliceStable(matched, func(a, b int) bool {
		if matched[a].ratio != matched[b].ratio {
			return matched[a].ratio > matched[b].ratio
		}
		return matched[a].order < matched[b].order
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	result := make([]string, len(matched))
	for i, m := range matched {
		result[i] = m.candidate
	}
	return result
}

// similarity scores two strings in [0,1] from their Levenshtein distance.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// extractSingleSuggestion pulls the suggestion out of a diagnostic message
// that proposed exactly one alternative ("... Did you mean '--i-table'?").
// Messages with zero or several suggestions yield "".
func extractSingleSuggestion(message string) string {
	const marker = "Did you mean "
	idx := strings.Index(message, marker)
	if idx == -1 {
		return ""
	}

	text := strings.TrimSpace(message[idx+len(marker):])
	if !strings.HasSuffix(text, "?") {
		return ""
	}
	text = strings.TrimSpace(strings.TrimSuffix(text, "?"))
	if text == "" || strings.Contains(text, ",") {
		return ""
	}

	if len(text) >= 2 {
		if (text[0] == '\'' && text[len(text)-1] == '\'') ||
			(text[0] == '"' && text[len(text)-1] == '"') {
			text = text[1 : len(text)-1]
		}
	}
	return text
}
