package compiler

import (
	"strings"
)

// ResolveAnswers maps tokens onto options.
//
// A token is matched, in this order, as the letter of an option ("A" is the first one),
// as a case-insensitive exact option, or as a case-insensitive substring in either direction.
// The first option in list order wins, tokens that match nothing are dropped,
// and the result lists every matched option once in option order.
func ResolveAnswers(tokens []string, options []string) []string {
	if len(tokens) == 0 || len(options) == 0 {
		return []string{}
	}

	letters := make(map[string]int, len(options))
	lowered := make([]string, len(options))
	for i, option := range options {
		letters[string(rune('A'+i))] = i
		lowered[i] = strings.ToLower(option)
	}

	matched := make([]bool, len(options))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if i, ok := letters[strings.ToUpper(token)]; ok {
			matched[i] = true
			continue
		}
		if i := indexOf(lowered, strings.ToLower(token), exactMatch); i >= 0 {
			matched[i] = true
			continue
		}
		if i := indexOf(lowered, strings.ToLower(token), substringMatch); i >= 0 {
			matched[i] = true
		}
	}

	result := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for i, option := range options {
		if matched[i] && !seen[option] {
			seen[option] = true
			result = append(result, option)
		}
	}
	return result
}

func exactMatch(option, token string) bool {
	return option == token
}

func substringMatch(option, token string) bool {
	return strings.Contains(option, token) || strings.Contains(token, option)
}

func indexOf(options []string, token string, match func(option, token string) bool) int {
	for i, option := range options {
		if match(option, token) {
			return i
		}
	}
	return -1
}
