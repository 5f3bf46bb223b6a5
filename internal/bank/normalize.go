package bank

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Normalize coerces a loosely typed record into an Item.
//
// The answer may be a string, a list, or a set (a YAML !!set decodes to a map whose keys are the members).
// Options may be a list or a mapping whose values are used, read from "options" or, when that is empty, "answers".
// Normalize(item.Record()) returns item unchanged for any normalized item.
func Normalize(record map[string]any) Item {
	options := normalizeOptions(record["options"])
	if len(options) == 0 {
		options = normalizeOptions(record["answers"])
	}

	item := Item{
		Question:    strings.TrimSpace(toString(record["question"])),
		Options:     options,
		Answer:      normalizeAnswer(record["answer"]),
		Explanation: strings.TrimSpace(toString(record["explanation"])),
		Image:       normalizeImage(record["image"]),
	}
	item.Multi = toBool(record["multi"]) || len(item.Answer) > 1
	return item
}

// NormalizeAll normalizes every record, keeping their order
func NormalizeAll(records []map[string]any) Bank {
	result := make(Bank, 0, len(records))
	for _, record := range records {
		result = append(result, Normalize(record))
	}
	return result
}

func normalizeOptions(value any) []string {
	var raw []any
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case []any:
		raw = v
	case map[string]any:
		raw = mappingValues(v)
	case map[any]any:
		raw = mappingValues(v)
	}

	options := make([]string, 0, len(raw))
	for _, r := range raw {
		if option := strings.TrimSpace(toString(r)); option != "" {
			options = append(options, option)
		}
	}
	return options
}

func normalizeAnswer(value any) []string {
	var raw []any
	switch v := value.(type) {
	case string:
		raw = []any{v}
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case []any:
		raw = v
	case map[string]any:
		for key := range v {
			raw = append(raw, key)
		}
	case map[any]any:
		for key := range v {
			raw = append(raw, key)
		}
	}

	answer := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := strings.TrimSpace(toString(r)); s != "" {
			answer = append(answer, s)
		}
	}
	slices.Sort(answer)
	return slices.Compact(answer)
}

// mappingValues returns the values of an in-memory mapping ordered by key.
// Keys that are whole numbers sort numerically before the others. Load keeps the written order instead.
func mappingValues[K comparable](mapping map[K]any) []any {
	keys := make([]K, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b K) int {
		return compareKeys(toString(a), toString(b))
	})

	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, mapping[key])
	}
	return values
}

func compareKeys(a, b string) int {
	x, errX := strconv.Atoi(a)
	y, errY := strconv.Atoi(b)
	switch {
	case errX == nil && errY == nil:
		return cmp.Compare(x, y)
	case errX == nil:
		return -1
	case errY == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func normalizeImage(value any) *string {
	image := toString(value)
	if image == "" {
		return nil
	}
	return &image
}

func toString(value any) string {
	return cast.ToString(value)
}

func toBool(value any) bool {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	return cast.ToBool(value)
}
