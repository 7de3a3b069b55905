// Package labels provides label normalization and label-set predicates
// shared by the engine and the configuration resolvers.
package labels

import "strings"

// Clean normalizes a label for comparison: trimmed and lowercased.
// GitHub treats label names case-insensitively, so every comparison in
// this codebase goes through Clean on both sides.
func Clean(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Contains reports whether the label set carries the given label.
func Contains(set []string, label string) bool {
	want := Clean(label)
	if want == "" {
		return false
	}
	for _, l := range set {
		if Clean(l) == want {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the label set carries at least one of the
// candidate labels.
func ContainsAny(set, candidates []string) bool {
	for _, c := range candidates {
		if Contains(set, c) {
			return true
		}
	}
	return false
}

// ContainsAll reports whether the label set carries every candidate label.
func ContainsAll(set, candidates []string) bool {
	for _, c := range candidates {
		if !Contains(set, c) {
			return false
		}
	}
	return true
}

// WordsToList splits a comma- or whitespace-separated option value into
// a list of non-empty entries.
func WordsToList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	list := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			list = append(list, f)
		}
	}
	return list
}

// ParseBool interprets a configuration value as a boolean. The second
// return value reports whether the value was a recognizable boolean.
func ParseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	}
	return false, false
}
