package portal

import (
	"regexp"
	"strconv"
	"strings"
)

// Record is a loosely-typed row as scraped from the university portal.
// The portal's schema drifts (casing, synonyms, optional fields), so every
// field access goes through the candidate-key helpers below and degrades to
// a fallback value instead of failing.
type Record map[string]interface{}

var splitRegex = regexp.MustCompile(`[,/|-]`)

// ToString coerces scalar values to string; anything else yields the fallback.
func ToString(v interface{}, fallback string) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return fallback
}

// ToNumber coerces numeric values (including numeric strings) to float64.
func ToNumber(v interface{}, fallback float64) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// ToInt coerces strictly integral values; numeric text must be all digits.
func ToInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}

// ToStringArray coerces a list to its non-empty trimmed string elements.
// A single delimited string ("A , B / C") is split on `,` `/` `|` `-` since
// the portal sometimes joins slot lists into one string.
func ToStringArray(v interface{}) []string {
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, entry := range val {
			if s := strings.TrimSpace(ToString(entry, "")); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(val))
		for _, entry := range val {
			if s := strings.TrimSpace(entry); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := splitRegex.Split(val, -1)
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// AsRecord narrows an arbitrary value to a Record.
func AsRecord(v interface{}) (Record, bool) {
	switch val := v.(type) {
	case Record:
		return val, true
	case map[string]interface{}:
		return Record(val), true
	}
	return nil, false
}

// AsRecords narrows a list value to its Record elements.
func AsRecords(v interface{}) []Record {
	list, ok := v.([]interface{})
	if !ok {
		if recs, ok := v.([]Record); ok {
			return recs
		}
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, entry := range list {
		if rec, ok := AsRecord(entry); ok {
			out = append(out, rec)
		}
	}
	return out
}

// FirstRecords returns the first candidate that holds a non-empty record list.
func FirstRecords(candidates ...interface{}) []Record {
	for _, candidate := range candidates {
		if recs := AsRecords(candidate); len(recs) > 0 {
			return recs
		}
	}
	return nil
}

// Value tries each key in order and returns the first defined, non-nil value.
func (r Record) Value(keys ...string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String resolves a trimmed string field; empty resolutions fall back.
func (r Record) String(keys []string, fallback string) string {
	v, ok := r.Value(keys...)
	if !ok {
		return fallback
	}
	if s := strings.TrimSpace(ToString(v, fallback)); s != "" {
		return s
	}
	return fallback
}

// Number resolves a numeric field.
func (r Record) Number(keys []string, fallback float64) float64 {
	v, ok := r.Value(keys...)
	if !ok {
		return fallback
	}
	return ToNumber(v, fallback)
}

// StringArray resolves a list-of-strings field.
func (r Record) StringArray(keys ...string) []string {
	v, ok := r.Value(keys...)
	if !ok {
		return nil
	}
	return ToStringArray(v)
}

// Child resolves a nested record field; nil when absent.
func (r Record) Child(keys ...string) Record {
	v, ok := r.Value(keys...)
	if !ok {
		return nil
	}
	rec, _ := AsRecord(v)
	return rec
}

// Children resolves a nested record-list field, trying each key until one
// yields a non-empty list.
func (r Record) Children(keys ...string) []Record {
	if r == nil {
		return nil
	}
	for _, key := range keys {
		if recs := AsRecords(r[key]); len(recs) > 0 {
			return recs
		}
	}
	return nil
}

// Index resolves a strictly-numeric 1-based index field within [1, max].
func (r Record) Index(keys []string, max int) (int, bool) {
	if r == nil {
		return 0, false
	}
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := ToInt(v); ok && n > 0 && n <= max {
			return n, true
		}
	}
	return 0, false
}

// Stale reports whether the upstream marked this payload as served from its
// cache rather than a live scrape.
func (r Record) Stale() bool {
	v, ok := r.Value("stale", "Stale")
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
