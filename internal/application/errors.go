package application

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a field name (or a payload path such as
// "states[1].cities[2].population") to a human-readable message. Independent
// rule violations accumulate into one map per failing write.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// addPrefixed copies other into e with every key prefixed, used to fold
// per-state and per-city errors into one aggregate map.
func (e FieldErrors) addPrefixed(prefix string, other FieldErrors) {
	for k, v := range other {
		e[prefix+k] = v
	}
}

// BulkErrors carries per-item validation results for an all-or-nothing
// batch insert, aligned by payload index. An empty map means the item was
// valid; the batch is rejected as a whole if any map is non-empty.
type BulkErrors []FieldErrors

func (e BulkErrors) Error() string {
	parts := make([]string, 0, len(e))
	for i, fe := range e {
		if len(fe) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d] %s", i, fe.Error()))
	}
	return strings.Join(parts, "; ")
}

func (e BulkErrors) HasErrors() bool {
	for _, fe := range e {
		if len(fe) > 0 {
			return true
		}
	}
	return false
}
