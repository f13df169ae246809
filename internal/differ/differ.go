// Package differ annotates event lists with structural diffs against the
// previous event touching the same entity, for audit-trail display.
package differ

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/flagbridge-backend/internal/types"
)

const (
	OpAdded   = "added"
	OpDeleted = "deleted"
	OpEdited  = "edited"
)

// Annotate takes events ordered newest-first and returns a copy where
// each event carries Diffs against the next (older) event of the same
// (base type, entity name) group. Nil Diffs means there was no older
// event to compare against; an empty slice means the payloads were
// structurally identical. Unknown event types fall into their own group
// keyed by the raw type string.
func Annotate(events []types.Event) []types.Event {
	out := make([]types.Event, len(events))
	copy(out, events)

	type groupKey struct {
		baseType string
		name     string
	}
	// For each event, remember the index of the newer event in its group
	// so the newer one can diff against this (older) one.
	lastSeen := make(map[groupKey]int)

	for i := range out {
		out[i].Diffs = nil
		key := groupKey{baseType: baseTypeFor(out[i].Type), name: payloadName(out[i].Data)}
		if j, ok := lastSeen[key]; ok {
			out[j].Diffs = diffPayloads(out[i].Data, out[j].Data)
		}
		lastSeen[key] = i
	}
	return out
}

// baseTypeFor buckets raw event types into coarse entity categories so
// that, for example, feature-created and feature-archived events for the
// same toggle diff against each other.
func baseTypeFor(eventType string) string {
	switch {
	case eventType == "drop-features" || strings.HasPrefix(eventType, "feature"):
		return "features"
	case eventType == "drop-strategies" || strings.HasPrefix(eventType, "strategy"):
		return "strategies"
	case strings.HasPrefix(eventType, "context"):
		return "context"
	case strings.HasPrefix(eventType, "project"):
		return "project"
	case eventType == "drop-tag-types" || strings.HasPrefix(eventType, "tag-type"):
		return "tag-type"
	case eventType == "drop-tags" || strings.HasPrefix(eventType, "tag"):
		return "tag"
	case strings.HasPrefix(eventType, "application"):
		return "application"
	default:
		return eventType
	}
}

func payloadName(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var partial struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return ""
	}
	return partial.Name
}

// diffPayloads diffs the older payload against the newer one. The result
// is never nil: identical payloads yield an empty slice.
func diffPayloads(older, newer []byte) []types.FieldDiff {
	diffs := []types.FieldDiff{}
	diffValues(nil, decode(older), decode(newer), &diffs)
	return diffs
}

func decode(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func diffValues(path []string, older, newer interface{}, out *[]types.FieldDiff) {
	if older == nil && newer == nil {
		return
	}

	oldMap, oldIsMap := older.(map[string]interface{})
	newMap, newIsMap := newer.(map[string]interface{})
	if oldIsMap && newIsMap {
		for _, key := range unionKeys(oldMap, newMap) {
			oldVal, inOld := oldMap[key]
			newVal, inNew := newMap[key]
			childPath := appendPath(path, key)
			switch {
			case inOld && !inNew:
				*out = append(*out, types.FieldDiff{Op: OpDeleted, Path: childPath, Lhs: oldVal})
			case !inOld && inNew:
				*out = append(*out, types.FieldDiff{Op: OpAdded, Path: childPath, Rhs: newVal})
			default:
				diffValues(childPath, oldVal, newVal, out)
			}
		}
		return
	}

	oldSlice, oldIsSlice := older.([]interface{})
	newSlice, newIsSlice := newer.([]interface{})
	if oldIsSlice && newIsSlice {
		n := len(oldSlice)
		if len(newSlice) > n {
			n = len(newSlice)
		}
		for i := 0; i < n; i++ {
			childPath := appendPath(path, strconv.Itoa(i))
			switch {
			case i >= len(newSlice):
				*out = append(*out, types.FieldDiff{Op: OpDeleted, Path: childPath, Lhs: oldSlice[i]})
			case i >= len(oldSlice):
				*out = append(*out, types.FieldDiff{Op: OpAdded, Path: childPath, Rhs: newSlice[i]})
			default:
				diffValues(childPath, oldSlice[i], newSlice[i], out)
			}
		}
		return
	}

	if !reflect.DeepEqual(older, newer) {
		*out = append(*out, types.FieldDiff{Op: OpEdited, Path: path, Lhs: older, Rhs: newer})
	}
}

func unionKeys(a, b map[string]interface{}) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendPath(path []string, elem string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, elem)
}
