package repository

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// NormalizeAttachments converts a raw attachments field into an ordered list
// of URL strings. Historical rows store attachments either as a native array
// or as an object keyed by position ("0", "1", ...); both shapes must decode
// to the same list. Non-string entries are dropped. Any other shape yields nil.
func NormalizeAttachments(raw interface{}) []string {
	switch v := raw.(type) {
	case []interface{}:
		urls := lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
			s, ok := item.(string)
			return s, ok
		})
		if len(urls) == 0 {
			return nil
		}
		return urls
	case []string:
		if len(v) == 0 {
			return nil
		}
		return v
	case map[string]interface{}:
		keys := lo.Keys(v)
		// Numeric keys first in numeric order, the rest lexicographically,
		// matching how the object shape was produced from an array.
		sort.Slice(keys, func(i, j int) bool {
			ni, iErr := strconv.Atoi(keys[i])
			nj, jErr := strconv.Atoi(keys[j])
			switch {
			case iErr == nil && jErr == nil:
				return ni < nj
			case iErr == nil:
				return true
			case jErr == nil:
				return false
			default:
				return keys[i] < keys[j]
			}
		})
		var urls []string
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				urls = append(urls, s)
			}
		}
		return urls
	default:
		return nil
	}
}
