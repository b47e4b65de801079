// Package fieldpath resolves dotted paths against the nested member record
// shape the society API returns. Absence is a normal, silent result: a missing
// intermediate segment yields (nil, false), never an error.
package fieldpath

import (
	"strconv"
	"strings"
)

// Resolve walks record one dotted segment at a time and returns the value at
// path. ok is false when any traversed segment is absent or the cursor is nil
// before all segments are consumed. A segment written as name[i] addresses an
// array element by index before continuing; an out-of-range index is absent.
func Resolve(record map[string]interface{}, path string) (interface{}, bool) {
	if record == nil || path == "" {
		return nil, false
	}

	var cursor interface{} = record
	for _, segment := range strings.Split(path, ".") {
		name, index, indexed := splitIndex(segment)

		obj, ok := cursor.(map[string]interface{})
		if !ok {
			return nil, false
		}
		next, ok := obj[name]
		if !ok {
			return nil, false
		}

		if indexed {
			arr, ok := next.([]interface{})
			if !ok || index < 0 || index >= len(arr) {
				return nil, false
			}
			next = arr[index]
		}

		if next == nil {
			return nil, false
		}
		cursor = next
	}
	return cursor, true
}

// splitIndex parses a trailing [i] off a segment. "accounts[0]" -> ("accounts", 0, true).
func splitIndex(segment string) (name string, index int, ok bool) {
	open := strings.IndexByte(segment, '[')
	if open <= 0 || !strings.HasSuffix(segment, "]") {
		return segment, 0, false
	}
	n, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return segment, 0, false
	}
	return segment[:open], n, true
}
