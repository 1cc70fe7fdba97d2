// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var drillSegment = regexp.MustCompile(`^(~?[a-zA-Z0-9_-]+)(\[(\d+|\*)?\])?$`)

// Drill navigates doc with a dot path whose segments are key, key[N] or
// key[*]. A key written ~suffix selects the first object key ending in
// suffix, which reaches rules by short id, as in outcomes.~sia-r8[0].target.
// An array holding a single element is unwrapped unless [*] is given.
func Drill(doc gjson.Result, path string) gjson.Result {
	current := doc

	for _, p := range strings.Split(path, ".") {
		matches := drillSegment.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		val := lookupKey(current, matches[1])
		if !val.Exists() {
			return gjson.Result{}
		}

		if val.IsArray() {
			arr := val.Array()
			switch sel := matches[3]; {
			case sel == "*":
			case sel == "":
				if len(arr) == 1 {
					val = arr[0]
				}
			default:
				index, err := strconv.Atoi(sel)
				if err != nil || index >= len(arr) {
					return gjson.Result{}
				}
				val = arr[index]
			}
		} else if matches[3] != "" {
			return gjson.Result{}
		}

		current = val
	}

	return current
}

func lookupKey(obj gjson.Result, key string) gjson.Result {
	suffix, ok := strings.CutPrefix(key, "~")
	if !ok {
		return obj.Get(gjson.Escape(key))
	}

	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if strings.HasSuffix(k.String(), suffix) {
			found = v
			return false
		}
		return true
	})
	return found
}
