// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/tfctl/a11ydiff/internal/log"
)

// DumpSchema writes the keys of an outcome row available to --attrs,
// --filter and --sort. If w is nil, os.Stdout is used.
func DumpSchema(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Outcome row keys available to the --attrs, --filter and --sort flags.
Keys inside expectations are reached with gjson paths, for example
expectations.1.holds.`)
	fmt.Fprintln(w, "")

	for _, key := range schemaKeys(reflect.TypeOf(Row{})) {
		fmt.Fprintln(w, key)
	}
}

// schemaKeys lists the json tag names of typ in field order.
func schemaKeys(typ reflect.Type) []string {
	keys := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("json")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		log.Tracef("schema field: field=%s key=%s", field.Name, name)
		keys = append(keys, name)
	}
	return keys
}
