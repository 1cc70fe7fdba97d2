// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders audit results: outcome tables and aggregate tables
// for people, result documents in JSON or YAML for machines, and a coloured
// per-rule summary.
package output
