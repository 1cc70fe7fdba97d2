// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package audit models the result of one accessibility audit run: the rule
// outcomes observed against a page snapshot, grouped per rule in the order the
// engine reported them, plus per-rule aggregate counts and timing data.
//
// Results are decoded from the JSON documents written by the audit harness and
// are treated as immutable once decoded.
package audit
