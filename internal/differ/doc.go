// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the outcomes introduced between two audit results,
// renders structural differences between raw result documents, and lets the
// user pick two snapshots to compare.
package differ
