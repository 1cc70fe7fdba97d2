// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws builds S3 clients used to fetch and list audit result
// snapshots stored in buckets.
package aws
