// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source loads raw audit result documents from local files, stdin,
// S3 objects and HTTP URLs, lists stored snapshots and resolves relative
// snapshot specs such as ~1 against a listing.
package source
