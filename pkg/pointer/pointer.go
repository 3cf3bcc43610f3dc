// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers for optional fields, such as the nullable
// note on a memory.
package pointer

// NonZero returns a pointer to v, or nil when v is the zero value.
// Empty optional inputs are stored as NULL this way.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
