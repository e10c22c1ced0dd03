// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"fmt"
)

// Region represents a physical memory range.
type Region struct {
	// Start is the first address of the range
	Start uint64
	// Size is the range length in bytes
	Size uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 {
	return r.Start + r.Size
}

// Overlaps returns whether the two regions share at least one byte.
func (r Region) Overlaps(o Region) bool {
	return r.Start < o.End() && o.Start < r.End()
}

func (r Region) String() string {
	return fmt.Sprintf("%#x..%#x", r.Start, r.End())
}

// Total returns the sum of all region sizes.
func Total(regions []Region) (n uint64) {
	for _, r := range regions {
		n += r.Size
	}

	return
}
