// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"github.com/go-errors/errors"
)

// ErrUnavailable is returned when a memory map does not entirely cover the
// reserved window.
var ErrUnavailable = errors.New("reserved memory not available")

// Available verifies that the union of all regions covers w.
//
// The regions are unsorted and the window might be covered by several
// adjacent regions, each one only partially overlapping it. The uncovered
// interval is therefore narrowed, from either edge, across repeated passes
// until it is empty or a pass does not change it.
func Available(regions []Region, w Region) error {
	start := w.Start
	end := w.End()

	for {
		lastStart := start
		lastEnd := end

		for _, r := range regions {
			if start == end {
				break
			}

			if r.Start <= start && r.End() >= end {
				return nil
			}

			switch {
			case r.Start <= start && r.End() > start:
				// beginning of the window in this region
				start = min64(r.End(), end)
			case r.End() >= end && r.Start < end:
				// end of the window in this region
				end = max64(r.Start, start)
			}
		}

		if start == end {
			return nil
		}

		if start == lastStart && end == lastEnd {
			break
		}
	}

	return errors.Errorf("%w, %#x..%#x not covered", ErrUnavailable, start, end)
}

// Carve returns a copy of the memory map with w removed. Regions are visited
// in order, each one is either dropped, split, trimmed at its end, trimmed at
// its beginning or kept as is.
func Carve(regions []Region, w Region) (carved []Region) {
	carved = make([]Region, 0, len(regions)+1)

	for _, r := range regions {
		if r.End() <= w.Start || r.Start >= w.End() {
			carved = append(carved, r)
			continue
		}

		if r.Start < w.Start {
			carved = append(carved, Region{
				Start: r.Start,
				Size:  w.Start - r.Start,
			})
		}

		if w.End() < r.End() {
			carved = append(carved, Region{
				Start: w.End(),
				Size:  r.End() - w.End(),
			})
		}
	}

	return
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}

	return b
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}
