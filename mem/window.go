// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"github.com/go-errors/errors"
	"github.com/usbarmory/tamago/dma"
)

// ErrUnmapped is returned when accessing memory outside any staging window.
var ErrUnmapped = errors.New("memory not mapped")

// Window represents a fixed physical memory range, entirely reserved for
// image staging.
type Window struct {
	*dma.Region

	buf []byte
}

// NewWindow reserves the whole physical range starting at start.
func NewWindow(start uint32, size int) *Window {
	r := &dma.Region{
		Start: start,
		Size:  size,
	}

	r.Init()
	_, buf := r.Reserve(size, 0)

	return &Window{
		Region: r,
		buf:    buf,
	}
}

// Bounds returns the window physical range.
func (w *Window) Bounds() Region {
	return Region{
		Start: uint64(w.Start),
		Size:  uint64(w.Size),
	}
}

// Slice returns a writable view of size bytes starting at addr, which must be
// within the window.
func (w *Window) Slice(addr uint64, size int) ([]byte, error) {
	b := w.Bounds()
	r := Region{Start: addr, Size: uint64(size)}

	if size < 0 || r.Start < b.Start || r.End() > b.End() {
		return nil, errors.Errorf("%w, %s outside %s", ErrUnmapped, r, b)
	}

	off := r.Start - b.Start

	return w.buf[off : off+r.Size], nil
}

// Windows represents a set of staging windows, each access must fall within a
// single one.
type Windows []*Window

// Slice returns a writable view of size bytes starting at addr.
func (ws Windows) Slice(addr uint64, size int) ([]byte, error) {
	r := Region{Start: addr, Size: uint64(size)}

	for _, w := range ws {
		if b := w.Bounds(); r.Start >= b.Start && r.End() <= b.End() {
			return w.Slice(addr, size)
		}
	}

	return nil, errors.Errorf("%w, %s", ErrUnmapped, r)
}

var (
	// DTBWindow holds the device tree handed from one world to the next.
	DTBWindow *Window
	// ReservedWindow holds the Secure World OS.
	ReservedWindow *Window
	// StagingWindow holds the Normal World kernel, device tree and root
	// filesystem.
	StagingWindow *Window
)

// Init reserves the staging windows, it must be called only on the target.
func Init() {
	DTBWindow = NewWindow(DTBStart, DTBMaxSize)
	ReservedWindow = NewWindow(ReservedStart, ReservedSize)
	StagingWindow = NewWindow(StagingStart, StagingSize)
}
