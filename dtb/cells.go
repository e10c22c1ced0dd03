// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dtb

import (
	"encoding/binary"
	"math"

	"github.com/go-errors/errors"

	"github.com/usbarmory/GoTEE-bios/mem"
)

var (
	ErrCells    = errors.New("invalid cell size")
	ErrOverflow = errors.New("buffer overflow")
	ErrRange    = errors.New("value out of range")
)

// Cells represents the width, in 32-bit cells, of a device tree address or
// size field.
type Cells int

// Size returns the field width in bytes.
func (c Cells) Size() int {
	return int(c) * 4
}

func (c Cells) valid() bool {
	return c == 1 || c == 2
}

// ReadCell decodes the big-endian field at off, returning its value and the
// offset of the following field.
func ReadCell(buf []byte, off int, c Cells) (val uint64, next int, err error) {
	if !c.valid() {
		return 0, off, errors.Errorf("%w (%d)", ErrCells, c)
	}

	next = off + c.Size()

	if off < 0 || next > len(buf) {
		return 0, off, errors.Errorf("%w, read at %d+%d (%d)", ErrOverflow, off, c.Size(), len(buf))
	}

	if c == 1 {
		val = uint64(binary.BigEndian.Uint32(buf[off:]))
	} else {
		val = binary.BigEndian.Uint64(buf[off:])
	}

	return
}

// WriteCell encodes val at off, returning the offset of the following field.
func WriteCell(buf []byte, off int, c Cells, val uint64) (next int, err error) {
	if !c.valid() {
		return off, errors.Errorf("%w (%d)", ErrCells, c)
	}

	next = off + c.Size()

	if off < 0 || next > len(buf) {
		return off, errors.Errorf("%w, write at %d+%d (%d)", ErrOverflow, off, c.Size(), len(buf))
	}

	if c == 1 {
		if val > math.MaxUint32 {
			return off, errors.Errorf("%w, %#x does not fit one cell", ErrRange, val)
		}

		binary.BigEndian.PutUint32(buf[off:], uint32(val))
	} else {
		binary.BigEndian.PutUint64(buf[off:], val)
	}

	return
}

// DecodeRegions parses a reg property made of (address, size) pairs.
func DecodeRegions(buf []byte, addr Cells, size Cells) (regions []mem.Region, err error) {
	var start, length uint64

	for off := 0; off < len(buf); {
		if start, off, err = ReadCell(buf, off, addr); err != nil {
			return
		}

		if length, off, err = ReadCell(buf, off, size); err != nil {
			return
		}

		regions = append(regions, mem.Region{Start: start, Size: length})
	}

	return
}

// EncodeRegions packs regions as (address, size) pairs into buf, returning
// the number of bytes written.
func EncodeRegions(buf []byte, regions []mem.Region, addr Cells, size Cells) (n int, err error) {
	for _, r := range regions {
		if n, err = WriteCell(buf, n, addr, r.Start); err != nil {
			return
		}

		if n, err = WriteCell(buf, n, size, r.Size); err != nil {
			return
		}
	}

	return
}
