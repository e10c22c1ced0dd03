// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

import (
	"log"

	"github.com/dustin/go-humanize"
)

// Memory represents the physical address space where images are staged.
type Memory interface {
	// Slice returns a writable view of size bytes starting at addr.
	Slice(addr uint64, size int) ([]byte, error)
}

// Copy writes an image at the given physical address, returning the first
// address past it.
func Copy(m Memory, name string, dst uint64, src []byte) (end uint64, err error) {
	log.Printf("copy image %q (%s) to %#x", name, humanize.Bytes(uint64(len(src))), dst)

	buf, err := m.Slice(dst, len(src))

	if err != nil {
		return
	}

	copy(buf, src)

	return dst + uint64(len(src)), nil
}
