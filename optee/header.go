// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package optee implements detection of the OP-TEE image header, which splits
// a Secure World OS image in an init and a paged part.
package optee

import (
	"bytes"
	"encoding/binary"
)

const (
	Magic   = 0x4554504f // "OPTE"
	Version = 1

	ArchARM32 = 0
	ArchARM64 = 1
)

// HeaderSize is the size of the header prefixed to the image.
const HeaderSize = 28

// Header represents the OP-TEE image header (version 1).
type Header struct {
	Magic          uint32
	Version        uint8
	Arch           uint8
	Flags          uint16
	InitSize       uint32
	InitLoadAddrHi uint32
	InitLoadAddrLo uint32
	InitMemUsage   uint32
	PagedSize      uint32
}

// Parse decodes the header at the beginning of an image, the boolean result
// indicates whether the image carries a valid header.
func Parse(image []byte) (h *Header, ok bool) {
	if len(image) < HeaderSize {
		return
	}

	h = &Header{}

	if err := binary.Read(bytes.NewReader(image[:HeaderSize]), binary.LittleEndian, h); err != nil {
		return nil, false
	}

	if h.Magic != Magic || h.Version != Version {
		return nil, false
	}

	return h, true
}

// LoadAddress returns the init part load address.
func (h *Header) LoadAddress() uint64 {
	return uint64(h.InitLoadAddrHi)<<32 | uint64(h.InitLoadAddrLo)
}

// Bytes returns the header encoding.
func (h *Header) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, h)
	return buf.Bytes()
}
