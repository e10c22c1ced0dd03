// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bios

import (
	"log"

	"github.com/go-errors/errors"

	"github.com/usbarmory/GoTEE-bios/dtb"
	"github.com/usbarmory/GoTEE-bios/mem"
	"github.com/usbarmory/GoTEE-bios/optee"
)

var (
	ErrLoadAddress = errors.New("load address mismatch")
	ErrImageSize   = errors.New("invalid image size")
)

// SecureEntry represents a staged Secure World OS.
type SecureEntry struct {
	// Entry is the init part entry point
	Entry uint32
	// PagedPart is the paged part load address, 0 when absent
	PagedPart uint32
}

// StageSecure loads a Secure World OS image at dst. Images carrying an OP-TEE
// header have their init part loaded at dst and their paged part at the end
// of the reserved window, any other image is loaded verbatim.
func StageSecure(m mem.Memory, image []byte, dst uint64, reserved mem.Region) (e *SecureEntry, err error) {
	hdr, ok := optee.Parse(image)

	if !ok {
		if _, err = mem.Copy(m, "secure world", dst, image); err != nil {
			return
		}

		return &SecureEntry{Entry: uint32(dst)}, nil
	}

	log.Printf("found OP-TEE header (init:%d paged:%d)", hdr.InitSize, hdr.PagedSize)

	if addr := hdr.LoadAddress(); addr != dst {
		return nil, errors.Errorf("%w, %#x != %#x", ErrLoadAddress, addr, dst)
	}

	payload := image[optee.HeaderSize:]

	if uint64(hdr.InitSize) > uint64(len(payload)) {
		return nil, errors.Errorf("%w, init part (%d) exceeds image (%d)", ErrImageSize, hdr.InitSize, len(payload))
	}

	initPart := payload[:hdr.InitSize]
	pagedPart := payload[hdr.InitSize:]

	if uint64(len(pagedPart)) > reserved.Size {
		return nil, errors.Errorf("%w, paged part (%d) exceeds reserved memory (%d)", ErrImageSize, len(pagedPart), reserved.Size)
	}

	pagedStart := reserved.End() - uint64(len(pagedPart))

	if _, err = mem.Copy(m, "secure world paged part", pagedStart, pagedPart); err != nil {
		return
	}

	if _, err = mem.Copy(m, "secure world init part", dst, initPart); err != nil {
		return
	}

	return &SecureEntry{
		Entry:     hdr.InitLoadAddrLo,
		PagedPart: uint32(pagedStart),
	}, nil
}

// InitSecure prepares the Secure World OS boot, the device tree is either the
// one passed as argument or the platform provided one found at DTBStart.
func InitSecure(m mem.Memory, tee []byte, hardcodedDTB []byte) (h *Handoff, err error) {
	log.Printf("secure world init (%s mode)", Mode())

	buf, err := m.Slice(mem.DTBStart, mem.DTBMaxSize)

	if err != nil {
		return nil, errors.WrapPrefix(err, "device tree", 0)
	}

	src := buf

	if len(hardcodedDTB) > 0 {
		if len(hardcodedDTB) > mem.DTBMaxSize {
			return nil, errors.Errorf("%w, hardcoded DTB (%d)", dtb.ErrTooLarge, len(hardcodedDTB))
		}

		log.Printf("using hardcoded device tree")
		src = hardcodedDTB
	} else {
		log.Printf("using device tree at %#x", mem.DTBStart)
	}

	tree, err := dtb.Open(src, mem.DTBMaxSize)

	if err != nil {
		return nil, errors.WrapPrefix(err, "device tree", 0)
	}

	tree.AddFirmwareNode()

	if _, err = tree.Pack(buf); err != nil {
		return nil, errors.WrapPrefix(err, "device tree", 0)
	}

	e, err := StageSecure(m, tee, mem.SecureStart, mem.Reserved)

	if err != nil {
		return nil, errors.WrapPrefix(err, "secure world", 0)
	}

	return &Handoff{
		Name:  "secure world",
		Entry: e.Entry,
		R0:    e.PagedPart,
		R2:    mem.DTBStart,
		LR:    mem.NonSecureBIOSEntry,
	}, nil
}
