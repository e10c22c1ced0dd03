// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package bios implements the staging of Secure and Normal World images in
// physical memory and the final transfer of control to them.
package bios

import (
	"fmt"
	"log"
)

// Handoff represents the transfer of control to a staged image.
type Handoff struct {
	// Name is the staged image description
	Name string
	// Entry is the image entry point
	Entry uint32

	// R0, R1, R2 are the boot arguments
	R0 uint32
	R1 uint32
	R2 uint32
	// LR is the return address, if any, the Secure World OS uses it as
	// Normal World entry point.
	LR uint32
}

func (h *Handoff) String() string {
	return fmt.Sprintf("%s at %#x with r0:%#x r1:%#x r2:%#x lr:%#x", h.Name, h.Entry, h.R0, h.R1, h.R2, h.LR)
}

// Boot jumps to the image entry point with interrupts disabled, it never
// returns.
func (h *Handoff) Boot() {
	log.Printf("entering %s", h)
	exec(h.Entry, h.R0, h.R1, h.R2, h.LR)
}
