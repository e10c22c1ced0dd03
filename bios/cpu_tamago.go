// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package bios

import (
	"github.com/usbarmory/tamago/arm"
)

// defined in exec_arm.s
func exec(entry uint32, r0 uint32, r1 uint32, r2 uint32, lr uint32)
func cpsr() uint32

// Mode returns the current processor mode name.
func Mode() string {
	return arm.ModeName(int(cpsr()) & 0x1f)
}
