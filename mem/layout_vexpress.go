// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !virt
// +build !virt

package mem

// QEMU vexpress-a15 (default flavor)
const (
	DRAMStart   = 0x80000000
	SecureStart = 0xbdf00000

	UART0Base = 0x1c090000
	UART1Base = 0x1c0a0000
)
