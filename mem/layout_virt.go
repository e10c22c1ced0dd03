// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build virt
// +build virt

package mem

// QEMU virt
const (
	DRAMStart   = 0x40000000
	SecureStart = 0x7df00000

	UART0Base = 0x09000000
	UART1Base = 0x09040000
)
