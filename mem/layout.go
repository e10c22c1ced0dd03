// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package mem

// This layout mirrors the QEMU ARM boot flow: the DTB is found (or placed) at
// the start of DRAM, both BIOS programs run from low DRAM and the Secure World
// OS owns a window at the top of the first memory bank.
const (
	// Device Tree Blob handed from one world to the next
	DTBStart   = DRAMStart
	DTBMaxSize = 0x00010000 // 64KB

	// Secure World BIOS
	SecureBIOSStart = DRAMStart + 0x00100000
	SecureBIOSSize  = 0x00f00000 // 15MB
	SecureBIOSEntry = SecureBIOSStart + TextOffset

	// Normal World BIOS
	NonSecureBIOSStart = DRAMStart + 0x01000000
	NonSecureBIOSSize  = 0x01000000 // 16MB
	NonSecureBIOSEntry = NonSecureBIOSStart + TextOffset

	// Normal World images staging
	StagingStart = DRAMStart + 0x02000000
	StagingSize  = ReservedStart - StagingStart

	// Secure World OS reserved memory, hidden from the Normal World
	ReservedStart = SecureStart
	ReservedSize  = 0x02000000 + 0x00100000 // 33MB

	// Console UART, the remaining one is assigned to the Secure World
	ConsoleUARTBase = UART0Base
	SecureUARTBase  = UART1Base

	// SecureUARTCompatible is the compatible string of the Secure World
	// UART device tree node.
	SecureUARTCompatible = "arm,pl011"
)

// TextOffset is the offset of TamaGo programs text (and entry point) from
// their runtime memory start, it must match the linker -T flag (see Makefile).
const TextOffset = 0x10000

// PageSize is the granularity used for Normal World image placement.
const PageSize = 4096

// Reserved is the memory window exclusively owned by the Secure World.
var Reserved = Region{
	Start: ReservedStart,
	Size:  ReservedSize,
}

// RoundUp rounds v up to the next multiple of size, which must be a power of
// two.
func RoundUp(v uint64, size uint64) uint64 {
	return (v + size - 1) &^ (size - 1)
}
