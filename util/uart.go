// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"sync/atomic"
	"unsafe"

	"github.com/usbarmory/tamago/bits"
)

// PL011 registers
const (
	UARTDR = 0x00

	UARTFR  = 0x18
	FR_TXFF = 5

	UARTCR    = 0x30
	CR_RXE    = 9
	CR_TXE    = 8
	CR_UARTEN = 0
)

// UART represents an ARM PrimeCell PL011 UART instance, only transmission is
// supported.
type UART struct {
	// Base is the controller register base address
	Base uint32
}

func (hw *UART) reg(off uint32) *uint32 {
	return (*uint32)(unsafe.Pointer(uintptr(hw.Base + off)))
}

// Init enables the UART, the line configuration is left to its reset (or
// previous bootloader) value.
func (hw *UART) Init() {
	var cr uint32

	bits.Set(&cr, CR_UARTEN)
	bits.Set(&cr, CR_TXE)
	bits.Set(&cr, CR_RXE)

	atomic.StoreUint32(hw.reg(UARTCR), cr)
}

// Tx transmits a single character, waiting for room in the transmit FIFO.
func (hw *UART) Tx(c byte) {
	for {
		fr := atomic.LoadUint32(hw.reg(UARTFR))

		if bits.Get(&fr, FR_TXFF, 1) == 0 {
			break
		}
	}

	atomic.StoreUint32(hw.reg(UARTDR), uint32(c))
}
