// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

// Package board provides the TamaGo runtime hooks for the QEMU ARM
// platforms, both BIOS programs import it for side effects.
//
// The hooks run before the Go heap is initialized and therefore must not
// allocate.
package board

import (
	_ "unsafe"

	"github.com/usbarmory/GoTEE-bios/mem"
	"github.com/usbarmory/GoTEE-bios/util"
)

// nanotime1 resolution, no hardware timer is configured
const tick = 1000

var (
	uart    = util.UART{Base: mem.ConsoleUARTBase}
	console util.Console

	ticks int64
	seed  uint64 = 0x9e3779b97f4a7c15
)

//go:linkname hwinit runtime.hwinit
func hwinit() {
	if !hasConsole {
		return
	}

	uart.Init()
	console.Port = &uart
}

//go:linkname printk runtime.printk
func printk(c byte) {
	console.Putc(c)
}

//go:linkname nanotime1 runtime.nanotime1
func nanotime1() int64 {
	ticks += tick
	return ticks
}

//go:linkname initRNG runtime.initRNG
func initRNG() {
	seed ^= uint64(nanotime1())
}

// getRandomData feeds the runtime with xorshift64 output, it is not suitable
// for cryptographic use.
//
//go:linkname getRandomData runtime.getRandomData
func getRandomData(b []byte) {
	for i := range b {
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17

		b[i] = byte(seed)
	}
}
