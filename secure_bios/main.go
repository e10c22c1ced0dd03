// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package main

import (
	_ "embed"
	"log"
	"os"
	"runtime"
	_ "unsafe"

	"github.com/usbarmory/GoTEE-bios/bios"
	_ "github.com/usbarmory/GoTEE-bios/board"
	"github.com/usbarmory/GoTEE-bios/mem"
	"github.com/usbarmory/GoTEE-bios/util"
)

// This program embeds the Secure World OS image, which is staged with its
// device tree before jumping to it, the Secure World OS is expected to return
// to the Normal World BIOS.

//go:embed assets/tee.bin
var teeImage []byte

//go:linkname ramStart runtime.ramStart
var ramStart uint32 = mem.SecureBIOSStart

//go:linkname ramSize runtime.ramSize
var ramSize uint32 = mem.SecureBIOSSize

//go:linkname ramStackOffset runtime.ramStackOffset
var ramStackOffset uint32 = 0x100

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
	log.SetPrefix("bios: ")
}

func main() {
	log.Printf("%s/%s (%s) • secure world BIOS", runtime.GOOS, runtime.GOARCH, runtime.Version())

	mem.Init()

	h, err := bios.InitSecure(mem.Windows{mem.DTBWindow, mem.ReservedWindow}, teeImage, hardcodedDTB)

	if err != nil {
		util.Halt(err)
	}

	h.Boot()
}
