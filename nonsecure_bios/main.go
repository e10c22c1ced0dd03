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

// This program embeds the Linux kernel and its root filesystem, the device
// tree left by the Secure World BIOS at mem.DTBStart is relocated and patched
// before jumping to the kernel.

//go:embed assets/zImage
var kernelImage []byte

//go:embed assets/rootfs
var rootfsImage []byte

//go:linkname ramStart runtime.ramStart
var ramStart uint32 = mem.NonSecureBIOSStart

//go:linkname ramSize runtime.ramSize
var ramSize uint32 = mem.NonSecureBIOSSize

//go:linkname ramStackOffset runtime.ramStackOffset
var ramStackOffset uint32 = 0x100

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
	log.SetPrefix("bios-ns: ")
}

func main() {
	log.Printf("%s/%s (%s) • normal world BIOS", runtime.GOOS, runtime.GOARCH, runtime.Version())

	mem.Init()

	h, err := bios.InitNonSecure(mem.Windows{mem.DTBWindow}, mem.StagingWindow, kernelImage, rootfsImage)

	if err != nil {
		util.Halt(err)
	}

	h.Boot()
}
