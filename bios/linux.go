// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm
// +build tamago,arm

package bios

import (
	"log"

	"github.com/go-errors/errors"

	"github.com/usbarmory/armory-boot/exec"

	"github.com/usbarmory/GoTEE-bios/mem"
)

// InitNonSecure stages the Linux kernel, its device tree and root filesystem
// in the staging window, the device tree is taken from DTBStart and patched to
// hide Secure World resources.
func InitNonSecure(m mem.Memory, staging *mem.Window, kernel []byte, rootfs []byte) (h *Handoff, err error) {
	log.Printf("normal world init (%s mode)", Mode())

	p := Place(len(kernel), len(rootfs))

	if err = p.Overlap(mem.Reserved); err != nil {
		log.Printf("warning, %v", err)
	}

	w := staging.Bounds()

	if err = p.Within(w); err != nil {
		return
	}

	blob, err := PatchDeviceTree(m, p)

	if err != nil {
		return nil, errors.WrapPrefix(err, "device tree", 0)
	}

	image := &exec.LinuxImage{
		Region:               staging.Region,
		Kernel:               kernel,
		DeviceTreeBlob:       blob,
		InitialRamDisk:       rootfs,
		KernelOffset:         int(p.Kernel.Start - w.Start),
		DeviceTreeBlobOffset: int(p.DTB.Start - w.Start),
		InitialRamDiskOffset: int(p.RootFS.Start - w.Start),
		CmdLine:              CmdLine,
	}

	log.Printf("loading kernel at %s, dtb at %s, rootfs at %s", p.Kernel, p.DTB, p.RootFS)

	if err = image.Load(); err != nil {
		return nil, errors.WrapPrefix(err, "kernel", 0)
	}

	return &Handoff{
		Name:  "kernel",
		Entry: image.Entry(),
		R1:    MachineID,
		R2:    image.DTB(),
	}, nil
}
