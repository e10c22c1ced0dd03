// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package bios

import (
	"log"

	"github.com/go-errors/errors"

	"github.com/usbarmory/GoTEE-bios/dtb"
	"github.com/usbarmory/GoTEE-bios/mem"
)

const (
	// CmdLine is the kernel command line set in /chosen/bootargs.
	CmdLine = "console=ttyAMA0,115200 earlyprintk=serial,ttyAMA0,115200 dynamic_debug.verbose=1"
	// MachineID is the ARM machine type passed in r1 (MACH_VEXPRESS).
	MachineID = 2272

	KernelOffset = 0x02000000 // 32MB
	DTBOffset    = 0x06000000 // 96MB
)

// Placement represents the Normal World images layout.
type Placement struct {
	Kernel mem.Region
	DTB    mem.Region
	RootFS mem.Region
}

// Place computes the Normal World images layout for the given sizes.
func Place(kernelSize int, rootfsSize int) *Placement {
	p := &Placement{}

	p.Kernel = mem.Region{
		Start: mem.DRAMStart + KernelOffset,
		Size:  uint64(kernelSize),
	}

	p.DTB = mem.Region{
		Start: mem.RoundUp(p.Kernel.End(), mem.PageSize) + DTBOffset,
		Size:  mem.DTBMaxSize,
	}

	p.RootFS = mem.Region{
		Start: mem.RoundUp(p.DTB.End()+mem.DTBMaxSize, mem.PageSize),
		Size:  uint64(rootfsSize),
	}

	return p
}

func (p *Placement) images() []struct {
	name string
	r    mem.Region
} {
	return []struct {
		name string
		r    mem.Region
	}{
		{"kernel", p.Kernel},
		{"dtb", p.DTB},
		{"rootfs", p.RootFS},
	}
}

// Overlap returns an error describing the first overlap found between the
// placed images and the reserved window.
func (p *Placement) Overlap(reserved mem.Region) error {
	regions := append(p.images(), struct {
		name string
		r    mem.Region
	}{"reserved", reserved})

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			a := regions[i]
			b := regions[j]

			if a.r.Overlaps(b.r) {
				return errors.Errorf("%s (%s) overlaps %s (%s)", a.name, a.r, b.name, b.r)
			}
		}
	}

	return nil
}

// Within verifies that all images fit the staging window.
func (p *Placement) Within(w mem.Region) error {
	for _, img := range p.images() {
		if img.r.Start < w.Start || img.r.End() > w.End() {
			return errors.Errorf("%w, %s (%s) outside staging memory (%s)", ErrImageSize, img.name, img.r, w)
		}
	}

	return nil
}

// PatchDeviceTree reads the device tree left at DTBStart and returns it packed
// for the Normal World, with the reserved window carved out of its memory
// map, the Secure World UART hidden (unless shared) and /chosen pointing to
// the placed root filesystem.
func PatchDeviceTree(m mem.Memory, p *Placement) (blob []byte, err error) {
	src, err := m.Slice(mem.DTBStart, mem.DTBMaxSize)

	if err != nil {
		return
	}

	log.Printf("relocating device tree from %#x to %#x", mem.DTBStart, p.DTB.Start)

	tree, err := dtb.Open(src, int(p.DTB.Size))

	if err != nil {
		return
	}

	if err = tree.CarveReservedMemory(mem.Reserved); err != nil {
		return
	}

	if mem.SharedUART {
		log.Printf("secure world UART shared with normal world")
	} else {
		var name string

		if name, err = tree.RemoveUART(mem.SecureUARTCompatible, mem.SecureUARTBase); err != nil {
			return
		}

		if name != "" {
			log.Printf("removed secure world UART node %s", name)
		}
	}

	if err = tree.SetChosen(uint32(p.RootFS.Start), uint32(p.RootFS.End()), CmdLine); err != nil {
		return
	}

	log.Printf("kernel command line: %s", CmdLine)

	blob = make([]byte, p.DTB.Size)

	n, err := tree.Pack(blob)

	if err != nil {
		return nil, err
	}

	return blob[:n], nil
}
