// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dtb

import (
	"encoding/binary"
	"log"
	"strings"

	"github.com/go-errors/errors"
	"github.com/u-root/u-root/pkg/dt"

	"github.com/usbarmory/GoTEE-bios/mem"
)

// OPTEECompatible identifies the Secure World OS in the /firmware/optee node.
const OPTEECompatible = "linaro,optee-tz"

func logRegions(title string, regions []mem.Region) {
	log.Printf("%s", title)

	for _, r := range regions {
		log.Printf("  %#x %#x", r.Start, r.Size)
	}
}

// CarveReservedMemory removes the reserved window from the /memory node reg
// property, the window must be entirely covered by it.
func (t *Tree) CarveReservedMemory(w mem.Region) (err error) {
	memory, ok := child(t.fdt.RootNode, "memory")

	if !ok {
		return errors.Errorf("memory node %w", ErrNotFound)
	}

	reg, ok := property(memory, "reg")

	if !ok {
		return errors.Errorf("memory reg property %w", ErrNotFound)
	}

	addr, err := t.Cells(AddressCells)

	if err != nil {
		return
	}

	size, err := t.Cells(SizeCells)

	if err != nil {
		return
	}

	regions, err := DecodeRegions(reg.Value, addr, size)

	if err != nil {
		return
	}

	log.Printf("checking that secure memory %s is available", w)
	logRegions("available memory:", regions)

	if err = mem.Available(regions, w); err != nil {
		return
	}

	carved := mem.Carve(regions, w)

	// the window can split at most one region, which adds a single entry
	buf := make([]byte, len(reg.Value)+addr.Size()+size.Size())
	n, err := EncodeRegions(buf, carved, addr, size)

	if err != nil {
		return
	}

	logRegions("carved out secure memory from DTB memory:", carved)

	reg.Value = buf[:n]

	return
}

func compatible(n *dt.Node, compat string) bool {
	p, ok := property(n, "compatible")

	if !ok {
		return false
	}

	for _, s := range strings.Split(string(p.Value), "\x00") {
		if s == compat {
			return true
		}
	}

	return false
}

func hasRegBase(n *dt.Node, addr Cells, base uint64) bool {
	p, ok := property(n, "reg")

	if !ok {
		return false
	}

	val, _, err := ReadCell(p.Value, 0, addr)

	return err == nil && val == base
}

// RemoveUART deletes the first node compatible with the argument string and
// whose reg property starts at base, returning its name (if found).
func (t *Tree) RemoveUART(compat string, base uint64) (name string, err error) {
	addr, err := t.Cells(AddressCells)

	if err != nil {
		return
	}

	parent, node := find(t.fdt.RootNode, func(n *dt.Node) bool {
		return compatible(n, compat) && hasRegBase(n, addr, base)
	})

	if node == nil {
		return
	}

	for i, c := range parent.Children {
		if c == node {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}

	return node.Name, nil
}

// AddFirmwareNode describes the Secure World OS in /firmware/optee.
func (t *Tree) AddFirmwareNode() {
	optee := t.ensure("/firmware/optee")
	setProperty(optee, "compatible", []byte(OPTEECompatible+"\x00"))
}

// SetChosen passes the initial ramdisk location and the kernel command line
// through the existing /chosen node.
func (t *Tree) SetChosen(initrdStart uint32, initrdEnd uint32, cmdline string) (err error) {
	chosen, err := t.Node("/chosen")

	if err != nil {
		return
	}

	setProperty(chosen, "linux,initrd-start", cell(initrdStart))
	setProperty(chosen, "linux,initrd-end", cell(initrdEnd))
	setProperty(chosen, "bootargs", []byte(cmdline+"\x00"))

	return
}

func cell(val uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, val)
	return buf
}
