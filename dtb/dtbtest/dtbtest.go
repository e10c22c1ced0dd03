// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dtbtest provides device tree blobs for tests.
package dtbtest

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"github.com/u-root/u-root/pkg/dt"

	"github.com/usbarmory/GoTEE-bios/mem"
)

const fdtMagic = 0xd00dfeed

// Cell returns a single cell property value.
func Cell(val uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, val)
	return buf
}

// Reg returns a reg property value with 2 address and 2 size cells.
func Reg(regions ...mem.Region) []byte {
	buf := make([]byte, 16*len(regions))

	for i, r := range regions {
		binary.BigEndian.PutUint64(buf[i*16:], r.Start)
		binary.BigEndian.PutUint64(buf[i*16+8:], r.Size)
	}

	return buf
}

// Pack serializes a device tree with the given root node.
func Pack(root *dt.Node) ([]byte, error) {
	fdt := &dt.FDT{
		Header: dt.Header{
			Magic:           fdtMagic,
			Version:         17,
			LastCompVersion: 16,
		},
		RootNode: root,
	}

	buf := new(bytes.Buffer)

	if _, err := fdt.Write(buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unpack parses a device tree.
func Unpack(buf []byte) (*dt.FDT, error) {
	return dt.ReadFDT(bytes.NewReader(buf))
}

// Platform returns the root node of a QEMU like device tree, with 2 address
// and size cells, the given memory map and two PL011 UARTs.
func Platform(memory ...mem.Region) *dt.Node {
	uart := func(base uint64) *dt.Node {
		return &dt.Node{
			Name: "uart@" + hex(base),
			Properties: []dt.Property{
				{Name: "compatible", Value: []byte("arm,pl011\x00arm,primecell\x00")},
				{Name: "reg", Value: Reg(mem.Region{Start: base, Size: 0x1000})},
			},
		}
	}

	return &dt.Node{
		Properties: []dt.Property{
			{Name: "#address-cells", Value: Cell(2)},
			{Name: "#size-cells", Value: Cell(2)},
			{Name: "compatible", Value: []byte("arm,vexpress\x00")},
		},
		Children: []*dt.Node{
			{
				Name: "chosen",
			},
			{
				Name: "memory@" + hex(memory[0].Start),
				Properties: []dt.Property{
					{Name: "device_type", Value: []byte("memory\x00")},
					{Name: "reg", Value: Reg(memory...)},
				},
			},
			{
				Name: "smb",
				Children: []*dt.Node{
					uart(mem.UART0Base),
					uart(mem.UART1Base),
				},
			},
		},
	}
}

func hex(v uint64) string {
	return strconv.FormatUint(v, 16)
}
