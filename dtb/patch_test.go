// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dtb_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/go-errors/errors"
	"github.com/u-root/u-root/pkg/dt"

	"github.com/usbarmory/GoTEE-bios/dtb"
	"github.com/usbarmory/GoTEE-bios/dtb/dtbtest"
	"github.com/usbarmory/GoTEE-bios/mem"
)

var (
	bank0 = mem.Region{Start: 0x80000000, Size: 0x40000000}
	bank1 = mem.Region{Start: 0x880000000, Size: 0x80000000}
	tz    = mem.Region{Start: 0xbdf00000, Size: 0x02100000}
)

func open(t *testing.T, root *dt.Node) *dtb.Tree {
	buf, err := dtbtest.Pack(root)

	if err != nil {
		t.Fatal(err)
	}

	tree, err := dtb.Open(buf, mem.DTBMaxSize)

	if err != nil {
		t.Fatal(err)
	}

	return tree
}

// repack serializes and parses back the tree, to verify changes against
// the packed representation.
func repack(t *testing.T, tree *dtb.Tree) *dt.FDT {
	buf := make([]byte, mem.DTBMaxSize)

	n, err := tree.Pack(buf)

	if err != nil {
		t.Fatal(err)
	}

	fdt, err := dtbtest.Unpack(buf[:n])

	if err != nil {
		t.Fatal(err)
	}

	return fdt
}

func lookup(t *testing.T, fdt *dt.FDT, path ...string) *dt.Node {
	n := fdt.RootNode

	for _, name := range path {
		var found *dt.Node

		for _, c := range n.Children {
			if c.Name == name {
				found = c
			}
		}

		if found == nil {
			t.Fatalf("node %v not found", path)
		}

		n = found
	}

	return n
}

func value(t *testing.T, n *dt.Node, name string) []byte {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value
		}
	}

	t.Fatalf("property %s not found in %s", name, n.Name)

	return nil
}

func TestOpen(t *testing.T) {
	t.Parallel()

	buf, err := dtbtest.Pack(dtbtest.Platform(bank0))

	if err != nil {
		t.Fatal(err)
	}

	if _, err = dtb.Open(buf, len(buf)-1); !errors.Is(err, dtb.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	if _, err = dtb.Open(make([]byte, 64), mem.DTBMaxSize); err == nil {
		t.Fatal("expected error on invalid device tree")
	}

	// trailing memory after the blob is ignored
	padded := make([]byte, mem.DTBMaxSize)
	copy(padded, buf)

	if _, err = dtb.Open(padded, mem.DTBMaxSize); err != nil {
		t.Fatal(err)
	}
}

func TestPackCapacity(t *testing.T) {
	t.Parallel()

	tree := open(t, dtbtest.Platform(bank0))

	_, err := tree.Pack(make([]byte, 32))

	if !errors.Is(err, dtb.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	if !strings.HasSuffix(err.Error(), "> 32)") {
		t.Fatalf("destination limit not reported, %v", err)
	}

	// the tree grows past the capacity it was opened with
	buf, err := dtbtest.Pack(dtbtest.Platform(bank0))

	if err != nil {
		t.Fatal(err)
	}

	tree, err = dtb.Open(buf, len(buf))

	if err != nil {
		t.Fatal(err)
	}

	tree.AddFirmwareNode()

	_, err = tree.Pack(make([]byte, mem.DTBMaxSize))

	if !errors.Is(err, dtb.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	if limit := fmt.Sprintf("> %d)", len(buf)); !strings.HasSuffix(err.Error(), limit) {
		t.Fatalf("capacity limit not reported, %v", err)
	}
}

func TestCells(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		value []byte
		err   error
	}{
		{dtbtest.Cell(1), nil},
		{dtbtest.Cell(2), nil},
		{dtbtest.Cell(0), dtb.ErrCells},
		{dtbtest.Cell(3), dtb.ErrCells},
		{append(dtbtest.Cell(0), dtbtest.Cell(2)...), dtb.ErrCells},
	} {
		root := dtbtest.Platform(bank0)
		root.Properties[0].Value = tc.value

		c, err := open(t, root).Cells(dtb.AddressCells)

		if tc.err == nil {
			if err != nil {
				t.Fatal(err)
			}

			if c != dtb.Cells(tc.value[3]) {
				t.Fatalf("expected %d cells, got %d", tc.value[3], c)
			}

			continue
		}

		if !errors.Is(err, tc.err) {
			t.Fatalf("%x: expected %v, got %v", tc.value, tc.err, err)
		}
	}
}

func TestCarveReservedMemory(t *testing.T) {
	t.Parallel()

	for _, w := range []mem.Region{
		tz,
		{Start: tz.Start, Size: 0x00100000},
		{Start: bank0.Start, Size: 0x00100000},
	} {
		tree := open(t, dtbtest.Platform(bank0, bank1))

		if err := tree.CarveReservedMemory(w); err != nil {
			t.Fatal(err)
		}

		fdt := repack(t, tree)
		reg := value(t, lookup(t, fdt, "memory@80000000"), "reg")

		res, err := dtb.DecodeRegions(reg, 2, 2)

		if err != nil {
			t.Fatal(err)
		}

		var expected []mem.Region

		if w.Start != bank0.Start {
			expected = append(expected, mem.Region{Start: bank0.Start, Size: w.Start - bank0.Start})
		}

		if w.End() != bank0.End() {
			expected = append(expected, mem.Region{Start: w.End(), Size: bank0.End() - w.End()})
		}

		expected = append(expected, bank1)

		if !reflect.DeepEqual(res, expected) {
			t.Fatalf("%s: expected %v, got %v", w, expected, res)
		}
	}
}

func TestCarveReservedMemoryOverflow(t *testing.T) {
	t.Parallel()

	// overlapping banks both split by the window exceed the one entry growth
	tree := open(t, dtbtest.Platform(bank0, bank0))
	w := mem.Region{Start: tz.Start, Size: 0x00100000}

	if err := tree.CarveReservedMemory(w); !errors.Is(err, dtb.ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
}

func TestCarveReservedMemorySingleCells(t *testing.T) {
	t.Parallel()

	root := dtbtest.Platform(bank0)
	root.Properties[0].Value = dtbtest.Cell(1)
	root.Properties[1].Value = dtbtest.Cell(1)

	reg := make([]byte, 8)
	dtb.EncodeRegions(reg, []mem.Region{{Start: tz.Start, Size: tz.Size}}, 1, 1)
	root.Children[1].Properties[1].Value = reg

	tree := open(t, root)

	if err := tree.CarveReservedMemory(tz); err != nil {
		t.Fatal(err)
	}

	fdt := repack(t, tree)

	if reg := value(t, lookup(t, fdt, "memory@80000000"), "reg"); len(reg) != 0 {
		t.Fatalf("expected empty memory map, got %x", reg)
	}
}

func TestCarveReservedMemoryUnavailable(t *testing.T) {
	t.Parallel()

	tree := open(t, dtbtest.Platform(mem.Region{Start: bank0.Start, Size: tz.Start - bank0.Start + 0x1000}))

	if err := tree.CarveReservedMemory(tz); !errors.Is(err, mem.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCarveReservedMemoryMissing(t *testing.T) {
	t.Parallel()

	root := dtbtest.Platform(bank0)
	root.Children = root.Children[:1]

	if err := open(t, root).CarveReservedMemory(tz); !errors.Is(err, dtb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	root = dtbtest.Platform(bank0)
	root.Children[1].Properties = root.Children[1].Properties[:1]

	if err := open(t, root).CarveReservedMemory(tz); !errors.Is(err, dtb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveUART(t *testing.T) {
	t.Parallel()

	tree := open(t, dtbtest.Platform(bank0))

	name, err := tree.RemoveUART("arm,pl011", mem.UART1Base)

	if err != nil {
		t.Fatal(err)
	}

	if name != "uart@"+hexAddr(mem.UART1Base) {
		t.Fatalf("unexpected node removed: %s", name)
	}

	fdt := repack(t, tree)
	smb := lookup(t, fdt, "smb")

	if len(smb.Children) != 1 || smb.Children[0].Name != "uart@"+hexAddr(mem.UART0Base) {
		t.Fatalf("unexpected UART nodes %v", smb.Children)
	}

	// second removal finds nothing
	if name, err = tree.RemoveUART("arm,pl011", mem.UART1Base); err != nil || name != "" {
		t.Fatalf("unexpected removal %q, %v", name, err)
	}

	if name, _ = tree.RemoveUART("ns16550a", mem.UART0Base); name != "" {
		t.Fatalf("incompatible node removed: %s", name)
	}
}

func TestAddFirmwareNode(t *testing.T) {
	t.Parallel()

	tree := open(t, dtbtest.Platform(bank0))
	tree.AddFirmwareNode()
	// adding twice reuses the existing node
	tree.AddFirmwareNode()

	fdt := repack(t, tree)

	if n := len(lookup(t, fdt, "firmware").Children); n != 1 {
		t.Fatalf("expected a single firmware child, got %d", n)
	}

	compat := value(t, lookup(t, fdt, "firmware", "optee"), "compatible")

	if !bytes.Equal(compat, []byte("linaro,optee-tz\x00")) {
		t.Fatalf("unexpected compatible %q", compat)
	}
}

func TestSetChosen(t *testing.T) {
	t.Parallel()

	cmdline := "console=ttyAMA0,115200"
	tree := open(t, dtbtest.Platform(bank0))

	if err := tree.SetChosen(0x8a000000, 0x8a400000, cmdline); err != nil {
		t.Fatal(err)
	}

	chosen := lookup(t, repack(t, tree), "chosen")

	if v := value(t, chosen, "linux,initrd-start"); !bytes.Equal(v, dtbtest.Cell(0x8a000000)) {
		t.Fatalf("unexpected initrd-start %x", v)
	}

	if v := value(t, chosen, "linux,initrd-end"); !bytes.Equal(v, dtbtest.Cell(0x8a400000)) {
		t.Fatalf("unexpected initrd-end %x", v)
	}

	if v := value(t, chosen, "bootargs"); !bytes.Equal(v, []byte(cmdline+"\x00")) {
		t.Fatalf("unexpected bootargs %q", v)
	}
}

func TestSetChosenMissing(t *testing.T) {
	t.Parallel()

	root := dtbtest.Platform(bank0)
	root.Children = root.Children[1:]

	if err := open(t, root).SetChosen(0, 0, ""); !errors.Is(err, dtb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNode(t *testing.T) {
	t.Parallel()

	tree := open(t, dtbtest.Platform(bank0))

	for _, path := range []string{"/", "/chosen", "/memory", "/memory@80000000", "/smb/uart"} {
		if _, err := tree.Node(path); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
	}

	for _, path := range []string{"/firmware", "/memory@0", "/smb/uart@1", "/mem"} {
		if _, err := tree.Node(path); !errors.Is(err, dtb.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", path, err)
		}
	}
}

func hexAddr(v uint64) string {
	return strconv.FormatUint(v, 16)
}
