// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package dtb implements the device tree modifications required to boot a
// Normal World kernel alongside a Secure World OS.
//
// Parsing and serialization of flattened device trees are delegated to the
// u-root dt package, this package only locates and rewrites nodes.
package dtb

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/go-errors/errors"
	"github.com/u-root/u-root/pkg/dt"
)

const (
	AddressCells = "#address-cells"
	SizeCells    = "#size-cells"
)

var (
	ErrNotFound = errors.New("not found")
	ErrTooLarge = errors.New("device tree too large")
)

// Tree represents a device tree being patched, its packed representation must
// not exceed a fixed capacity.
type Tree struct {
	fdt      *dt.FDT
	capacity int
}

// Open parses the flattened device tree found at the beginning of src.
func Open(src []byte, capacity int) (t *Tree, err error) {
	fdt, err := dt.ReadFDT(bytes.NewReader(src))

	if err != nil {
		return nil, errors.Errorf("could not parse device tree, %v", err)
	}

	if fdt.RootNode == nil {
		return nil, errors.Errorf("root node %w", ErrNotFound)
	}

	if size := int(fdt.Header.TotalSize); size > capacity {
		return nil, errors.Errorf("%w (%d > %d)", ErrTooLarge, size, capacity)
	}

	return &Tree{
		fdt:      fdt,
		capacity: capacity,
	}, nil
}

// Pack serializes the device tree in dst, returning its size.
func (t *Tree) Pack(dst []byte) (n int, err error) {
	buf := new(bytes.Buffer)

	if _, err = t.fdt.Write(buf); err != nil {
		return 0, errors.Errorf("could not pack device tree, %v", err)
	}

	limit := t.capacity

	if len(dst) < limit {
		limit = len(dst)
	}

	if buf.Len() > limit {
		return 0, errors.Errorf("%w (%d > %d)", ErrTooLarge, buf.Len(), limit)
	}

	return copy(dst, buf.Bytes()), nil
}

// Root returns the device tree root node.
func (t *Tree) Root() *dt.Node {
	return t.fdt.RootNode
}

// Node returns the node matching an absolute path (e.g. "/chosen").
func (t *Tree) Node(path string) (n *dt.Node, err error) {
	n = t.fdt.RootNode

	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}

		var ok bool

		if n, ok = child(n, name); !ok {
			return nil, errors.Errorf("node %s %w", path, ErrNotFound)
		}
	}

	return
}

// Cells returns the value of a root node #address-cells or #size-cells
// property.
func (t *Tree) Cells(name string) (c Cells, err error) {
	p, ok := property(t.fdt.RootNode, name)

	if !ok {
		return 0, errors.Errorf("property %s %w", name, ErrNotFound)
	}

	if len(p.Value) != 4 {
		return 0, errors.Errorf("%w, %s length %d", ErrCells, name, len(p.Value))
	}

	c = Cells(binary.BigEndian.Uint32(p.Value))

	if !c.valid() {
		return 0, errors.Errorf("%w, %s %d", ErrCells, name, c)
	}

	return
}

// ensure returns the node matching an absolute path, creating any missing
// node along it.
func (t *Tree) ensure(path string) (n *dt.Node) {
	n = t.fdt.RootNode

	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}

		c, ok := child(n, name)

		if !ok {
			c = &dt.Node{Name: name}
			n.Children = append(n.Children, c)
		}

		n = c
	}

	return
}

// nameEq compares a node name with a lookup name, a lookup name without unit
// address matches any unit address (e.g. "memory" matches "memory@80000000").
func nameEq(node string, name string) bool {
	if node == name {
		return true
	}

	if strings.Contains(name, "@") {
		return false
	}

	return strings.HasPrefix(node, name+"@")
}

func child(n *dt.Node, name string) (*dt.Node, bool) {
	for _, c := range n.Children {
		if nameEq(c.Name, name) {
			return c, true
		}
	}

	return nil, false
}

func property(n *dt.Node, name string) (*dt.Property, bool) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return &n.Properties[i], true
		}
	}

	return nil, false
}

func setProperty(n *dt.Node, name string, val []byte) {
	if p, ok := property(n, name); ok {
		p.Value = val
		return
	}

	n.Properties = append(n.Properties, dt.Property{
		Name:  name,
		Value: val,
	})
}

// find walks the tree depth first, returning the first node, and its parent,
// for which fn returns true.
func find(parent *dt.Node, fn func(n *dt.Node) bool) (*dt.Node, *dt.Node) {
	for _, c := range parent.Children {
		if fn(c) {
			return parent, c
		}

		if p, n := find(c, fn); n != nil {
			return p, n
		}
	}

	return nil, nil
}
