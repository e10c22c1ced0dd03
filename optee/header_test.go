// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package optee_test

import (
	"testing"

	"github.com/usbarmory/GoTEE-bios/optee"
)

func TestHeaderSize(t *testing.T) {
	t.Parallel()

	h := &optee.Header{}

	if n := len(h.Bytes()); n != optee.HeaderSize {
		t.Fatalf("invalid header size %d", n)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	h := &optee.Header{
		Magic:          optee.Magic,
		Version:        optee.Version,
		Arch:           optee.ArchARM32,
		InitSize:       0x1000,
		InitLoadAddrLo: 0xbdf00000,
		PagedSize:      0x2000,
	}

	image := append(h.Bytes(), make([]byte, 0x3000)...)

	// magic is stored in host (little endian) order
	if string(image[0:4]) != "OPTE" {
		t.Fatalf("unexpected magic encoding %q", image[0:4])
	}

	res, ok := optee.Parse(image)

	if !ok {
		t.Fatal("header not detected")
	}

	if *res != *h {
		t.Fatalf("expected %+v, got %+v", h, res)
	}

	if res.LoadAddress() != 0xbdf00000 {
		t.Fatalf("unexpected load address %#x", res.LoadAddress())
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	valid := &optee.Header{
		Magic:   optee.Magic,
		Version: optee.Version,
	}

	badMagic := *valid
	badMagic.Magic = 0xd00dfeed

	badVersion := *valid
	badVersion.Version = 2

	for name, image := range map[string][]byte{
		"empty":       nil,
		"short":       valid.Bytes()[:optee.HeaderSize-1],
		"bad magic":   badMagic.Bytes(),
		"bad version": badVersion.Bytes(),
	} {
		if _, ok := optee.Parse(image); ok {
			t.Fatalf("%s: header detected", name)
		}
	}
}
