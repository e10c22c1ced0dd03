// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build !(tamago && arm)
// +build !tamago !arm

package bios

import (
	"fmt"
)

func exec(entry uint32, _ uint32, _ uint32, _ uint32, _ uint32) {
	panic(fmt.Sprintf("cannot jump to %#x on this platform", entry))
}

// Mode returns the current processor mode name.
func Mode() string {
	return "unknown"
}
