// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm && hardcoded_dtb
// +build tamago,arm,hardcoded_dtb

package main

import (
	_ "embed"
)

// hardcodedDTB replaces the device tree provided by the platform.
//
//go:embed assets/bios.dtb
var hardcodedDTB []byte
