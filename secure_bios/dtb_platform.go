// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build tamago && arm && !hardcoded_dtb
// +build tamago,arm,!hardcoded_dtb

package main

// the platform device tree, found at mem.DTBStart, is used
var hardcodedDTB []byte
