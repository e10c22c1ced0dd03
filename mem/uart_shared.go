// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

//go:build uart_shared
// +build uart_shared

package mem

// SharedUART is set when the Secure and Normal World share the console UART,
// in which case the Secure World UART node is left in the device tree.
const SharedUART = true
