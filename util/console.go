// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

const (
	lineFeed       = 0x0a // \n
	carriageReturn = 0x0d // \r
)

// Transmitter represents a character output device.
type Transmitter interface {
	Tx(c byte)
}

// Console adapts a serial port for terminal output, each line feed is followed
// by a carriage return.
type Console struct {
	Port Transmitter
}

// Putc transmits a single character.
func (c *Console) Putc(b byte) {
	if c.Port == nil {
		return
	}

	c.Port.Tx(b)

	if b == lineFeed {
		c.Port.Tx(carriageReturn)
	}
}

// Write implements io.Writer.
func (c *Console) Write(buf []byte) (n int, err error) {
	for _, b := range buf {
		c.Putc(b)
	}

	return len(buf), nil
}
