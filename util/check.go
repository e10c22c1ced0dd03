// Copyright (c) The GoTEE authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package util

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/go-errors/errors"
)

// Location returns the source position where an error was raised, that is the
// outermost github.com/go-errors/errors value found in the error chain.
func Location(err error) (file string, line int, ok bool) {
	var e *errors.Error

	if !errors.As(err, &e) {
		return
	}

	frames := e.StackFrames()

	if len(frames) == 0 {
		return
	}

	return filepath.Base(frames[0].File), frames[0].LineNumber, true
}

// Diagnostic formats a failed check for the console.
func Diagnostic(err error) string {
	if file, line, ok := Location(err); ok {
		return fmt.Sprintf("check \"%v\": %s:%d", err, file, line)
	}

	return fmt.Sprintf("check \"%v\"", err)
}

// Halt logs a failed check and stops execution.
func Halt(err error) {
	log.Print(Diagnostic(err))

	for {
	}
}
